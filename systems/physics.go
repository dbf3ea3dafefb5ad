// Package systems contains ECS systems for the marble simulation.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/marble/components"
	"github.com/pthm-cable/marble/config"
)

// Bounds represents the simulation bounds.
type Bounds struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle given by its center and half extents.
type Rect struct {
	X, Y                  float64
	HalfWidth, HalfHeight float64
}

// PhysicsParams holds the integration constants.
type PhysicsParams struct {
	AirFriction float64 // fraction of velocity lost per tick
	Bounce      float64 // restitution on walls and obstacles
}

// PhysicsParamsFromConfig converts the physics config section.
func PhysicsParamsFromConfig(cfg config.PhysicsConfig) PhysicsParams {
	return PhysicsParams{AirFriction: cfg.AirFriction, Bounce: cfg.Bounce}
}

// PhysicsSystem moves marbles, bounces them off walls and obstacles and
// applies air friction. Marbles never collide with each other.
type PhysicsSystem struct {
	filter         ecs.Filter3[components.Position, components.Velocity, components.Body]
	obstacleFilter ecs.Filter2[components.Position, components.Obstacle]
	bounds         Bounds
	params         PhysicsParams
	obstacles      []Rect // scratch, refilled every Update
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World, bounds Bounds, params PhysicsParams) *PhysicsSystem {
	return &PhysicsSystem{
		filter:         *ecs.NewFilter3[components.Position, components.Velocity, components.Body](w),
		obstacleFilter: *ecs.NewFilter2[components.Position, components.Obstacle](w),
		bounds:         bounds,
		params:         params,
	}
}

// collectObstacles snapshots every obstacle entity as a Rect.
func (s *PhysicsSystem) collectObstacles() {
	s.obstacles = s.obstacles[:0]
	query := s.obstacleFilter.Query()
	for query.Next() {
		pos, o := query.Get()
		s.obstacles = append(s.obstacles, Rect{X: pos.X, Y: pos.Y, HalfWidth: o.HalfWidth, HalfHeight: o.HalfHeight})
	}
}

// Update advances every moving body by one tick.
func (s *PhysicsSystem) Update() {
	damping := 1 - s.params.AirFriction
	s.collectObstacles()

	query := s.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()
		if vel.X == 0 && vel.Y == 0 {
			continue
		}

		pos.X += vel.X
		pos.Y += vel.Y

		s.bounceWalls(pos, vel, body.Radius)
		for i := range s.obstacles {
			s.bounceObstacle(pos, vel, body.Radius, &s.obstacles[i])
		}

		vel.X *= damping
		vel.Y *= damping
	}
}

// bounceWalls keeps a body of radius r inside the bounds.
func (s *PhysicsSystem) bounceWalls(pos *components.Position, vel *components.Velocity, r float64) {
	e := s.params.Bounce
	if pos.X < r {
		pos.X = r
		vel.X = math.Abs(vel.X) * e
	} else if pos.X > s.bounds.Width-r {
		pos.X = s.bounds.Width - r
		vel.X = -math.Abs(vel.X) * e
	}
	if pos.Y < r {
		pos.Y = r
		vel.Y = math.Abs(vel.Y) * e
	} else if pos.Y > s.bounds.Height-r {
		pos.Y = s.bounds.Height - r
		vel.Y = -math.Abs(vel.Y) * e
	}
}

// bounceObstacle resolves a circle/rectangle overlap by pushing the body
// out along the contact normal and reflecting the normal velocity.
func (s *PhysicsSystem) bounceObstacle(pos *components.Position, vel *components.Velocity, r float64, o *Rect) {
	cx := clamp(pos.X, o.X-o.HalfWidth, o.X+o.HalfWidth)
	cy := clamp(pos.Y, o.Y-o.HalfHeight, o.Y+o.HalfHeight)
	dx, dy := pos.X-cx, pos.Y-cy
	distSq := dx*dx + dy*dy
	if distSq >= r*r {
		return
	}

	var nx, ny, depth float64
	if distSq > 0 {
		dist := math.Sqrt(distSq)
		nx, ny = dx/dist, dy/dist
		depth = r - dist
	} else {
		// Center inside the rectangle: exit through the nearest face
		left := pos.X - (o.X - o.HalfWidth)
		right := (o.X + o.HalfWidth) - pos.X
		top := pos.Y - (o.Y - o.HalfHeight)
		bottom := (o.Y + o.HalfHeight) - pos.Y
		depth = left
		nx, ny = -1, 0
		if right < depth {
			depth, nx, ny = right, 1, 0
		}
		if top < depth {
			depth, nx, ny = top, 0, -1
		}
		if bottom < depth {
			depth, nx, ny = bottom, 0, 1
		}
		depth += r
	}

	pos.X += nx * depth
	pos.Y += ny * depth

	vn := vel.X*nx + vel.Y*ny
	if vn < 0 {
		j := (1 + s.params.Bounce) * vn
		vel.X -= j * nx
		vel.Y -= j * ny
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
