package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/marble/components"
	"github.com/pthm-cable/marble/config"
	"github.com/pthm-cable/marble/genetic"
)

// World is the headless simulation the genetic algorithm plays in.
// It owns the ECS world and hands out Body and Goal handles.
type World struct {
	world *ecs.World

	marbleMapper   *ecs.Map4[components.Position, components.Velocity, components.Body, components.Marble]
	goalMapper     *ecs.Map3[components.Position, components.Body, components.Goal]
	obstacleMapper *ecs.Map2[components.Position, components.Obstacle]

	posMap    *ecs.Map1[components.Position]
	velMap    *ecs.Map1[components.Velocity]
	bodyMap   *ecs.Map1[components.Body]
	marbleMap *ecs.Map1[components.Marble]

	marbleFilter *ecs.Filter2[components.Velocity, components.Marble]

	physics   *PhysicsSystem
	bounds    Bounds
	stopSpeed float64
	tick      int
}

// NewWorld creates an empty world with the given bounds.
func NewWorld(bounds Bounds, params PhysicsParams, stopSpeed float64) *World {
	w := ecs.NewWorld()
	return &World{
		world:          w,
		marbleMapper:   ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Marble](w),
		goalMapper:     ecs.NewMap3[components.Position, components.Body, components.Goal](w),
		obstacleMapper: ecs.NewMap2[components.Position, components.Obstacle](w),
		posMap:         ecs.NewMap1[components.Position](w),
		velMap:         ecs.NewMap1[components.Velocity](w),
		bodyMap:        ecs.NewMap1[components.Body](w),
		marbleMap:      ecs.NewMap1[components.Marble](w),
		marbleFilter:   ecs.NewFilter2[components.Velocity, components.Marble](w),
		physics:        NewPhysicsSystem(w, bounds, params),
		bounds:         bounds,
		stopSpeed:      stopSpeed,
	}
}

// NewWorldFromConfig creates a world sized and tuned from cfg.
func NewWorldFromConfig(cfg *config.Config) *World {
	return NewWorld(
		Bounds{Width: cfg.Derived.Width, Height: cfg.Derived.Height},
		PhysicsParamsFromConfig(cfg.Physics),
		cfg.Physics.StopSpeed,
	)
}

// Level holds the handles created for a level.
type Level struct {
	Name  string
	Goal  *GoalHandle
	Start genetic.Point
	// Diameter of marbles launched in this level.
	Diameter float64
}

// BuildLevel places the level's obstacles and goal.
func (w *World) BuildLevel(lvl config.LevelConfig) Level {
	for _, o := range lvl.Obstacles {
		w.AddObstacle(o.Position.X, o.Position.Y, o.Size.Width, o.Size.Height)
	}
	goal := w.SpawnGoal(lvl.Goal.Position.X, lvl.Goal.Position.Y, lvl.Goal.Diameter)
	return Level{
		Name:     lvl.Name,
		Goal:     goal,
		Start:    genetic.Point{X: lvl.Marble.Position.X, Y: lvl.Marble.Position.Y},
		Diameter: lvl.Marble.Diameter,
	}
}

// Step advances the simulation by one tick.
func (w *World) Step() {
	w.physics.Update()
	w.tick++
}

// Tick returns the number of steps taken.
func (w *World) Tick() int {
	return w.tick
}

// Bounds returns the playing field size.
func (w *World) Bounds() Bounds {
	return w.bounds
}

// MovingCount returns the number of marbles above the stop speed.
func (w *World) MovingCount() int {
	n := 0
	query := w.marbleFilter.Query()
	for query.Next() {
		vel, _ := query.Get()
		if vel.Speed() > w.stopSpeed {
			n++
		}
	}
	return n
}

// MarbleCount returns the number of live marbles.
func (w *World) MarbleCount() int {
	n := 0
	query := w.marbleFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// AddObstacle places a static rectangle centered on (x, y).
func (w *World) AddObstacle(x, y, width, height float64) {
	w.obstacleMapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Obstacle{HalfWidth: width / 2, HalfHeight: height / 2},
	)
}

// SpawnGoal places the goal.
func (w *World) SpawnGoal(x, y, diameter float64) *GoalHandle {
	e := w.goalMapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Body{Radius: diameter / 2},
		&components.Goal{},
	)
	return &GoalHandle{w: w, entity: e}
}

// SpawnMarble places a resting marble at (x, y).
func (w *World) SpawnMarble(x, y, diameter float64, texture string) *MarbleBody {
	e := w.marbleMapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Velocity{},
		&components.Body{Radius: diameter / 2},
		&components.Marble{StartX: x, StartY: y, Texture: texture, Diameter: diameter},
	)
	return &MarbleBody{w: w, entity: e}
}

// Launch runs a single marble from start with the given parameters until
// it stops or maxTicks elapse, and returns its final distance to goal.
// Other marbles in the world keep moving while it runs.
func (w *World) Launch(start genetic.Point, diameter float64, goal genetic.Goal, power, angle float64, maxTicks int) float64 {
	m := w.SpawnMarble(start.X, start.Y, diameter, components.TextureMarble)
	defer m.Destroy()

	m.Start(power, angle)
	for t := 0; m.IsMoving() && (maxTicks <= 0 || t < maxTicks); t++ {
		w.Step()
	}
	return m.DistanceTo(goal)
}

// GoalHandle is the goal entity. It implements genetic.Goal.
type GoalHandle struct {
	w      *World
	entity ecs.Entity
}

// Position returns the goal center.
func (g *GoalHandle) Position() genetic.Point {
	pos := g.w.posMap.Get(g.entity)
	return genetic.Point{X: pos.X, Y: pos.Y}
}

// Radius returns the goal radius.
func (g *GoalHandle) Radius() float64 {
	return g.w.bodyMap.Get(g.entity).Radius
}

// MarbleBody is a marble entity. It implements genetic.Body.
type MarbleBody struct {
	w      *World
	entity ecs.Entity
}

// Alive reports whether the marble still exists.
func (m *MarbleBody) Alive() bool {
	return m.w.world.Alive(m.entity)
}

// Start sets the launch velocity (cos(angle)·power, −sin(angle)·power).
// Angle 0 points right, π/2 points up the screen.
func (m *MarbleBody) Start(power, angle float64) {
	vel := m.w.velMap.Get(m.entity)
	vel.X = math.Cos(angle) * power
	vel.Y = -math.Sin(angle) * power
}

// Stop zeroes the velocity.
func (m *MarbleBody) Stop() {
	vel := m.w.velMap.Get(m.entity)
	vel.X, vel.Y = 0, 0
}

// Reset stops the marble and moves it back to its start point.
func (m *MarbleBody) Reset() {
	m.Stop()
	pos := m.w.posMap.Get(m.entity)
	start := m.w.marbleMap.Get(m.entity)
	pos.X, pos.Y = start.StartX, start.StartY
}

// IsMoving reports whether the speed is above the stop threshold.
func (m *MarbleBody) IsMoving() bool {
	return m.w.velMap.Get(m.entity).Speed() > m.w.stopSpeed
}

// Position returns the marble center.
func (m *MarbleBody) Position() genetic.Point {
	pos := m.w.posMap.Get(m.entity)
	return genetic.Point{X: pos.X, Y: pos.Y}
}

// DistanceTo returns the Euclidean distance between centers.
func (m *MarbleBody) DistanceTo(goal genetic.Goal) float64 {
	return m.Position().Distance(goal.Position())
}

// IsTouching reports whether the bounding boxes of marble and goal overlap.
func (m *MarbleBody) IsTouching(goal *GoalHandle) bool {
	p, q := m.Position(), goal.Position()
	r := m.w.bodyMap.Get(m.entity).Radius
	gr := goal.Radius()
	return math.Abs(p.X-q.X) <= r+gr && math.Abs(p.Y-q.Y) <= r+gr
}

// Texture returns the marble's texture name.
func (m *MarbleBody) Texture() string {
	return m.w.marbleMap.Get(m.entity).Texture
}

// Spawn creates a resting marble at this marble's start point with the
// same texture and diameter.
func (m *MarbleBody) Spawn() genetic.Body {
	tmpl := m.w.marbleMap.Get(m.entity)
	return m.w.SpawnMarble(tmpl.StartX, tmpl.StartY, tmpl.Diameter, tmpl.Texture)
}

// Destroy removes the marble from the world. Destroying twice is a no-op.
func (m *MarbleBody) Destroy() {
	if m.w.world.Alive(m.entity) {
		m.w.world.RemoveEntity(m.entity)
	}
}
