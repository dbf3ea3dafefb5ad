package genetic

import "math"

// Point is a position on the playing field.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Goal is the shared target every individual of a population aims for.
type Goal interface {
	Position() Point
}

// Body is the simulation handle an Individual drives. Positions and
// velocities belong to the simulation; the algorithm only launches bodies,
// polls them and reads their distance to the goal.
type Body interface {
	// Start imparts the initial velocity for the given launch parameters.
	Start(power, angle float64)
	// Stop zeroes the velocity.
	Stop()
	IsMoving() bool
	DistanceTo(goal Goal) float64
	// Spawn creates a fresh body at this body's start position with the
	// same texture and diameter.
	Spawn() Body
	// Destroy removes the body from the simulation.
	Destroy()
}
