package components

import "math"

// Position represents an entity's position on the playing field.
// Y grows downwards, as on screen.
type Position struct {
	X, Y float64
}

// Velocity represents an entity's velocity in units per tick.
type Velocity struct {
	X, Y float64
}

// Speed returns the velocity magnitude.
func (v Velocity) Speed() float64 {
	return math.Hypot(v.X, v.Y)
}
