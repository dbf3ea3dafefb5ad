// Package genetic implements the generational genetic algorithm that evolves
// marble launch parameters.
//
// An Individual owns a DNA (power, angle) and a Body handle into the
// simulation. The Algorithm owns the current Population and, once every
// body has stopped, derives the next generation with roulette-wheel
// selection, per-gene crossover and bounded mutation.
package genetic

import (
	"fmt"
	"math"
)

// Gene domains. Mutation clamps into [0, MaxPower] and [0, MaxAngle].
const (
	MaxPower = 25.0
	MaxAngle = math.Pi
)

// DNA holds the evolvable launch parameters of an individual.
type DNA struct {
	Power float64 `json:"power"`
	Angle float64 `json:"angle"` // radians
}

// RandomDNA samples power uniformly from [0, MaxPower) and angle from [0, MaxAngle).
func RandomDNA(rng Source) DNA {
	return DNA{
		Power: rng.Float64() * MaxPower,
		Angle: rng.Float64() * MaxAngle,
	}
}

// Clamp returns a copy with both genes clamped into their domain.
func (d DNA) Clamp() DNA {
	return DNA{
		Power: clamp(d.Power, 0, MaxPower),
		Angle: clamp(d.Angle, 0, MaxAngle),
	}
}

// InDomain reports whether both genes lie inside their domain.
func (d DNA) InDomain() bool {
	return d.Power >= 0 && d.Power <= MaxPower && d.Angle >= 0 && d.Angle <= MaxAngle
}

func (d DNA) String() string {
	return fmt.Sprintf("{power: %.4f, angle: %.4f}", d.Power, d.Angle)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
