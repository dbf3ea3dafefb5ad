package genetic

import (
	"math/rand"
)

// Source supplies uniform random numbers in [0, 1).
// A *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns the process-global generator. It is not seeded by
// the algorithm, so runs using it are not reproducible.
func DefaultSource() Source {
	return globalSource{}
}

// NewSource returns a seeded generator for reproducible runs.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
