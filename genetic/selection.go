package genetic

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidFitness is returned when a fitness value cannot weight a roulette slot.
var ErrInvalidFitness = errors.New("invalid fitness value")

// RouletteWheel performs fitness-proportionate selection. It is built once
// per generation so every draw of that generation sees the same distribution.
type RouletteWheel struct {
	cutOffs []float64
}

// NewRouletteWheel computes ascending cut-offs c_i = c_{i-1} + f_i/S.
// If every fitness is zero, all slots get equal width.
func NewRouletteWheel(fitness []float64) (*RouletteWheel, error) {
	if len(fitness) == 0 {
		return nil, ErrEmptyPopulation
	}
	for i, f := range fitness {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return nil, fmt.Errorf("%w: fitness[%d] = %v", ErrInvalidFitness, i, f)
		}
	}

	weights := make([]float64, len(fitness))
	copy(weights, fitness)

	sum := floats.Sum(weights)
	if sum == 0 {
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(len(weights))
	}
	floats.Scale(1/sum, weights)

	cutOffs := make([]float64, len(weights))
	floats.CumSum(cutOffs, weights)

	return &RouletteWheel{cutOffs: cutOffs}, nil
}

// Len returns the number of slots.
func (w *RouletteWheel) Len() int {
	return len(w.cutOffs)
}

// CutOffs returns a copy of the cumulative cut-offs.
func (w *RouletteWheel) CutOffs() []float64 {
	out := make([]float64, len(w.cutOffs))
	copy(out, w.cutOffs)
	return out
}

// Spin draws u from rng and returns the first slot with u < c_i. When
// rounding leaves the last cut-off at or below u, the last slot is returned.
func (w *RouletteWheel) Spin(rng Source) int {
	return w.index(rng.Float64())
}

func (w *RouletteWheel) index(u float64) int {
	for i, c := range w.cutOffs {
		if u < c {
			return i
		}
	}
	return len(w.cutOffs) - 1
}
