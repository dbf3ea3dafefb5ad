package genetic

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyPopulation is returned by aggregates over a population without members.
var ErrEmptyPopulation = errors.New("population is empty")

// Population is the ordered set of individuals of one generation.
type Population []*Individual

// Start launches every individual.
func (p Population) Start() {
	for _, ind := range p {
		ind.Start()
	}
}

// Stop halts every individual.
func (p Population) Stop() {
	for _, ind := range p {
		ind.Stop()
	}
}

// Destroy removes every individual's body from the simulation.
func (p Population) Destroy() {
	for _, ind := range p {
		ind.Destroy()
	}
}

// AllStopped reports whether no individual is moving.
// An empty population is trivially stopped.
func (p Population) AllStopped() bool {
	for _, ind := range p {
		if ind.IsMoving() {
			return false
		}
	}
	return true
}

// Distances returns each individual's distance to the goal, in order.
func (p Population) Distances() []float64 {
	d := make([]float64, len(p))
	for i, ind := range p {
		d[i] = ind.DistanceToGoal()
	}
	return d
}

// FitnessValues returns each individual's fitness, in order.
func (p Population) FitnessValues() []float64 {
	f := make([]float64, len(p))
	for i, ind := range p {
		f[i] = ind.Fitness()
	}
	return f
}

// AverageDistance returns the mean distance to the goal.
func (p Population) AverageDistance() (float64, error) {
	if len(p) == 0 {
		return 0, ErrEmptyPopulation
	}
	return stat.Mean(p.Distances(), nil), nil
}

// BestDistance returns the lowest distance to the goal.
func (p Population) BestDistance() (float64, error) {
	if len(p) == 0 {
		return 0, ErrEmptyPopulation
	}
	return floats.Min(p.Distances()), nil
}

// Best returns the individual closest to the goal. Ties go to the earlier one.
func (p Population) Best() (*Individual, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPopulation
	}
	return p[floats.MinIdx(p.Distances())], nil
}
