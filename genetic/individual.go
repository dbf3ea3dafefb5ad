package genetic

import (
	"fmt"

	"github.com/google/uuid"
)

// Individual is one marble controlled by a DNA.
type Individual struct {
	id   uuid.UUID
	dna  DNA
	goal Goal
	body Body
}

// NewRandomIndividual creates an individual with a uniformly sampled DNA.
func NewRandomIndividual(body Body, goal Goal, rng Source) *Individual {
	return NewIndividual(body, goal, RandomDNA(rng))
}

// NewIndividual wraps an existing DNA.
func NewIndividual(body Body, goal Goal, dna DNA) *Individual {
	return &Individual{
		id:   uuid.New(),
		dna:  dna,
		goal: goal,
		body: body,
	}
}

// ID returns the individual's identifier. It is only used for tracing.
func (ind *Individual) ID() uuid.UUID { return ind.id }

// DNA returns a copy of the individual's genome.
func (ind *Individual) DNA() DNA { return ind.dna }

// Goal returns the shared goal.
func (ind *Individual) Goal() Goal { return ind.goal }

// Body returns the simulation handle.
func (ind *Individual) Body() Body { return ind.body }

// Start launches the body with the individual's DNA.
func (ind *Individual) Start() {
	ind.body.Start(ind.dna.Power, ind.dna.Angle)
}

// Stop halts the body.
func (ind *Individual) Stop() {
	ind.body.Stop()
}

// IsMoving reports whether the body is still moving.
func (ind *Individual) IsMoving() bool {
	return ind.body.IsMoving()
}

// DistanceToGoal returns the current distance between body and goal.
func (ind *Individual) DistanceToGoal() float64 {
	return ind.body.DistanceTo(ind.goal)
}

// Fitness returns 1/distance² of the current distance. See Fitness.
func (ind *Individual) Fitness() float64 {
	return Fitness(ind.DistanceToGoal())
}

// ReproduceWith creates a child with ind as father. The child body is
// spawned from the father's body and shares the father's goal. Neither
// parent is modified and no mutation is applied.
func (ind *Individual) ReproduceWith(mother *Individual, inheritance GeneProbability, rng Source) *Individual {
	dna := Crossover(ind.dna, mother.dna, inheritance, rng)
	return NewIndividual(ind.body.Spawn(), ind.goal, dna)
}

// Mutate perturbs the individual's own DNA in place.
func (ind *Individual) Mutate(params MutationParams, rng Source) []GeneChange {
	dna, changes := Mutate(ind.dna, params, rng)
	ind.dna = dna
	return changes
}

// Destroy removes the body from the simulation.
func (ind *Individual) Destroy() {
	ind.body.Destroy()
}

func (ind *Individual) String() string {
	return fmt.Sprintf("[%s]: DNA: %s; Distance to goal: %.4f", ind.id, ind.dna, ind.DistanceToGoal())
}
