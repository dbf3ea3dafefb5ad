package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/marble/config"
	"github.com/pthm-cable/marble/systems"
)

// LaunchEvaluator launches a single marble on a fresh headless world and
// scores the final distance to the goal.
type LaunchEvaluator struct {
	params   *ParamVector
	cfg      *config.Config
	level    config.LevelConfig
	maxTicks int

	// Best run tracking
	mu           sync.Mutex
	bestDistance float64
	bestRaw      []float64
	evals        int
}

// NewLaunchEvaluator creates an evaluator for one level.
func NewLaunchEvaluator(params *ParamVector, cfg *config.Config, level config.LevelConfig) *LaunchEvaluator {
	return &LaunchEvaluator{
		params:       params,
		cfg:          cfg,
		level:        level,
		maxTicks:     cfg.Physics.MaxTicksPerIteration,
		bestDistance: math.Inf(1),
	}
}

// Evaluate returns the rest distance to the goal for a raw parameter
// vector (lower = better). Values outside the gene domain are clamped.
func (le *LaunchEvaluator) Evaluate(raw []float64) float64 {
	dna := le.params.ToDNA(raw)

	world := systems.NewWorldFromConfig(le.cfg)
	lvl := world.BuildLevel(le.level)
	distance := world.Launch(lvl.Start, lvl.Diameter, lvl.Goal, dna.Power, dna.Angle, le.maxTicks)

	le.mu.Lock()
	defer le.mu.Unlock()
	le.evals++
	if distance < le.bestDistance {
		le.bestDistance = distance
		le.bestRaw = le.params.Clamp(raw)
	}
	return distance
}

// Best returns the lowest distance seen and the clamped parameters that
// produced it.
func (le *LaunchEvaluator) Best() (float64, []float64) {
	le.mu.Lock()
	defer le.mu.Unlock()
	return le.bestDistance, le.bestRaw
}

// Evals returns the number of evaluations so far.
func (le *LaunchEvaluator) Evals() int {
	le.mu.Lock()
	defer le.mu.Unlock()
	return le.evals
}
