package game

import (
	"fmt"

	"github.com/pthm-cable/marble/components"
	"github.com/pthm-cable/marble/genetic"
	"github.com/pthm-cable/marble/telemetry"
)

// AIModeState is the AI mode lifecycle.
type AIModeState uint8

const (
	AIInactive          AIModeState = iota // no population on the field
	AILaunched                             // marbles are rolling
	AINewIterationReady                    // next generation waits for launch
)

func (s AIModeState) String() string {
	switch s {
	case AIInactive:
		return "inactive"
	case AILaunched:
		return "launched"
	case AINewIterationReady:
		return "new_iteration_ready"
	default:
		return fmt.Sprintf("AIModeState(%d)", uint8(s))
	}
}

// ToggleAI starts the AI with a fresh random population, or kills the
// whole population when it is already running.
func (g *Game) ToggleAI() error {
	if g.humanMode {
		return ErrWrongMode
	}

	if g.ai != AIInactive {
		g.algorithm.KillAll()
		g.ai = AIInactive
		g.logger.Info("ai stopped", "iteration", g.algorithm.Iteration())
		return nil
	}

	if err := g.algorithm.Initialize(g.spawnPopulation()); err != nil {
		return fmt.Errorf("initializing population: %w", err)
	}
	g.ai = AINewIterationReady
	g.logger.Info("ai started", "individuals", g.cfg.GeneticAlgorithm.IndividualCount)
	return nil
}

// spawnPopulation creates IndividualCount random individuals at the level start.
func (g *Game) spawnPopulation() genetic.Population {
	n := g.cfg.GeneticAlgorithm.IndividualCount
	pop := make(genetic.Population, 0, n)
	for range n {
		body := g.world.SpawnMarble(g.level.Start.X, g.level.Start.Y, g.level.Diameter, components.TextureIndividual)
		pop = append(pop, genetic.NewRandomIndividual(body, g.level.Goal, g.rng))
	}
	return pop
}

// updateAI advances the AI state machine by one tick.
func (g *Game) updateAI() error {
	switch g.ai {
	case AINewIterationReady:
		if err := g.algorithm.StartIteration(); err != nil {
			return fmt.Errorf("starting iteration: %w", err)
		}
		g.evalTicks = 0
		g.forced = false
		g.ai = AILaunched

	case AILaunched:
		g.evalTicks++

		maxTicks := g.cfg.Physics.MaxTicksPerIteration
		if maxTicks > 0 && g.evalTicks >= maxTicks && !g.algorithm.AllStopped() {
			g.forced = true
			g.logger.Warn("iteration hit tick cap", "iteration", g.algorithm.Iteration()+1, "ticks", g.evalTicks)
			if err := g.algorithm.StopIteration(); err != nil {
				return fmt.Errorf("stopping iteration: %w", err)
			}
			g.ai = AINewIterationReady
			return nil
		}

		advanced, err := g.algorithm.Poll()
		if err != nil {
			return fmt.Errorf("polling iteration: %w", err)
		}
		if advanced {
			g.ai = AINewIterationReady
		}
	}
	return nil
}

// AIState returns the AI mode state.
func (g *Game) AIState() AIModeState {
	return g.ai
}

// Iteration returns the number of completed generations.
func (g *Game) Iteration() int {
	if g.algorithm == nil {
		return 0
	}
	return g.algorithm.Iteration()
}

// Algorithm returns the generation controller, or nil in human mode.
func (g *Game) Algorithm() *genetic.Algorithm {
	return g.algorithm
}

// BestOverall returns the best distance of any generation so far.
func (g *Game) BestOverall() (float64, bool) {
	return g.tracker.BestOverall()
}

// BestDNA returns the genes behind BestOverall.
func (g *Game) BestDNA() genetic.DNA {
	return g.tracker.BestDNA()
}

// LastStats returns the stats of the most recent generation.
func (g *Game) LastStats() telemetry.GenerationStats {
	return g.lastStats
}
