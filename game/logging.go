package game

import (
	"fmt"
	"io"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogSummary writes a human-readable summary of the run so far.
func (g *Game) LogSummary() {
	Logf("=== %s @ Tick %d (seed %d) ===", g.level.Name, g.tick, g.seed)

	if g.humanMode {
		Logf("Tries: %d", g.tries)
		if g.hasBest {
			Logf("Last distance: %.2f", g.lastDistance)
			Logf("Best distance: %.2f", g.bestDistance)
		}
		Logf("")
		return
	}

	Logf("Generations: %d (ai %s)", g.algorithm.Iteration(), g.ai)
	if best, ok := g.tracker.BestOverall(); ok {
		Logf("Best overall: %.2f in generation %d, dna %s", best, g.tracker.BestIteration(), g.tracker.BestDNA())
		s := g.lastStats
		Logf("Last generation %d:", s.Iteration)
		Logf("  %-14s %10.2f", "avg distance", s.AvgDistance)
		Logf("  %-14s %10.2f", "best distance", s.BestDistance)
		Logf("  %-14s %10.2f / %.2f / %.2f", "p10/p50/p90", s.DistanceP10, s.DistanceP50, s.DistanceP90)
		Logf("  %-14s %10d", "mutated", s.Mutated)
		Logf("  %-14s %10d", "ticks", s.Ticks)
	}
	if g.run.ID != "" {
		Logf("Run: %s", g.run.ID)
	}
	Logf("")
}
