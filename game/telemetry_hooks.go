package game

import (
	"log/slog"

	"github.com/pthm-cable/marble/genetic"
	"github.com/pthm-cable/marble/storage"
	"github.com/pthm-cable/marble/telemetry"
)

// onGeneration is registered as the algorithm's observer. It runs before the
// evaluated generation is destroyed.
func (g *Game) onGeneration(report genetic.GenerationReport) {
	stats := telemetry.NewGenerationStats(report)
	stats.Ticks = g.evalTicks
	stats.Forced = g.forced
	g.tracker.Observe(&stats)
	g.lastStats = stats

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
	}

	if g.store != nil {
		if err := g.store.SaveGeneration(g.ctx, g.run.ID, generationRecord(stats)); err != nil {
			slog.Error("failed to store generation", "run", g.run.ID, "error", err)
		}
	}

	// Check for bookmarks
	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

func generationRecord(s telemetry.GenerationStats) storage.Generation {
	return storage.Generation{
		Iteration:    s.Iteration,
		AvgDistance:  s.AvgDistance,
		BestDistance: s.BestDistance,
		BestPower:    s.BestPower,
		BestAngle:    s.BestAngle,
		BestOverall:  s.BestOverall,
		Mutated:      s.Mutated,
		Ticks:        s.Ticks,
	}
}
