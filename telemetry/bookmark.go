package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNewBest      BookmarkType = "new_best"
	BookmarkGoalReached  BookmarkType = "goal_reached"
	BookmarkBreakthrough BookmarkType = "breakthrough"
	BookmarkStagnation   BookmarkType = "stagnation"
	BookmarkConverged    BookmarkType = "converged"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Iteration   int          `csv:"iteration"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"iteration", b.Iteration,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	goalRadius float64

	// State tracking
	bestSoFar      float64
	hasBest        bool
	sinceImproved  int  // generations since bestSoFar last dropped
	goalReported   bool // goal_reached fires once per run
	stagnationSent bool // stagnation fires once per plateau
	convergedSent  bool // converged fires once until the spread widens again
}

// NewBookmarkDetector creates a detector with the given history size.
// A marble whose best distance is within goalRadius counts as on the goal.
func NewBookmarkDetector(historySize int, goalRadius float64) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stagnation detection
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
		goalRadius:  goalRadius,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	// New best: lowest best distance seen in the run
	if b := bd.checkNewBest(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Goal reached: best distance within the goal radius
	if b := bd.checkGoalReached(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Breakthrough: average distance < half the rolling average
		if b := bd.checkBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stagnation: no new best over a full history window
		if b := bd.checkStagnation(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Converged: population spread collapsed
	if b := bd.checkConverged(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkNewBest(stats GenerationStats) *Bookmark {
	if bd.hasBest && stats.BestDistance >= bd.bestSoFar {
		bd.sinceImproved++
		return nil
	}

	old, had := bd.bestSoFar, bd.hasBest
	bd.bestSoFar = stats.BestDistance
	bd.hasBest = true
	bd.sinceImproved = 0
	bd.stagnationSent = false

	if !had {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkNewBest,
		Iteration:   stats.Iteration,
		Description: fmt.Sprintf("Best distance improved from %.2f to %.2f (power %.3f, angle %.3f)", old, stats.BestDistance, stats.BestPower, stats.BestAngle),
	}
}

func (bd *BookmarkDetector) checkGoalReached(stats GenerationStats) *Bookmark {
	if bd.goalReported || stats.BestDistance > bd.goalRadius {
		return nil
	}
	bd.goalReported = true
	return &Bookmark{
		Type:        BookmarkGoalReached,
		Iteration:   stats.Iteration,
		Description: fmt.Sprintf("Marble reached the goal at distance %.2f", stats.BestDistance),
	}
}

func (bd *BookmarkDetector) checkBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.AvgDistance
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.AvgDistance < avg*0.5 {
		return &Bookmark{
			Type:        BookmarkBreakthrough,
			Iteration:   stats.Iteration,
			Description: fmt.Sprintf("Average distance %.2f is %.1fx below rolling average (%.2f)", stats.AvgDistance, avg/stats.AvgDistance, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStagnation(stats GenerationStats) *Bookmark {
	if bd.stagnationSent || bd.sinceImproved < bd.historySize {
		return nil
	}
	bd.stagnationSent = true
	return &Bookmark{
		Type:        BookmarkStagnation,
		Iteration:   stats.Iteration,
		Description: fmt.Sprintf("No improvement over %.2f for %d generations", bd.bestSoFar, bd.sinceImproved),
	}
}

func (bd *BookmarkDetector) checkConverged(stats GenerationStats) *Bookmark {
	// Low spread: coefficient of variation < 5%
	converged := stats.AvgDistance > 0 && stats.DistanceStd/stats.AvgDistance < 0.05
	if !converged {
		bd.convergedSent = false
		return nil
	}
	if bd.convergedSent {
		return nil
	}
	bd.convergedSent = true
	return &Bookmark{
		Type:        BookmarkConverged,
		Iteration:   stats.Iteration,
		Description: fmt.Sprintf("Population converged around %.2f (std %.2f)", stats.AvgDistance, stats.DistanceStd),
	}
}
