package telemetry

import "github.com/pthm-cable/marble/genetic"

// Tracker follows the best result across all generations of a run.
type Tracker struct {
	bestOverall   float64
	bestDNA       genetic.DNA
	bestIteration int
	generations   int
	hasBest       bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe folds a generation into the running best, fills in
// stats.BestOverall and reports whether the best improved.
func (t *Tracker) Observe(stats *GenerationStats) bool {
	t.generations++
	improved := !t.hasBest || stats.BestDistance < t.bestOverall
	if improved {
		t.bestOverall = stats.BestDistance
		t.bestDNA = genetic.DNA{Power: stats.BestPower, Angle: stats.BestAngle}
		t.bestIteration = stats.Iteration
		t.hasBest = true
	}
	stats.BestOverall = t.bestOverall
	return improved
}

// BestOverall returns the lowest best distance seen, and false before the
// first generation.
func (t *Tracker) BestOverall() (float64, bool) {
	return t.bestOverall, t.hasBest
}

// BestDNA returns the genes that produced BestOverall.
func (t *Tracker) BestDNA() genetic.DNA {
	return t.bestDNA
}

// BestIteration returns the generation that produced BestOverall.
func (t *Tracker) BestIteration() int {
	return t.bestIteration
}

// Generations returns the number of observed generations.
func (t *Tracker) Generations() int {
	return t.generations
}

// Best is the JSON form of the run's best result.
type Best struct {
	Iteration   int         `json:"iteration"`
	Distance    float64     `json:"distance"`
	DNA         genetic.DNA `json:"dna"`
	Generations int         `json:"generations"`
}

// Snapshot returns the best result for persistence.
func (t *Tracker) Snapshot() Best {
	return Best{
		Iteration:   t.bestIteration,
		Distance:    t.bestOverall,
		DNA:         t.bestDNA,
		Generations: t.generations,
	}
}
