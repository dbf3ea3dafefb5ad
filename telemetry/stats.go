// Package telemetry turns generation reports into logged and persisted statistics.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/marble/genetic"
)

// GenerationStats holds aggregated statistics for one evaluated generation.
type GenerationStats struct {
	Iteration   int  `csv:"iteration"`
	Individuals int  `csv:"individuals"`
	Ticks       int  `csv:"ticks"`  // simulation ticks the evaluation took
	Forced      bool `csv:"forced"` // evaluation was cut off by the tick cap

	// Distance distribution
	AvgDistance  float64 `csv:"avg_distance"`
	BestDistance float64 `csv:"best_distance"`
	DistanceStd  float64 `csv:"distance_std"`
	DistanceP10  float64 `csv:"distance_p10"`
	DistanceP50  float64 `csv:"distance_p50"`
	DistanceP90  float64 `csv:"distance_p90"`

	// Fittest individual of the generation
	BestPower float64 `csv:"best_power"`
	BestAngle float64 `csv:"best_angle"`

	MeanFitness float64 `csv:"mean_fitness"`

	// Reproduction
	Mutated        int `csv:"mutated"`
	GeneChanges    int `csv:"gene_changes"`
	SelfFertilized int `csv:"self_fertilized"`

	// Running best across every generation so far
	BestOverall float64 `csv:"best_overall"`
}

// NewGenerationStats aggregates a report. Ticks, Forced and BestOverall are
// left for the caller.
func NewGenerationStats(report genetic.GenerationReport) GenerationStats {
	_, std, p10, p50, p90 := ComputeDistanceStats(report.Distances)
	var meanFitness float64
	if len(report.Fitness) > 0 {
		meanFitness = stat.Mean(report.Fitness, nil)
	}
	return GenerationStats{
		Iteration:      report.Iteration,
		Individuals:    len(report.Distances),
		AvgDistance:    report.AverageDistance,
		BestDistance:   report.BestDistance,
		DistanceStd:    std,
		DistanceP10:    p10,
		DistanceP50:    p50,
		DistanceP90:    p90,
		BestPower:      report.Best.Power,
		BestAngle:      report.Best.Angle,
		MeanFitness:    meanFitness,
		Mutated:        report.Mutated,
		GeneChanges:    report.GeneChanges,
		SelfFertilized: report.SelfFertilized,
	}
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistanceStats calculates mean, population std, and percentiles.
func ComputeDistanceStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("iteration", s.Iteration),
		slog.Int("individuals", s.Individuals),
		slog.Int("ticks", s.Ticks),
		slog.Bool("forced", s.Forced),
		slog.Float64("avg_distance", s.AvgDistance),
		slog.Float64("best_distance", s.BestDistance),
		slog.Float64("distance_std", s.DistanceStd),
		slog.Float64("distance_p10", s.DistanceP10),
		slog.Float64("distance_p50", s.DistanceP50),
		slog.Float64("distance_p90", s.DistanceP90),
		slog.Float64("best_power", s.BestPower),
		slog.Float64("best_angle", s.BestAngle),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Int("mutated", s.Mutated),
		slog.Int("gene_changes", s.GeneChanges),
		slog.Int("self_fertilized", s.SelfFertilized),
		slog.Float64("best_overall", s.BestOverall),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("stats",
		"iteration", s.Iteration,
		"avg_distance", s.AvgDistance,
		"best_distance", s.BestDistance,
		"distance_p50", s.DistanceP50,
		"best_power", s.BestPower,
		"best_angle", s.BestAngle,
		"mutated", s.Mutated,
		"best_overall", s.BestOverall,
	)
}
