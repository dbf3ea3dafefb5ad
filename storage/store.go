// Package storage persists run history: one record per run and one per
// evaluated generation.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run describes one evolution run.
type Run struct {
	ID              string
	Level           string
	Seed            int64
	IndividualCount int
	StartedAt       time.Time
}

// NewRun creates a run record with a fresh id.
func NewRun(level string, seed int64, individualCount int) Run {
	return Run{
		ID:              uuid.NewString(),
		Level:           level,
		Seed:            seed,
		IndividualCount: individualCount,
		StartedAt:       time.Now().UTC(),
	}
}

// Generation is the persisted summary of one evaluated generation.
type Generation struct {
	Iteration    int
	AvgDistance  float64
	BestDistance float64
	BestPower    float64
	BestAngle    float64
	BestOverall  float64
	Mutated      int
	Ticks        int
}

// Store defines persistence operations for run history.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	SaveGeneration(ctx context.Context, runID string, gen Generation) error
	// Generations returns a run's generations ordered by iteration.
	Generations(ctx context.Context, runID string) ([]Generation, error)
	Close() error
}
