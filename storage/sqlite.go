package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, level, seed, individual_count, started_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			level = excluded.level,
			seed = excluded.seed,
			individual_count = excluded.individual_count,
			started_at = excluded.started_at
	`, run.ID, run.Level, run.Seed, run.IndividualCount, run.StartedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	var (
		run       Run
		startedAt string
	)
	err = db.QueryRowContext(ctx, `
		SELECT id, level, seed, individual_count, started_at FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Level, &run.Seed, &run.IndividualCount, &startedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) SaveGeneration(ctx context.Context, runID string, gen Generation) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (
			run_id, iteration, avg_distance, best_distance,
			best_power, best_angle, best_overall, mutated, ticks
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, iteration) DO UPDATE SET
			avg_distance = excluded.avg_distance,
			best_distance = excluded.best_distance,
			best_power = excluded.best_power,
			best_angle = excluded.best_angle,
			best_overall = excluded.best_overall,
			mutated = excluded.mutated,
			ticks = excluded.ticks
	`, runID, gen.Iteration, gen.AvgDistance, gen.BestDistance,
		gen.BestPower, gen.BestAngle, gen.BestOverall, gen.Mutated, gen.Ticks)
	return err
}

func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]Generation, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT iteration, avg_distance, best_distance, best_power, best_angle,
			best_overall, mutated, ticks
		FROM generations
		WHERE run_id = ?
		ORDER BY iteration
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.Iteration, &g.AvgDistance, &g.BestDistance, &g.BestPower,
			&g.BestAngle, &g.BestOverall, &g.Mutated, &g.Ticks); err != nil {
			return nil, fmt.Errorf("scan generation of run %s: %w", runID, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			seed INTEGER NOT NULL,
			individual_count INTEGER NOT NULL,
			started_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			iteration INTEGER NOT NULL,
			avg_distance REAL NOT NULL,
			best_distance REAL NOT NULL,
			best_power REAL NOT NULL,
			best_angle REAL NOT NULL,
			best_overall REAL NOT NULL,
			mutated INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			PRIMARY KEY (run_id, iteration)
		);
	`)
	return err
}
