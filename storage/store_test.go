package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// exerciseStore runs the shared round trip against any backend.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	run := NewRun("Open field", 42, 20)
	if run.ID == "" {
		t.Fatal("run id should be set")
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatalf("expected run %s", run.ID)
	}
	if loaded.Level != run.Level || loaded.Seed != 42 || loaded.IndividualCount != 20 {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}
	if !loaded.StartedAt.Equal(run.StartedAt) {
		t.Fatalf("started_at = %v, want %v", loaded.StartedAt, run.StartedAt)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing run: ok=%v err=%v", ok, err)
	}

	// Saved out of order, one iteration overwritten
	for _, g := range []Generation{
		{Iteration: 2, AvgDistance: 150, BestDistance: 60, BestOverall: 60},
		{Iteration: 1, AvgDistance: 200, BestDistance: 80, BestOverall: 80},
		{Iteration: 3, AvgDistance: 120, BestDistance: 70, BestOverall: 60},
		{Iteration: 2, AvgDistance: 140, BestDistance: 55, BestOverall: 55, BestPower: 9.5, BestAngle: 1.4, Mutated: 4, Ticks: 812},
	} {
		if err := store.SaveGeneration(ctx, run.ID, g); err != nil {
			t.Fatalf("save generation %d: %v", g.Iteration, err)
		}
	}

	gens, err := store.Generations(ctx, run.ID)
	if err != nil {
		t.Fatalf("generations: %v", err)
	}
	if len(gens) != 3 {
		t.Fatalf("got %d generations, want 3", len(gens))
	}
	for i, g := range gens {
		if g.Iteration != i+1 {
			t.Errorf("generation %d has iteration %d", i, g.Iteration)
		}
	}
	want := Generation{Iteration: 2, AvgDistance: 140, BestDistance: 55, BestOverall: 55, BestPower: 9.5, BestAngle: 1.4, Mutated: 4, Ticks: 812}
	if gens[1] != want {
		t.Errorf("overwritten generation = %+v, want %+v", gens[1], want)
	}

	other, err := store.Generations(ctx, "other-run")
	if err != nil {
		t.Fatalf("generations of unknown run: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unknown run has %d generations", len(other))
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	exerciseStore(t, store)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "marble.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "marble.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	run := Run{ID: "run-1", Level: "Wall", Seed: 7, IndividualCount: 10, StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	if err := first.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := first.SaveGeneration(ctx, run.ID, Generation{Iteration: 1, BestDistance: 12}); err != nil {
		t.Fatalf("save generation: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})

	gens, err := second.Generations(ctx, run.ID)
	if err != nil {
		t.Fatalf("generations: %v", err)
	}
	if len(gens) != 1 || gens[0].BestDistance != 12 {
		t.Fatalf("unexpected generations after reopen: %+v", gens)
	}
}

func TestStoresRequireInit(t *testing.T) {
	ctx := context.Background()
	for name, store := range map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(filepath.Join(t.TempDir(), "x.db")),
	} {
		t.Run(name, func(t *testing.T) {
			if err := store.SaveRun(ctx, Run{ID: "r"}); err == nil {
				t.Error("expected error before Init")
			}
		})
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"", false},
		{"memory", false},
		{"sqlite", false},
		{"postgres", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			store, err := NewStore(tt.kind, filepath.Join(t.TempDir(), "f.db"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStore(%q) err = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if err == nil && store == nil {
				t.Fatal("expected store")
			}
		})
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected error for empty path")
	}
}
