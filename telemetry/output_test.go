package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/marble/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Nil manager methods are no-ops
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Errorf("WriteGeneration on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have empty dir")
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	tracker := NewTracker()
	for i, best := range []float64{120, 80, 95} {
		s := GenerationStats{Iteration: i + 1, BestDistance: best, AvgDistance: best * 2, BestPower: float64(i), BestAngle: 1}
		tracker.Observe(&s)
		if err := om.WriteGeneration(s); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkNewBest, Iteration: 2, Description: "improved"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WriteBest(tracker); err != nil {
		t.Fatalf("WriteBest: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatalf("read generations.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("generations.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "iteration,") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if strings.Count(string(data), "iteration,") != 1 {
		t.Error("header written more than once")
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}

	bm, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatalf("read bookmarks.csv: %v", err)
	}
	if !strings.Contains(string(bm), "new_best") {
		t.Errorf("bookmarks.csv missing record: %q", bm)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "best.json"))
	if err != nil {
		t.Fatalf("read best.json: %v", err)
	}
	var best Best
	if err := json.Unmarshal(raw, &best); err != nil {
		t.Fatalf("decode best.json: %v", err)
	}
	if best.Iteration != 2 || best.Distance != 80 || best.Generations != 3 {
		t.Errorf("best = %+v, want iteration 2 distance 80 over 3 generations", best)
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	if _, ok := tr.BestOverall(); ok {
		t.Fatal("empty tracker should have no best")
	}

	steps := []struct {
		best     float64
		improved bool
		overall  float64
	}{
		{100, true, 100},
		{120, false, 100},
		{40, true, 40},
		{40, false, 40},
	}

	for i, s := range steps {
		stats := GenerationStats{Iteration: i + 1, BestDistance: s.best, BestPower: float64(i)}
		if got := tr.Observe(&stats); got != s.improved {
			t.Errorf("step %d: improved = %v, want %v", i, got, s.improved)
		}
		if stats.BestOverall != s.overall {
			t.Errorf("step %d: BestOverall = %v, want %v", i, stats.BestOverall, s.overall)
		}
	}

	if tr.BestIteration() != 3 {
		t.Errorf("best iteration = %d, want 3", tr.BestIteration())
	}
	if tr.BestDNA().Power != 2 {
		t.Errorf("best dna power = %v, want 2", tr.BestDNA().Power)
	}
	if tr.Generations() != 4 {
		t.Errorf("generations = %d, want 4", tr.Generations())
	}
}
