package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/marble/config"
)

func TestParamVectorNormalize(t *testing.T) {
	pv := NewParamVector()
	raw := []float64{5, math.Pi / 4}

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("param %s: got %f, want %f", pv.Specs[i].Name, back[i], raw[i])
		}
	}

	clamped := pv.Clamp([]float64{-1, 10})
	if clamped[0] != 0 || clamped[1] != math.Pi {
		t.Errorf("clamp = %v, want [0 π]", clamped)
	}
}

func TestLaunchEvaluator(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	level := cfg.Level(0)
	le := NewLaunchEvaluator(NewParamVector(), cfg, level)

	still := le.Evaluate([]float64{0, 0})
	want := math.Hypot(level.Marble.Position.X-level.Goal.Position.X, level.Marble.Position.Y-level.Goal.Position.Y)
	if math.Abs(still-want) > 1e-9 {
		t.Errorf("zero-power distance = %f, want %f", still, want)
	}

	aimed := le.Evaluate([]float64{10, math.Pi / 2})
	if aimed >= still {
		t.Errorf("launch toward goal = %f, not better than %f", aimed, still)
	}

	best, params := le.Best()
	if best != aimed || params[0] != 10 {
		t.Errorf("best = %f %v, want %f at power 10", best, params, aimed)
	}
	if le.Evals() != 2 {
		t.Errorf("evals = %d, want 2", le.Evals())
	}
}
