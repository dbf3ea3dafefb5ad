package genetic

import (
	"errors"
	"math"
	"testing"
)

func spinCounts(t *testing.T, fitness []float64, draws int, seed int64) []int {
	t.Helper()
	wheel, err := NewRouletteWheel(fitness)
	if err != nil {
		t.Fatalf("NewRouletteWheel: %v", err)
	}
	rng := NewSource(seed)
	counts := make([]int, len(fitness))
	for i := 0; i < draws; i++ {
		counts[wheel.Spin(rng)]++
	}
	return counts
}

func TestRouletteUniform(t *testing.T) {
	const draws = 10000
	counts := spinCounts(t, []float64{1, 1, 1, 1}, draws, 42)
	for i, c := range counts {
		freq := float64(c) / draws
		if math.Abs(freq-0.25) > 0.03 {
			t.Errorf("slot %d frequency = %.4f, want 0.25 ± 0.03", i, freq)
		}
	}
}

func TestRouletteSkew(t *testing.T) {
	const draws = 10000
	counts := spinCounts(t, []float64{100, 1, 1, 1}, draws, 42)
	freq := float64(counts[0]) / draws
	if freq <= 0.9 {
		t.Errorf("dominant slot frequency = %.4f, want > 0.9", freq)
	}
	t.Logf("counts: %v", counts)
}

func TestRouletteCutOffs(t *testing.T) {
	wheel, err := NewRouletteWheel([]float64{0.01, 0.04, 0.0004, 0.0001})
	if err != nil {
		t.Fatal(err)
	}
	cut := wheel.CutOffs()
	for i := 1; i < len(cut); i++ {
		if cut[i] < cut[i-1] {
			t.Fatalf("cut-offs not ascending: %v", cut)
		}
	}
	if math.Abs(cut[len(cut)-1]-1) > 1e-12 {
		t.Errorf("last cut-off = %v, want 1", cut[len(cut)-1])
	}
	want0 := 0.01 / 0.0505
	if math.Abs(cut[0]-want0) > 1e-12 {
		t.Errorf("first cut-off = %v, want %v", cut[0], want0)
	}
}

func TestRouletteIndex(t *testing.T) {
	wheel, err := NewRouletteWheel([]float64{1, 0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	// cut-offs: 0.25, 0.25, 0.5, 1.0
	tests := []struct {
		u    float64
		want int
	}{
		{0, 0},
		{0.2499, 0},
		{0.25, 2}, // zero-fitness slot 1 has no width
		{0.49, 2},
		{0.5, 3},
		{0.9999, 3},
		{1.0, 3}, // no cut-off exceeds u: fall back to last
		{1.5, 3},
	}
	for _, tt := range tests {
		if got := wheel.Spin(&sequenceSource{values: []float64{tt.u}}); got != tt.want {
			t.Errorf("Spin(u=%v) = %d, want %d", tt.u, got, tt.want)
		}
	}
}

func TestRouletteAllZero(t *testing.T) {
	wheel, err := NewRouletteWheel([]float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if got := wheel.Spin(&sequenceSource{values: []float64{0.4}}); got != 0 {
		t.Errorf("Spin(0.4) = %d, want 0", got)
	}
	if got := wheel.Spin(&sequenceSource{values: []float64{0.6}}); got != 1 {
		t.Errorf("Spin(0.6) = %d, want 1", got)
	}
}

func TestRouletteErrors(t *testing.T) {
	if _, err := NewRouletteWheel(nil); !errors.Is(err, ErrEmptyPopulation) {
		t.Errorf("empty: err = %v, want ErrEmptyPopulation", err)
	}
	bad := [][]float64{
		{1, math.NaN()},
		{1, math.Inf(1)},
		{-1, 2},
	}
	for _, f := range bad {
		if _, err := NewRouletteWheel(f); !errors.Is(err, ErrInvalidFitness) {
			t.Errorf("NewRouletteWheel(%v): err = %v, want ErrInvalidFitness", f, err)
		}
	}
}
