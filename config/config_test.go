package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	ga := cfg.GeneticAlgorithm
	if ga.IndividualCount != 20 {
		t.Errorf("individual_count = %d, want 20", ga.IndividualCount)
	}
	if math.Abs(ga.MutationProbability.General-0.18) > 1e-9 {
		t.Errorf("general mutation probability = %v, want 0.18", ga.MutationProbability.General)
	}
	if ga.MutationOffset != OffsetContinuous {
		t.Errorf("mutation_offset = %q, want %q", ga.MutationOffset, OffsetContinuous)
	}
	if len(cfg.Levels) == 0 {
		t.Fatal("expected at least one default level")
	}
	if cfg.Derived.Width != 500 || cfg.Derived.Height != 500 {
		t.Errorf("derived size = %vx%v, want 500x500", cfg.Derived.Width, cfg.Derived.Height)
	}
	if idx, ok := cfg.Derived.LevelIndex[cfg.Levels[0].Name]; !ok || idx != 0 {
		t.Errorf("level index for %q = %d, %v", cfg.Levels[0].Name, idx, ok)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := `
genetic_algorithm:
  individual_count: 4
  mutation_offset: integer
`
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load overlay: %v", err)
	}
	if cfg.GeneticAlgorithm.IndividualCount != 4 {
		t.Errorf("individual_count = %d, want 4", cfg.GeneticAlgorithm.IndividualCount)
	}
	if cfg.GeneticAlgorithm.MutationOffset != OffsetInteger {
		t.Errorf("mutation_offset = %q, want integer", cfg.GeneticAlgorithm.MutationOffset)
	}
	// Untouched fields keep their defaults
	if cfg.GeneticAlgorithm.FatherGenesProbability.Power != 0.5 {
		t.Errorf("father power probability = %v, want 0.5", cfg.GeneticAlgorithm.FatherGenesProbability.Power)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"inverted range", func(c *Config) {
			c.GeneticAlgorithm.MutationRange.Power = BoundSpecification{LowerBound: 2, UpperBound: -2}
		}, "exceeds upper_bound"},
		{"probability above one", func(c *Config) {
			c.GeneticAlgorithm.MutationProbability.General = 1.5
		}, "mutation_probability.general"},
		{"negative father probability", func(c *Config) {
			c.GeneticAlgorithm.FatherGenesProbability.Angle = -0.1
		}, "father_genes_probability.angle"},
		{"empty population", func(c *Config) {
			c.GeneticAlgorithm.IndividualCount = 0
		}, "individual_count"},
		{"unknown offset", func(c *Config) {
			c.GeneticAlgorithm.MutationOffset = "gaussian"
		}, "mutation_offset"},
		{"no levels", func(c *Config) {
			c.Levels = nil
		}, "at least one level"},
		{"unknown storage", func(c *Config) {
			c.Storage.Kind = "postgres"
		}, "storage.kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.GeneticAlgorithm.IndividualCount = 7

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if loaded.GeneticAlgorithm.IndividualCount != 7 {
		t.Errorf("individual_count = %d, want 7", loaded.GeneticAlgorithm.IndividualCount)
	}
}

func TestLevelClamp(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Level(-3).Name; got != cfg.Levels[0].Name {
		t.Errorf("Level(-3) = %q, want first level", got)
	}
	last := cfg.Levels[len(cfg.Levels)-1].Name
	if got := cfg.Level(99).Name; got != last {
		t.Errorf("Level(99) = %q, want %q", got, last)
	}
}
