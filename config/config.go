// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Mutation offset modes.
const (
	OffsetContinuous = "continuous"
	OffsetInteger    = "integer"
)

// Storage kinds.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds all game configuration parameters.
type Config struct {
	GameSettings     GameSettingsConfig     `yaml:"game_settings"`
	Physics          PhysicsConfig          `yaml:"physics"`
	GeneticAlgorithm GeneticAlgorithmConfig `yaml:"genetic_algorithm"`
	Levels           []LevelConfig          `yaml:"levels"`
	Telemetry        TelemetryConfig        `yaml:"telemetry"`
	Storage          StorageConfig          `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GameSettingsConfig holds mode switches and the playing field size.
type GameSettingsConfig struct {
	HumanMode   bool `yaml:"human_mode"`
	VerboseMode bool `yaml:"verbose_mode"`
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
}

// PhysicsConfig holds headless simulation parameters.
type PhysicsConfig struct {
	AirFriction          float64 `yaml:"air_friction"`            // Velocity fraction lost per tick
	Bounce               float64 `yaml:"bounce"`                  // Restitution on walls and obstacles
	StopSpeed            float64 `yaml:"stop_speed"`              // Speed at or below which a marble counts as stopped
	MaxTicksPerIteration int     `yaml:"max_ticks_per_iteration"` // Force-stop an iteration after this many ticks (0 = never)
}

// GeneticAlgorithmConfig holds the evolution parameters.
type GeneticAlgorithmConfig struct {
	IndividualCount        int                 `yaml:"individual_count"`
	FatherGenesProbability GeneConfig          `yaml:"father_genes_probability"`
	MutationProbability    MutationProbability `yaml:"mutation_probability"`
	MutationRange          MutationRange       `yaml:"mutation_range"`
	MutationOffset         string              `yaml:"mutation_offset"` // continuous | integer
}

// GeneConfig holds one value per gene.
type GeneConfig struct {
	Power float64 `yaml:"power"`
	Angle float64 `yaml:"angle"`
}

// MutationProbability holds the general gate and per-gene probabilities.
type MutationProbability struct {
	General float64 `yaml:"general"`
	Power   float64 `yaml:"power"`
	Angle   float64 `yaml:"angle"`
}

// MutationRange holds the per-gene offset ranges.
type MutationRange struct {
	Power BoundSpecification `yaml:"power"`
	Angle BoundSpecification `yaml:"angle"`
}

// BoundSpecification is an inclusive [LowerBound, UpperBound] range.
type BoundSpecification struct {
	LowerBound float64 `yaml:"lower_bound"`
	UpperBound float64 `yaml:"upper_bound"`
}

// Coordinate is a position on the playing field.
type Coordinate struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Size is a rectangle extent.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// LevelConfig describes one playable level.
type LevelConfig struct {
	Name      string           `yaml:"name"`
	Marble    MarbleConfig     `yaml:"marble"`
	Goal      GoalConfig       `yaml:"goal"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
}

// MarbleConfig holds the start point and diameter of marbles.
type MarbleConfig struct {
	Position Coordinate `yaml:"position"`
	Diameter float64    `yaml:"diameter"`
}

// GoalConfig holds the goal position and diameter.
type GoalConfig struct {
	Position Coordinate `yaml:"position"`
	Diameter float64    `yaml:"diameter"`
}

// ObstacleConfig holds a static rectangular obstacle, centered on Position.
type ObstacleConfig struct {
	Position Coordinate `yaml:"position"`
	Size     Size       `yaml:"size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	CSV bool `yaml:"csv"` // Write generations.csv when an output dir is set
}

// StorageConfig selects the run history backend.
type StorageConfig struct {
	Kind string `yaml:"kind"` // memory | sqlite
	Path string `yaml:"path"` // sqlite database file
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Width      float64        // GameSettings.Width as float64
	Height     float64        // GameSettings.Height as float64
	LevelIndex map[string]int // name -> index for level lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations that break the genetic algorithm's invariants.
func (c *Config) Validate() error {
	var errs []error

	ga := c.GeneticAlgorithm
	if ga.IndividualCount < 1 {
		errs = append(errs, fmt.Errorf("genetic_algorithm.individual_count must be at least 1, got %d", ga.IndividualCount))
	}

	probabilities := []struct {
		key   string
		value float64
	}{
		{"genetic_algorithm.father_genes_probability.power", ga.FatherGenesProbability.Power},
		{"genetic_algorithm.father_genes_probability.angle", ga.FatherGenesProbability.Angle},
		{"genetic_algorithm.mutation_probability.general", ga.MutationProbability.General},
		{"genetic_algorithm.mutation_probability.power", ga.MutationProbability.Power},
		{"genetic_algorithm.mutation_probability.angle", ga.MutationProbability.Angle},
	}
	for _, p := range probabilities {
		if math.IsNaN(p.value) || p.value < 0 || p.value > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 1], got %v", p.key, p.value))
		}
	}

	ranges := []struct {
		key   string
		bound BoundSpecification
	}{
		{"genetic_algorithm.mutation_range.power", ga.MutationRange.Power},
		{"genetic_algorithm.mutation_range.angle", ga.MutationRange.Angle},
	}
	for _, r := range ranges {
		if r.bound.LowerBound > r.bound.UpperBound {
			errs = append(errs, fmt.Errorf("%s: lower_bound %v exceeds upper_bound %v", r.key, r.bound.LowerBound, r.bound.UpperBound))
		}
	}

	switch ga.MutationOffset {
	case "", OffsetContinuous, OffsetInteger:
	default:
		errs = append(errs, fmt.Errorf("genetic_algorithm.mutation_offset: unknown mode %q", ga.MutationOffset))
	}

	if c.GameSettings.Width <= 0 || c.GameSettings.Height <= 0 {
		errs = append(errs, fmt.Errorf("game_settings: width and height must be positive, got %dx%d", c.GameSettings.Width, c.GameSettings.Height))
	}
	if c.Physics.AirFriction < 0 || c.Physics.AirFriction >= 1 {
		errs = append(errs, fmt.Errorf("physics.air_friction must be in [0, 1), got %v", c.Physics.AirFriction))
	}
	if c.Physics.StopSpeed <= 0 {
		errs = append(errs, fmt.Errorf("physics.stop_speed must be positive, got %v", c.Physics.StopSpeed))
	}

	if len(c.Levels) == 0 {
		errs = append(errs, errors.New("levels: at least one level is required"))
	}
	for i, lvl := range c.Levels {
		if lvl.Marble.Diameter <= 0 {
			errs = append(errs, fmt.Errorf("levels[%d].marble.diameter must be positive", i))
		}
		if lvl.Goal.Diameter <= 0 {
			errs = append(errs, fmt.Errorf("levels[%d].goal.diameter must be positive", i))
		}
	}

	switch c.Storage.Kind {
	case "", StorageMemory, StorageSQLite:
	default:
		errs = append(errs, fmt.Errorf("storage.kind: unknown backend %q", c.Storage.Kind))
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Width = float64(c.GameSettings.Width)
	c.Derived.Height = float64(c.GameSettings.Height)

	if c.GeneticAlgorithm.MutationOffset == "" {
		c.GeneticAlgorithm.MutationOffset = OffsetContinuous
	}
	if c.Storage.Kind == "" {
		c.Storage.Kind = StorageMemory
	}

	c.Derived.LevelIndex = make(map[string]int, len(c.Levels))
	for i, lvl := range c.Levels {
		c.Derived.LevelIndex[lvl.Name] = i
	}
}

// Level returns the level with the given index, clamped to the configured range.
func (c *Config) Level(n int) LevelConfig {
	if n < 0 {
		n = 0
	}
	if n >= len(c.Levels) {
		n = len(c.Levels) - 1
	}
	return c.Levels[n]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
