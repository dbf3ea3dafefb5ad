// Package game drives the marble simulation: the AI mode where the genetic
// algorithm plays generation after generation, and the human mode where a
// single marble is aimed and launched by hand.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/marble/components"
	"github.com/pthm-cable/marble/config"
	"github.com/pthm-cable/marble/genetic"
	"github.com/pthm-cable/marble/storage"
	"github.com/pthm-cable/marble/systems"
	"github.com/pthm-cable/marble/telemetry"
)

// ErrWrongMode is returned when an AI operation is used in human mode or the reverse.
var ErrWrongMode = errors.New("operation not available in this mode")

// Game holds the complete game state.
type Game struct {
	cfg    *config.Config
	world  *systems.World
	level  systems.Level
	rng    *rand.Rand
	seed   int64
	logger *slog.Logger
	ctx    context.Context

	humanMode bool

	// AI mode
	algorithm *genetic.Algorithm
	ai        AIModeState
	evalTicks int  // ticks since the current iteration was launched
	forced    bool // current iteration was cut off by the tick cap

	// Human mode
	human        HumanModeState
	humanMarble  *systems.MarbleBody
	tries        int
	lastDistance float64
	bestDistance float64
	hasBest      bool

	// Telemetry
	tracker          *telemetry.Tracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.GenerationStats)
	logStats         bool
	lastStats        telemetry.GenerationStats

	// Run history
	store storage.Store
	run   storage.Run

	tick int
}

// NewGameWithOptions creates a game with the level, population and
// telemetry described by opts.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:           cfg,
		world:         systems.NewWorldFromConfig(cfg),
		rng:           genetic.NewSource(seed),
		seed:          seed,
		logger:        slog.Default(),
		ctx:           context.Background(),
		humanMode:     cfg.GameSettings.HumanMode,
		tracker:       telemetry.NewTracker(),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
		store:         opts.Store,
	}

	g.level = g.world.BuildLevel(cfg.Level(opts.Level))
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10, g.level.Goal.Radius())

	if cfg.Telemetry.CSV {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
	}

	if g.humanMode {
		g.humanMarble = g.world.SpawnMarble(g.level.Start.X, g.level.Start.Y, g.level.Diameter, components.TextureMarble)
		g.human = HumanInitializationPhase
	} else {
		params := genetic.ParamsFromConfig(cfg.GeneticAlgorithm)
		g.algorithm = genetic.NewAlgorithm(params,
			genetic.WithSource(g.rng),
			genetic.WithLogger(g.logger),
			genetic.WithObserver(genetic.ObserverFunc(g.onGeneration)),
		)
	}

	if g.store != nil {
		g.run = storage.NewRun(g.level.Name, seed, cfg.GeneticAlgorithm.IndividualCount)
		if err := g.store.SaveRun(g.ctx, g.run); err != nil {
			g.outputManager.Close()
			return nil, fmt.Errorf("saving run: %w", err)
		}
	}

	g.logger.Info("game created",
		"level", g.level.Name,
		"human_mode", g.humanMode,
		"seed", seed,
		"individuals", cfg.GeneticAlgorithm.IndividualCount,
	)

	return g, nil
}

// Update advances the simulation by one tick and drives the active mode.
func (g *Game) Update() error {
	g.world.Step()
	g.tick++

	if g.humanMode {
		g.updateHuman()
		return nil
	}
	return g.updateAI()
}

// RunGenerations launches the AI if needed and ticks until n more
// generations have completed.
func (g *Game) RunGenerations(n int) error {
	if g.humanMode {
		return ErrWrongMode
	}
	if g.ai == AIInactive {
		if err := g.ToggleAI(); err != nil {
			return err
		}
	}

	target := g.algorithm.Iteration() + n
	for g.algorithm.Iteration() < target {
		if err := g.Update(); err != nil {
			return err
		}
	}
	return nil
}

// Unload releases the population and flushes telemetry output.
func (g *Game) Unload() error {
	if g.algorithm != nil {
		g.algorithm.KillAll()
	}
	if g.humanMarble != nil {
		g.humanMarble.Destroy()
	}

	var errs []error
	if _, ok := g.tracker.BestOverall(); ok {
		errs = append(errs, g.outputManager.WriteBest(g.tracker))
	}
	errs = append(errs, g.outputManager.Close())
	return errors.Join(errs...)
}

// Tick returns the number of simulation ticks so far.
func (g *Game) Tick() int {
	return g.tick
}

// HumanMode reports whether the game runs in human mode.
func (g *Game) HumanMode() bool {
	return g.humanMode
}

// Level returns the loaded level.
func (g *Game) Level() systems.Level {
	return g.level
}

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 {
	return g.seed
}

// RunID returns the id of the stored run, or "" without a store.
func (g *Game) RunID() string {
	return g.run.ID
}

// World returns the simulation world.
func (g *Game) World() *systems.World {
	return g.world
}
