package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/pthm-cable/marble/config"
	"github.com/pthm-cable/marble/game"
	"github.com/pthm-cable/marble/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("marble failed", "error", err)
		os.Exit(1)
	}
}

// run holds the whole program so deferred cleanup happens on every exit path.
func run(args []string) error {
	// CLI flags
	fs := flag.NewFlagSet("marble", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := fs.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := fs.Int("generations", 50, "Number of generations to evolve in AI mode")
	levelIdx := fs.Int("level", 0, "Level index")
	outputDir := fs.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	storeKind := fs.String("store", "", "Run history backend: memory or sqlite (empty = use config)")
	dbPath := fs.String("db", "", "SQLite database path (empty = use config)")
	logStats := fs.Bool("log-stats", false, "Output per-generation stats via slog")
	verbose := fs.Bool("verbose", false, "Log every individual, reproduction and mutation")
	humanPower := fs.Float64("human-power", math.NaN(), "Human mode: launch power")
	humanAngle := fs.Float64("human-angle", math.NaN(), "Human mode: launch angle in radians")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	humanLaunch := !math.IsNaN(*humanPower) || !math.IsNaN(*humanAngle)
	if humanLaunch {
		cfg.GameSettings.HumanMode = true
	}

	// Set up slog (JSON to stdout for structured logging)
	logLevel := slog.LevelInfo
	if *verbose || cfg.GameSettings.VerboseMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Run history
	kind := cfg.Storage.Kind
	if *storeKind != "" {
		kind = *storeKind
	}
	path := cfg.Storage.Path
	if *dbPath != "" {
		path = *dbPath
	}
	store, err := storage.NewStore(kind, path)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()
	if err := store.Init(context.Background()); err != nil {
		return fmt.Errorf("initializing %s store: %w", kind, err)
	}

	g, err := game.NewGameWithOptions(game.Options{
		Config:    cfg,
		Seed:      rngSeed,
		Level:     *levelIdx,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Store:     store,
	})
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	if cfg.GameSettings.HumanMode {
		power, angle := *humanPower, *humanAngle
		if math.IsNaN(power) {
			power = 0
		}
		if math.IsNaN(angle) {
			angle = math.Pi / 2
		}
		distance, err := g.PlayHuman(power, angle)
		if err != nil {
			_ = g.Unload()
			return fmt.Errorf("human launch: %w", err)
		}
		slog.Info("human launch finished", "power", power, "angle", angle, "distance", distance)
	} else {
		slog.Info("starting evolution",
			"seed", rngSeed,
			"generations", *generations,
			"level", g.Level().Name,
			"store", kind,
		)
		if err := g.RunGenerations(*generations); err != nil {
			_ = g.Unload()
			return fmt.Errorf("evolution: %w", err)
		}
	}

	g.LogSummary()
	if err := g.Unload(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
