package game

import (
	"github.com/pthm-cable/marble/config"
	"github.com/pthm-cable/marble/storage"
	"github.com/pthm-cable/marble/telemetry"
)

// Human aiming constants
const (
	MaxDragLength = 250.0 // drag length at which power stops growing
	DragPerPower  = 10.0  // drag length per unit of launch power
)

// Options holds configuration for game initialization.
type Options struct {
	Config    *config.Config // nil = config.Cfg()
	Seed      int64          // RNG seed (0 = time-based)
	Level     int            // index into Config.Levels, clamped
	LogStats  bool           // log every generation via slog
	OutputDir string         // CSV and config snapshot directory (empty = disabled)

	// Store receives the run record and one row per generation. It must be
	// initialized by the caller. Nil disables run history.
	Store storage.Store

	// StatsCallback, if set, is called after every generation.
	StatsCallback func(telemetry.GenerationStats)
}
