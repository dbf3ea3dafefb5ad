package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/marble/genetic"
)

// HumanModeState is the human mode lifecycle.
type HumanModeState uint8

const (
	HumanInactive            HumanModeState = iota // game runs in AI mode
	HumanInitializationPhase                       // marble at start, aiming
	HumanLaunched                                  // marble rolling
	HumanStopped                                   // marble at rest, distance recorded
)

func (s HumanModeState) String() string {
	switch s {
	case HumanInactive:
		return "inactive"
	case HumanInitializationPhase:
		return "initialization"
	case HumanLaunched:
		return "launched"
	case HumanStopped:
		return "stopped"
	default:
		return fmt.Sprintf("HumanModeState(%d)", uint8(s))
	}
}

// AimFromDrag converts a drag vector from the marble's start point into
// launch parameters. Power grows by 1 per DragPerPower of drag length up to
// MaxDragLength; the angle is measured from the +x axis, in [0, π].
func AimFromDrag(dx, dy float64) (power, angle float64) {
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0, 0
	}
	power = math.Min(length, MaxDragLength) / DragPerPower
	angle = math.Acos(dx / length)
	return power, angle
}

// Aim puts the marble back at its start point and enters the
// initialization phase.
func (g *Game) Aim() error {
	if !g.humanMode {
		return ErrWrongMode
	}
	g.humanMarble.Reset()
	g.human = HumanInitializationPhase
	return nil
}

// Launch shoots the marble from its start point.
func (g *Game) Launch(power, angle float64) error {
	if !g.humanMode {
		return ErrWrongMode
	}
	dna := genetic.DNA{Power: power, Angle: angle}.Clamp()

	g.humanMarble.Reset()
	g.humanMarble.Start(dna.Power, dna.Angle)
	g.tries++
	g.human = HumanLaunched

	g.logger.Debug("human launch", "try", g.tries, "dna", dna)
	return nil
}

// PlayHuman launches once and ticks until the marble comes to rest, or the
// tick cap is hit. It returns the final distance to the goal.
func (g *Game) PlayHuman(power, angle float64) (float64, error) {
	if err := g.Launch(power, angle); err != nil {
		return 0, err
	}
	maxTicks := g.cfg.Physics.MaxTicksPerIteration
	for t := 0; g.human == HumanLaunched; t++ {
		if maxTicks > 0 && t >= maxTicks {
			g.humanMarble.Stop()
		}
		if err := g.Update(); err != nil {
			return 0, err
		}
	}
	return g.lastDistance, nil
}

// updateHuman records the result once a launched marble comes to rest.
func (g *Game) updateHuman() {
	if g.human != HumanLaunched || g.humanMarble.IsMoving() {
		return
	}

	g.human = HumanStopped
	g.lastDistance = g.humanMarble.DistanceTo(g.level.Goal)
	if !g.hasBest || g.lastDistance < g.bestDistance {
		g.bestDistance = g.lastDistance
		g.hasBest = true
	}

	g.logger.Info("human try finished",
		"try", g.tries,
		"distance", g.lastDistance,
		"best_distance", g.bestDistance,
		"touching", g.humanMarble.IsTouching(g.level.Goal),
	)
}

// HumanState returns the human mode state.
func (g *Game) HumanState() HumanModeState {
	return g.human
}

// Tries returns the number of human launches.
func (g *Game) Tries() int {
	return g.tries
}

// LastDistance returns the distance of the most recent human try.
func (g *Game) LastDistance() float64 {
	return g.lastDistance
}

// BestDistance returns the best distance over all human tries.
func (g *Game) BestDistance() (float64, bool) {
	return g.bestDistance, g.hasBest
}
