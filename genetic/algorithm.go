package genetic

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNotInitialized is returned when the algorithm has no population.
	ErrNotInitialized = errors.New("algorithm has no population")
	// ErrPopulationSize is returned when a population does not match IndividualCount.
	ErrPopulationSize = errors.New("population size does not match individual count")
	// ErrNotEvaluating is returned when an iteration is stopped before it was started.
	ErrNotEvaluating = errors.New("no iteration is being evaluated")
)

// State is the generation controller's lifecycle state.
type State uint8

const (
	// StateIdle: a population is installed and waits for StartIteration.
	StateIdle State = iota
	// StateEvaluating: bodies are launched; the controller waits for all to stop.
	StateEvaluating
	// StateReproducing: the next population is being assembled.
	StateReproducing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEvaluating:
		return "evaluating"
	case StateReproducing:
		return "reproducing"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// GenerationReport summarizes an evaluated generation. It is built before
// the generation's individuals are destroyed.
type GenerationReport struct {
	Iteration       int
	Distances       []float64
	Fitness         []float64
	AverageDistance float64
	BestDistance    float64
	Best            DNA
	Mutated         int // children that passed the general mutation gate
	GeneChanges     int // genes actually changed across all children
	SelfFertilized  int // children whose father and mother were the same individual
}

// Observer receives a report for every finished generation.
type Observer interface {
	OnGeneration(report GenerationReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(report GenerationReport)

// OnGeneration calls f(report).
func (f ObserverFunc) OnGeneration(report GenerationReport) { f(report) }

// Option configures an Algorithm.
type Option func(*Algorithm)

// WithSource sets the random source. Defaults to DefaultSource().
func WithSource(rng Source) Option {
	return func(a *Algorithm) { a.rng = rng }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Algorithm) { a.logger = logger }
}

// WithObserver registers an observer for generation reports.
func WithObserver(o Observer) Option {
	return func(a *Algorithm) { a.observers = append(a.observers, o) }
}

// Algorithm is the generation controller. It exclusively owns the current
// population and is driven cooperatively by an external per-tick loop.
type Algorithm struct {
	params     Params
	rng        Source
	logger     *slog.Logger
	observers  []Observer
	population Population
	state      State
	iteration  int
}

// NewAlgorithm creates a controller without a population.
func NewAlgorithm(params Params, opts ...Option) *Algorithm {
	a := &Algorithm{
		params: params,
		rng:    DefaultSource(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize installs a fresh population, discarding any previous one
// without destroying it. The iteration count carries on from the previous
// population so a restarted run never reuses a generation number.
func (a *Algorithm) Initialize(initial Population) error {
	if len(initial) != a.params.IndividualCount {
		return fmt.Errorf("%w: got %d, want %d", ErrPopulationSize, len(initial), a.params.IndividualCount)
	}
	a.population = initial
	a.state = StateIdle
	a.logger.Debug("algorithm initialized", "population", len(initial), "iteration", a.iteration)
	for _, ind := range initial {
		a.logger.Debug("individual created", "individual", ind.ID(), "dna", ind.DNA())
	}
	return nil
}

// Params returns the parameters the controller was built with.
func (a *Algorithm) Params() Params { return a.params }

// State returns the controller state.
func (a *Algorithm) State() State { return a.state }

// Iteration returns the number of completed generations.
func (a *Algorithm) Iteration() int { return a.iteration }

// Population returns the current population. Callers must not modify it.
func (a *Algorithm) Population() Population { return a.population }

// StartIteration launches every individual of the current population.
func (a *Algorithm) StartIteration() error {
	if len(a.population) == 0 {
		return ErrNotInitialized
	}
	a.population.Start()
	a.state = StateEvaluating
	a.logger.Debug("iteration started", "iteration", a.iteration+1)
	return nil
}

// AllStopped reports whether every individual has stopped moving.
func (a *Algorithm) AllStopped() bool {
	return a.population.AllStopped()
}

// Poll is called once per external tick. While evaluating it checks whether
// all bodies have stopped and, once they have, produces the next
// generation. It reports whether a generation transition happened.
func (a *Algorithm) Poll() (bool, error) {
	if a.state != StateEvaluating || !a.AllStopped() {
		return false, nil
	}
	if err := a.nextGeneration(); err != nil {
		return false, err
	}
	return true, nil
}

// StopIteration halts every body regardless of motion and produces the next
// generation. It is only valid between StartIteration and the transition Poll
// would make.
func (a *Algorithm) StopIteration() error {
	if len(a.population) == 0 {
		return ErrNotInitialized
	}
	if a.state != StateEvaluating {
		return ErrNotEvaluating
	}
	a.population.Stop()
	a.logger.Debug("iteration stopped", "iteration", a.iteration+1)
	return a.nextGeneration()
}

// KillAll destroys every individual and leaves the controller without a population.
func (a *Algorithm) KillAll() {
	a.population.Destroy()
	a.population = nil
	a.state = StateIdle
	a.logger.Debug("entire population killed")
}

// AverageDistance returns the mean distance to the goal of the current population.
func (a *Algorithm) AverageDistance() (float64, error) {
	return a.population.AverageDistance()
}

// BestDistance returns the lowest distance to the goal of the current population.
func (a *Algorithm) BestDistance() (float64, error) {
	return a.population.BestDistance()
}

// nextGeneration evaluates the current population, assembles the next one
// and only then destroys the old individuals.
func (a *Algorithm) nextGeneration() error {
	old := a.population
	report, err := a.evaluate(old)
	if err != nil {
		return err
	}

	wheel, err := NewRouletteWheel(report.Fitness)
	if err != nil {
		return fmt.Errorf("building roulette wheel: %w", err)
	}

	a.state = StateReproducing
	next := make(Population, 0, a.params.IndividualCount)
	for range a.params.IndividualCount {
		fi := wheel.Spin(a.rng)
		mi := wheel.Spin(a.rng)
		father, mother := old[fi], old[mi]
		if fi == mi {
			report.SelfFertilized++
		}

		child := father.ReproduceWith(mother, a.params.Inheritance, a.rng)
		a.logger.Debug("reproduced", "father", father.ID(), "mother", mother.ID(), "child", child.ID(), "dna", child.DNA())

		if a.rng.Float64() < a.params.Mutation.General {
			report.Mutated++
			changes := child.Mutate(a.params.Mutation, a.rng)
			report.GeneChanges += len(changes)
			for _, c := range changes {
				a.logger.Debug("mutated", "individual", child.ID(), "gene", c.Gene, "offset", c.Offset, "from", c.From, "to", c.To)
			}
		}

		next = append(next, child)
	}

	for _, o := range a.observers {
		o.OnGeneration(report)
	}

	old.Destroy()
	a.population = next
	a.iteration++
	a.state = StateIdle

	a.logger.Info("generation complete",
		"iteration", report.Iteration,
		"avg_distance", report.AverageDistance,
		"best_distance", report.BestDistance,
		"best_dna", report.Best,
		"mutated", report.Mutated,
	)
	return nil
}

// evaluate reads every distance once and derives the report from that snapshot.
func (a *Algorithm) evaluate(pop Population) (GenerationReport, error) {
	if len(pop) == 0 {
		return GenerationReport{}, ErrEmptyPopulation
	}

	distances := pop.Distances()
	fitness := make([]float64, len(distances))
	for i, d := range distances {
		fitness[i] = Fitness(d)
		a.logger.Debug("evaluated", "individual", pop[i].ID(), "dna", pop[i].DNA(), "distance", d)
	}

	return GenerationReport{
		Iteration:       a.iteration + 1,
		Distances:       distances,
		Fitness:         fitness,
		AverageDistance: stat.Mean(distances, nil),
		BestDistance:    floats.Min(distances),
		Best:            pop[floats.MinIdx(distances)].DNA(),
	}, nil
}
