package genetic

// sequenceSource replays a fixed sequence of draws, cycling when exhausted.
type sequenceSource struct {
	values []float64
	next   int
}

func (s *sequenceSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

type fakeGoal struct{ pos Point }

func (g fakeGoal) Position() Point { return g.pos }

// fakeBody reports a fixed distance and records what the algorithm asks of it.
type fakeBody struct {
	distance  float64
	moving    bool
	started   bool
	power     float64
	angle     float64
	stopped   bool
	destroyed bool
	spawned   []*fakeBody
}

func (b *fakeBody) Start(power, angle float64) {
	b.started = true
	b.power, b.angle = power, angle
}

func (b *fakeBody) Stop() {
	b.stopped = true
	b.moving = false
}

func (b *fakeBody) IsMoving() bool               { return b.moving }
func (b *fakeBody) DistanceTo(goal Goal) float64 { return b.distance }
func (b *fakeBody) Destroy()                     { b.destroyed = true }

func (b *fakeBody) Spawn() Body {
	child := &fakeBody{distance: b.distance}
	b.spawned = append(b.spawned, child)
	return child
}

// newFixedPopulation builds individuals with injected genomes and distances.
func newFixedPopulation(dnas []DNA, distances []float64) (Population, []*fakeBody) {
	goal := fakeGoal{pos: Point{X: 250, Y: 40}}
	pop := make(Population, len(dnas))
	bodies := make([]*fakeBody, len(dnas))
	for i := range dnas {
		bodies[i] = &fakeBody{distance: distances[i]}
		pop[i] = NewIndividual(bodies[i], goal, dnas[i])
	}
	return pop, bodies
}

var scenarioDNA = []DNA{
	{Power: 10, Angle: 0.1},
	{Power: 5, Angle: 0.2},
	{Power: 20, Angle: 0.5},
	{Power: 1, Angle: 1.0},
}

var scenarioDistances = []float64{10, 5, 50, 100}

// startAndStop launches the current population and forces the generation transition.
func startAndStop(alg *Algorithm) error {
	if err := alg.StartIteration(); err != nil {
		return err
	}
	return alg.StopIteration()
}
