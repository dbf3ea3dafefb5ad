package components

// Body holds the collision shape of a round entity.
type Body struct {
	Radius float64
}

// Marble holds the presentation attributes a marble passes on to the
// marbles spawned from it.
type Marble struct {
	StartX, StartY float64
	Texture        string
	Diameter       float64
}

// Goal tags the goal entity.
type Goal struct{}

// Obstacle is a static axis-aligned rectangle centered on its Position.
type Obstacle struct {
	HalfWidth  float64
	HalfHeight float64
}
