package genetic

import "math"

// MinDistance is the floor applied to distances before computing fitness.
// A marble resting exactly on the goal scores MaxFitness instead of +Inf.
const MinDistance = 1e-3

// MaxFitness is the fitness of any distance at or below MinDistance.
const MaxFitness = 1 / (MinDistance * MinDistance)

// Fitness maps a distance to the goal to 1/distance².
// NaN, infinite and negative distances score 0.
func Fitness(distance float64) float64 {
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		return 0
	}
	if distance < MinDistance {
		distance = MinDistance
	}
	return 1 / (distance * distance)
}
