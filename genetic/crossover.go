package genetic

// Crossover builds a child genome gene by gene. Each gene takes the
// father's value when an independent draw falls below its inheritance
// probability, and the mother's value otherwise.
func Crossover(father, mother DNA, inheritance GeneProbability, rng Source) DNA {
	child := mother
	if rng.Float64() < inheritance.Power {
		child.Power = father.Power
	}
	if rng.Float64() < inheritance.Angle {
		child.Angle = father.Angle
	}
	return child
}
