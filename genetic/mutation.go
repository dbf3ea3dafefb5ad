package genetic

import "math"

// Gene names used in mutation reports and logs.
const (
	GenePower = "power"
	GeneAngle = "angle"
)

// GeneChange records one applied mutation.
type GeneChange struct {
	Gene   string
	Offset float64 // drawn offset before clamping
	From   float64
	To     float64 // clamped result
}

// Mutate perturbs each gene independently with its configured probability
// and clamps the result into the gene's domain. The general gate is not
// applied here; callers decide whether to mutate at all.
func Mutate(dna DNA, params MutationParams, rng Source) (DNA, []GeneChange) {
	var changes []GeneChange

	if rng.Float64() < params.Probability.Power {
		offset := drawOffset(params.PowerRange, params.Offset, rng)
		to := clamp(dna.Power+offset, 0, MaxPower)
		changes = append(changes, GeneChange{Gene: GenePower, Offset: offset, From: dna.Power, To: to})
		dna.Power = to
	}

	if rng.Float64() < params.Probability.Angle {
		offset := drawOffset(params.AngleRange, params.Offset, rng)
		to := clamp(dna.Angle+offset, 0, MaxAngle)
		changes = append(changes, GeneChange{Gene: GeneAngle, Offset: offset, From: dna.Angle, To: to})
		dna.Angle = to
	}

	return dna, changes
}

// drawOffset returns a value in [r.Lower, r.Upper].
func drawOffset(r Range, mode OffsetMode, rng Source) float64 {
	u := rng.Float64()
	if mode == OffsetInteger {
		// Non-integral ranges can step past Upper; cap there.
		return math.Min(math.Floor(u*(r.Upper-r.Lower+1))+r.Lower, r.Upper)
	}
	return r.Lower + u*(r.Upper-r.Lower)
}
