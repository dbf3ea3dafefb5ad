package genetic

import "github.com/pthm-cable/marble/config"

// OffsetMode selects how mutation offsets are drawn from a Range.
type OffsetMode uint8

const (
	// OffsetContinuous draws the offset uniformly from [Lower, Upper].
	OffsetContinuous OffsetMode = iota
	// OffsetInteger draws floor(u*(Upper-Lower+1)) + Lower, i.e. whole steps.
	OffsetInteger
)

func (m OffsetMode) String() string {
	if m == OffsetInteger {
		return config.OffsetInteger
	}
	return config.OffsetContinuous
}

// Range is an inclusive offset range for one gene.
type Range struct {
	Lower, Upper float64
}

// GeneProbability holds one probability per gene.
type GeneProbability struct {
	Power float64
	Angle float64
}

// MutationParams controls the mutation step.
type MutationParams struct {
	General     float64         // Gate for invoking Mutate on a child at all
	Probability GeneProbability // Per-gene chance of changing once gated
	PowerRange  Range
	AngleRange  Range
	Offset      OffsetMode
}

// Params holds everything the algorithm reads from configuration.
// Params are assumed valid; config.Validate enforces the invariants.
type Params struct {
	IndividualCount int
	Inheritance     GeneProbability // Chance each gene comes from the father
	Mutation        MutationParams
}

// ParamsFromConfig converts the genetic algorithm config section.
func ParamsFromConfig(cfg config.GeneticAlgorithmConfig) Params {
	offset := OffsetContinuous
	if cfg.MutationOffset == config.OffsetInteger {
		offset = OffsetInteger
	}
	return Params{
		IndividualCount: cfg.IndividualCount,
		Inheritance: GeneProbability{
			Power: cfg.FatherGenesProbability.Power,
			Angle: cfg.FatherGenesProbability.Angle,
		},
		Mutation: MutationParams{
			General: cfg.MutationProbability.General,
			Probability: GeneProbability{
				Power: cfg.MutationProbability.Power,
				Angle: cfg.MutationProbability.Angle,
			},
			PowerRange: Range{Lower: cfg.MutationRange.Power.LowerBound, Upper: cfg.MutationRange.Power.UpperBound},
			AngleRange: Range{Lower: cfg.MutationRange.Angle.LowerBound, Upper: cfg.MutationRange.Angle.UpperBound},
			Offset:     offset,
		},
	}
}
