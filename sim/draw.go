package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// waitExponential draws an exponential waiting time for an event with the
// given hazard. A zero hazard means the event can never fire: it is excluded
// from the competition by returning +Inf instead of drawing a degenerate
// variate.
func waitExponential(hazard float64, rng *rand.Rand) float64 {
	if hazard <= 0 {
		return math.Inf(1)
	}
	return distuv.Exponential{Rate: hazard, Src: rng}.Rand()
}

// IncrementSampler draws how many of pool individuals undergo a transition
// during one interval, given the integrated per-individual hazard over that
// interval. The two implementations are interchangeable strategies for the
// tau-leaping engine; the chain binomial engine always uses the binomial one.
type IncrementSampler interface {
	// SampleCount returns a count in [0, ∞) for Poisson, [0, pool] for
	// binomial. A non-positive pool or hazard deterministically yields 0
	// without consuming randomness.
	SampleCount(hazard float64, pool int64, rng *rand.Rand) int64

	// Name returns the strategy name for logging.
	Name() string
}

// PoissonSampler approximates the transition count as Poisson(pool*hazard).
// The draw is unbounded, so callers must cap it against the available pool.
type PoissonSampler struct{}

func (PoissonSampler) SampleCount(hazard float64, pool int64, rng *rand.Rand) int64 {
	mean := float64(pool) * hazard
	if pool <= 0 || mean <= 0 {
		return 0
	}
	return int64(distuv.Poisson{Lambda: mean, Src: rng}.Rand())
}

func (PoissonSampler) Name() string { return string(IncrementPoisson) }

// BinomialSampler draws Binomial(pool, 1-exp(-hazard)). Bounded by the pool
// size by construction, at the cost of a more expensive draw.
type BinomialSampler struct{}

func (BinomialSampler) SampleCount(hazard float64, pool int64, rng *rand.Rand) int64 {
	if pool <= 0 || hazard <= 0 {
		return 0
	}
	// -expm1(-h) = 1 - exp(-h), in [0, 1) for any non-negative hazard.
	p := -math.Expm1(-hazard)
	return int64(distuv.Binomial{N: float64(pool), P: p, Src: rng}.Rand())
}

func (BinomialSampler) Name() string { return string(IncrementBinomial) }

// NewIncrementSampler resolves an IncrementStrategy into its sampler.
// Empty defaults to Poisson.
func NewIncrementSampler(strategy IncrementStrategy) (IncrementSampler, error) {
	switch strategy {
	case "", IncrementPoisson:
		return PoissonSampler{}, nil
	case IncrementBinomial:
		return BinomialSampler{}, nil
	}
	return nil, fmt.Errorf("unknown increment strategy %q", strategy)
}
