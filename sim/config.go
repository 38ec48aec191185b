package sim

import "fmt"

// SeedMode selects how the ensemble's randomness is sourced.
type SeedMode string

const (
	// SeedModeFixed derives every per-trajectory stream from the configured
	// master seed. Same seed + same config = identical ensemble.
	SeedModeFixed SeedMode = "fixed"

	// SeedModeEntropy draws a fresh master seed from the process-global
	// generator for each Run call. The derived seed is logged so a
	// surprising ensemble can still be reproduced after the fact.
	SeedModeEntropy SeedMode = "entropy"
)

// RandomnessConfig groups the seed policy for an ensemble run.
// The zero value means fixed seeding with seed 0.
type RandomnessConfig struct {
	Mode SeedMode
	Seed int64 // master seed, used only in fixed mode
}

// Validate checks that the seed mode is recognized. Empty defaults to fixed.
func (c RandomnessConfig) Validate() error {
	switch c.Mode {
	case "", SeedModeFixed, SeedModeEntropy:
		return nil
	}
	return fmt.Errorf("seed mode must be %q or %q, got %q", SeedModeFixed, SeedModeEntropy, c.Mode)
}

// IncrementStrategy selects how the tau-leaping engine draws per-step counts.
type IncrementStrategy string

const (
	// IncrementPoisson draws Poisson counts. Cheap, but can overshoot the
	// available pool; overshoot is capped so states never go negative.
	IncrementPoisson IncrementStrategy = "poisson"

	// IncrementBinomial draws binomial counts, bounded by construction.
	IncrementBinomial IncrementStrategy = "binomial"
)

// GillespieConfig groups parameters for the exact continuous-time engine.
type GillespieConfig struct {
	Init       State
	Beta       float64 // transmission rate
	Gamma      float64 // recovery rate
	Iterations int     // independent trajectories to run
	// MaxSteps caps the number of events per trajectory. The loop terminates
	// almost surely on its own, but the cap bounds worst-case resource use.
	// 0 means the default cap of 10*N + 1000 events.
	MaxSteps   int
	Randomness RandomnessConfig
}

// DefaultGillespieConfig returns the canonical demonstration scenario:
// one infected individual in a population of 1000, R0 = 3.5.
func DefaultGillespieConfig() GillespieConfig {
	return GillespieConfig{
		Init:       State{S: 998, I: 1, R: 1},
		Beta:       0.5,
		Gamma:      1.0 / 7.0,
		Iterations: 100,
		Randomness: RandomnessConfig{Mode: SeedModeFixed, Seed: 42},
	}
}

// Validate checks the configuration before any simulation work starts.
func (c GillespieConfig) Validate() error {
	if err := c.Init.Validate(); err != nil {
		return err
	}
	// Beta 0 is legal: the process degenerates to pure-recovery decay.
	if c.Beta < 0 {
		return fmt.Errorf("beta must be >= 0, got %g", c.Beta)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("gamma must be > 0, got %g", c.Gamma)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0, got %d", c.Iterations)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max steps must be >= 0, got %d", c.MaxSteps)
	}
	return c.Randomness.Validate()
}

// TauLeapConfig groups parameters for the fixed-interval Poisson engine.
type TauLeapConfig struct {
	Init  State
	Beta  float64 // transmission rate
	Gamma float64 // recovery rate
	Dt    float64 // time step width
	Steps int     // recorded time points, including the initial condition
	Sims  int     // parallel trajectories advanced in lockstep
	// Increments selects Poisson (default) or binomial per-step draws.
	Increments IncrementStrategy
	Randomness RandomnessConfig
}

// DefaultTauLeapConfig mirrors the Gillespie demonstration scenario on a
// unit time grid.
func DefaultTauLeapConfig() TauLeapConfig {
	return TauLeapConfig{
		Init:       State{S: 998, I: 1, R: 1},
		Beta:       0.5,
		Gamma:      1.0 / 7.0,
		Dt:         1.0,
		Steps:      100,
		Sims:       1000,
		Increments: IncrementPoisson,
		Randomness: RandomnessConfig{Mode: SeedModeFixed, Seed: 42},
	}
}

// Validate checks the configuration before any simulation work starts.
func (c TauLeapConfig) Validate() error {
	if err := c.Init.Validate(); err != nil {
		return err
	}
	if c.Beta < 0 {
		return fmt.Errorf("beta must be >= 0, got %g", c.Beta)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("gamma must be > 0, got %g", c.Gamma)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be > 0, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be > 0, got %d", c.Steps)
	}
	if c.Sims <= 0 {
		return fmt.Errorf("sims must be > 0, got %d", c.Sims)
	}
	switch c.Increments {
	case "", IncrementPoisson, IncrementBinomial:
	default:
		return fmt.Errorf("increments must be %q or %q, got %q", IncrementPoisson, IncrementBinomial, c.Increments)
	}
	return c.Randomness.Validate()
}

// ChainBinomialConfig groups parameters for the generation-interval engine.
type ChainBinomialConfig struct {
	Init State
	// R0 is the per-generation reproduction number. Under the chain binomial
	// convention the generation interval equals the infectious period, so the
	// transmission rate and R0 coincide — a modeling convention, not a unit
	// conversion.
	R0          float64
	Generations int // recorded generations, including generation 0
	Sims        int // parallel trajectories advanced in lockstep
	Randomness  RandomnessConfig
}

// DefaultChainBinomialConfig returns the canonical 20-generation scenario.
func DefaultChainBinomialConfig() ChainBinomialConfig {
	return ChainBinomialConfig{
		Init:        State{S: 998, I: 1, R: 1},
		R0:          3.5,
		Generations: 20,
		Sims:        1000,
		Randomness:  RandomnessConfig{Mode: SeedModeFixed, Seed: 42},
	}
}

// Validate checks the configuration before any simulation work starts.
func (c ChainBinomialConfig) Validate() error {
	if err := c.Init.Validate(); err != nil {
		return err
	}
	if c.R0 <= 0 {
		return fmt.Errorf("r0 must be > 0, got %g", c.R0)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("generations must be > 0, got %d", c.Generations)
	}
	if c.Sims <= 0 {
		return fmt.Errorf("sims must be > 0, got %d", c.Sims)
	}
	return c.Randomness.Validate()
}
