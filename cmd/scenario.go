package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/outbreak-sim/outbreak-sim/sim"
	"github.com/outbreak-sim/outbreak-sim/sim/record"
)

// ScenarioSpec is the YAML description of a reproducible experiment: which
// engine to run, the initial state, rates, and the seed policy. Every field
// the engines validate is re-validated by the engine constructors, so the
// spec itself only needs to be structurally sound.
type ScenarioSpec struct {
	Engine      string  `yaml:"engine"` // gillespie | tauleap | chainbinomial
	Seed        int64   `yaml:"seed"`
	SeedMode    string  `yaml:"seed_mode,omitempty"`
	S0          int64   `yaml:"s0"`
	I0          int64   `yaml:"i0"`
	R0          int64   `yaml:"r0"` // initial recovered count
	Beta        float64 `yaml:"beta"`
	Gamma       float64 `yaml:"gamma,omitempty"`
	Dt          float64 `yaml:"dt,omitempty"`
	Steps       int     `yaml:"steps,omitempty"`
	Sims        int     `yaml:"sims,omitempty"`
	Iterations  int     `yaml:"iterations,omitempty"`
	Generations int     `yaml:"generations,omitempty"`
	Increments  string  `yaml:"increments,omitempty"`
	MaxSteps    int     `yaml:"max_steps,omitempty"`
	Output      string  `yaml:"output,omitempty"`
}

// validEngines maps accepted engine names.
var validEngines = map[string]bool{
	"gillespie":     true,
	"tauleap":       true,
	"chainbinomial": true,
}

// LoadScenario reads and strictly decodes a scenario YAML file.
// Unknown keys are an error so typos fail loudly instead of silently
// falling back to defaults.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}

	if !validEngines[spec.Engine] {
		return nil, fmt.Errorf("scenario engine must be one of gillespie, tauleap, chainbinomial; got %q", spec.Engine)
	}
	return &spec, nil
}

func (s *ScenarioSpec) initState() sim.State {
	return sim.State{S: s.S0, I: s.I0, R: s.R0}
}

func (s *ScenarioSpec) randomness() sim.RandomnessConfig {
	return sim.RandomnessConfig{Mode: sim.SeedMode(s.SeedMode), Seed: s.Seed}
}

// GillespieConfig maps the scenario onto the exact engine's configuration.
func (s *ScenarioSpec) GillespieConfig() sim.GillespieConfig {
	return sim.GillespieConfig{
		Init:       s.initState(),
		Beta:       s.Beta,
		Gamma:      s.Gamma,
		Iterations: s.Iterations,
		MaxSteps:   s.MaxSteps,
		Randomness: s.randomness(),
	}
}

// TauLeapConfig maps the scenario onto the interval engine's configuration.
func (s *ScenarioSpec) TauLeapConfig() sim.TauLeapConfig {
	return sim.TauLeapConfig{
		Init:       s.initState(),
		Beta:       s.Beta,
		Gamma:      s.Gamma,
		Dt:         s.Dt,
		Steps:      s.Steps,
		Sims:       s.Sims,
		Increments: sim.IncrementStrategy(s.Increments),
		Randomness: s.randomness(),
	}
}

// ChainBinomialConfig maps the scenario onto the generation engine's
// configuration. Beta carries the per-generation R0 under this engine's
// rescaling convention.
func (s *ScenarioSpec) ChainBinomialConfig() sim.ChainBinomialConfig {
	return sim.ChainBinomialConfig{
		Init:        s.initState(),
		R0:          s.Beta,
		Generations: s.Generations,
		Sims:        s.Sims,
		Randomness:  s.randomness(),
	}
}

// runScenario dispatches on the scenario's engine and returns the ensemble
// plus whether the derived output columns (cases, N) apply.
func runScenario(spec *ScenarioSpec) (*record.Ensemble, bool, error) {
	switch spec.Engine {
	case "gillespie":
		engine, err := sim.NewGillespieEngine(spec.GillespieConfig())
		if err != nil {
			return nil, false, err
		}
		ensemble, err := engine.Run()
		return ensemble, false, err

	case "tauleap":
		engine, err := sim.NewTauLeapEngine(spec.TauLeapConfig())
		if err != nil {
			return nil, false, err
		}
		ensemble, err := engine.Run()
		return ensemble, true, err

	case "chainbinomial":
		engine, err := sim.NewChainBinomialEngine(spec.ChainBinomialConfig())
		if err != nil {
			return nil, false, err
		}
		ensemble, err := engine.Run()
		return ensemble, false, err
	}
	return nil, false, fmt.Errorf("unknown engine %q", spec.Engine)
}
