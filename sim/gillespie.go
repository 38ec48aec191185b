package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/outbreak-sim/outbreak-sim/sim/record"
)

// ErrStepCapExceeded reports that a Gillespie trajectory hit its event cap
// before the infection died out. Termination is almost-sure but not bounded,
// so the cap turns a pathological run into a reportable resource-exhaustion
// condition instead of an unbounded loop.
var ErrStepCapExceeded = errors.New("gillespie event cap exceeded")

// EventKind identifies which competing transition fired in one step.
type EventKind int

const (
	// EventNone means neither hazard could fire (I reached 0).
	EventNone EventKind = iota
	// EventInfection moves one individual S -> I.
	EventInfection
	// EventRecovery moves one individual I -> R.
	EventRecovery
)

// gillespieStep is the outcome of one exact stochastic step.
type gillespieStep struct {
	kind    EventKind
	elapsed float64
}

// GillespieEngine is the exact continuous-time engine: competing exponential
// waiting times per event type, variable time steps, runs until I hits 0.
type GillespieEngine struct {
	cfg GillespieConfig
}

// NewGillespieEngine validates the configuration and returns the engine.
func NewGillespieEngine(cfg GillespieConfig) (*GillespieEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("gillespie config: %w", err)
	}
	return &GillespieEngine{cfg: cfg}, nil
}

// step draws the two competing waiting times and applies the winner.
// A zero hazard yields an infinite wait, so the S=0 pure-recovery countdown
// and the I=0 terminal state fall out without special-casing.
func (e *GillespieEngine) step(st State, rng *rand.Rand) (State, gillespieStep) {
	hInfection := e.cfg.Beta * float64(st.S) * float64(st.I) / float64(st.N())
	hRecovery := e.cfg.Gamma * float64(st.I)

	tInfection := waitExponential(hInfection, rng)
	tRecovery := waitExponential(hRecovery, rng)

	if math.IsInf(tInfection, 1) && math.IsInf(tRecovery, 1) {
		return st, gillespieStep{kind: EventNone}
	}

	if tInfection <= tRecovery {
		st.S--
		st.I++
		return st, gillespieStep{kind: EventInfection, elapsed: tInfection}
	}
	st.I--
	st.R++
	return st, gillespieStep{kind: EventRecovery, elapsed: tRecovery}
}

// maxSteps returns the configured event cap, defaulting to 10*N + 1000.
// Every individual passes through at most two events (infection, recovery),
// so 2*N bounds the event count of any legal trajectory with a wide margin.
func (e *GillespieEngine) maxSteps() int {
	if e.cfg.MaxSteps > 0 {
		return e.cfg.MaxSteps
	}
	return int(10*e.cfg.Init.N()) + 1000
}

// runOne simulates a single trajectory from the initial condition until the
// infection dies out, drawing from the given per-iteration stream.
//
// Degenerate initial state policy: I0 = 0 means no event can ever fire, so
// the run short-circuits to a single-record trajectory rather than erroring.
func (e *GillespieEngine) runOne(iteration int, rng *rand.Rand) (record.Trajectory, error) {
	st := e.cfg.Init
	points := []record.Point{{Time: 0, S: st.S, I: st.I, R: st.R}}

	now := 0.0
	limit := e.maxSteps()
	for events := 0; st.I > 0; events++ {
		if events >= limit {
			return record.Trajectory{}, fmt.Errorf("iteration %d: %w after %d events (I=%d)",
				iteration, ErrStepCapExceeded, events, st.I)
		}

		next, ev := e.step(st, rng)
		if ev.kind == EventNone {
			break
		}
		now += ev.elapsed
		st = next

		var cases int64
		if ev.kind == EventInfection {
			cases = 1
		}
		points = append(points, record.Point{Time: now, S: st.S, I: st.I, R: st.R, Cases: cases})
	}

	logrus.Debugf("gillespie iteration %d: %d events, final S=%d R=%d at t=%.3f",
		iteration, len(points)-1, st.S, st.R, now)

	return record.Trajectory{Iteration: iteration, Points: points}, nil
}

// Run executes the full ensemble: Iterations independent trajectories, each
// on its own RNG stream, concatenated in iteration order.
func (e *GillespieEngine) Run() (*record.Ensemble, error) {
	prng := ensembleRNG(e.cfg.Randomness)
	logrus.Infof("gillespie: %d iterations from S=%d I=%d R=%d (beta=%g gamma=%g)",
		e.cfg.Iterations, e.cfg.Init.S, e.cfg.Init.I, e.cfg.Init.R, e.cfg.Beta, e.cfg.Gamma)

	ensemble := &record.Ensemble{}
	for i := 1; i <= e.cfg.Iterations; i++ {
		traj, err := e.runOne(i, prng.ForTrajectory(i))
		if err != nil {
			return nil, err
		}
		ensemble.Append(traj)
	}
	return ensemble, nil
}
