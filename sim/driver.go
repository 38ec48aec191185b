package sim

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/outbreak-sim/outbreak-sim/sim/record"
)

// ensembleRNG resolves a seed policy into a partitioned RNG. In entropy mode
// a fresh master seed is drawn from the process-global generator and logged,
// so even an "unseeded" ensemble can be reproduced after the fact.
func ensembleRNG(cfg RandomnessConfig) *PartitionedRNG {
	seed := cfg.Seed
	if cfg.Mode == SeedModeEntropy {
		seed = rand.Int64()
		logrus.Infof("entropy seed mode: derived master seed %d", seed)
	}
	return NewPartitionedRNG(NewSimulationKey(seed))
}

// stepFunc advances one trajectory by one interval, returning the new state
// and the number of new infections generated during that interval.
type stepFunc func(st State, rng *rand.Rand) (State, int64)

// runLockstep advances sims parallel trajectories over a fixed time grid,
// all in lockstep: at every grid point each trajectory takes one step using
// its own RNG stream. Point 0 is the initial condition; the loop fills
// points 1..points-1. timeOf maps a grid index to the recorded time value.
//
// Per-trajectory state is exclusively owned here — no trajectory reads or
// writes another — so the iteration columns stay statistically independent.
func runLockstep(init State, sims, points int, timeOf func(step int) float64, prng *PartitionedRNG, step stepFunc) *record.Ensemble {
	states := make([]State, sims)
	rngs := make([]*rand.Rand, sims)
	trajectories := make([]record.Trajectory, sims)
	for i := 0; i < sims; i++ {
		states[i] = init
		rngs[i] = prng.ForTrajectory(i + 1)
		pts := make([]record.Point, 1, points)
		pts[0] = record.Point{Time: timeOf(0), S: init.S, I: init.I, R: init.R}
		trajectories[i] = record.Trajectory{Iteration: i + 1, Points: pts}
	}

	for k := 1; k < points; k++ {
		t := timeOf(k)
		for i := 0; i < sims; i++ {
			next, cases := step(states[i], rngs[i])
			states[i] = next
			trajectories[i].Points = append(trajectories[i].Points,
				record.Point{Time: t, S: next.S, I: next.I, R: next.R, Cases: cases})
		}
	}

	return &record.Ensemble{Trajectories: trajectories}
}
