package sim

import (
	"testing"
)

func mustChainBinomial(t *testing.T, cfg ChainBinomialConfig) *ChainBinomialEngine {
	t.Helper()
	engine, err := NewChainBinomialEngine(cfg)
	if err != nil {
		t.Fatalf("NewChainBinomialEngine: %v", err)
	}
	return engine
}

func TestChainBinomial_ConcreteScenario(t *testing.T) {
	// S0=998, I0=1, R0=1, R0(rate)=3.5, 20 generations: the cohort
	// bookkeeping must hold exactly at every generation.
	cfg := DefaultChainBinomialConfig()
	cfg.Sims = 200
	engine := mustChainBinomial(t, cfg)

	ensemble, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ensemble.Trajectories) != 200 {
		t.Fatalf("got %d trajectories, want 200", len(ensemble.Trajectories))
	}

	checkInvariants(t, ensemble, 1000)

	for _, traj := range ensemble.Trajectories {
		if len(traj.Points) != 20 {
			t.Fatalf("iteration %d: %d generations, want 20", traj.Iteration, len(traj.Points))
		}
		for k := 1; k < len(traj.Points); k++ {
			prev, cur := traj.Points[k-1], traj.Points[k]

			// I at generation k is exactly the infections drawn in that step.
			if cur.I != cur.Cases {
				t.Fatalf("iteration %d gen %d: I=%d but cases=%d", traj.Iteration, k, cur.I, cur.Cases)
			}
			// The entire previous infected cohort recovers deterministically.
			if cur.R != prev.R+prev.I {
				t.Fatalf("iteration %d gen %d: R=%d, want %d", traj.Iteration, k, cur.R, prev.R+prev.I)
			}
			// Susceptibles only ever leave.
			if cur.S > prev.S {
				t.Fatalf("iteration %d gen %d: S increased %d -> %d", traj.Iteration, k, prev.S, cur.S)
			}
			// Time axis is the generation index.
			if cur.Time != float64(k) {
				t.Fatalf("iteration %d gen %d: time %v", traj.Iteration, k, cur.Time)
			}
		}
	}
}

func TestChainBinomial_ExtinctionIsAbsorbing(t *testing.T) {
	cfg := DefaultChainBinomialConfig()
	cfg.Sims = 100
	engine := mustChainBinomial(t, cfg)

	ensemble, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, traj := range ensemble.Trajectories {
		extinct := false
		for k, p := range traj.Points {
			if extinct && p.I != 0 {
				t.Fatalf("iteration %d gen %d: infection restarted after extinction", traj.Iteration, k)
			}
			if p.I == 0 {
				extinct = true
			}
		}
	}
}

func TestChainBinomial_Deterministic(t *testing.T) {
	cfg := DefaultChainBinomialConfig()
	cfg.Sims = 10

	run := func() [][]int64 {
		ensemble, err := mustChainBinomial(t, cfg).Run()
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		out := make([][]int64, len(ensemble.Trajectories))
		for i, traj := range ensemble.Trajectories {
			for _, p := range traj.Points {
				out[i] = append(out[i], p.S, p.I, p.R)
			}
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		for k := range a[i] {
			if a[i][k] != b[i][k] {
				t.Fatalf("sim %d value %d differs between identical runs", i, k)
			}
		}
	}
}

func TestChainBinomial_FirstGenerationCohort(t *testing.T) {
	// Generation 1's recovered count is exactly R0_init + I0 for every sim:
	// the seed cohort recovers no matter what the binomial draw does.
	cfg := DefaultChainBinomialConfig()
	cfg.Sims = 500
	engine := mustChainBinomial(t, cfg)

	ensemble, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, traj := range ensemble.Trajectories {
		if got := traj.Points[1].R; got != 2 {
			t.Fatalf("iteration %d: R at generation 1 = %d, want 2", traj.Iteration, got)
		}
	}
}
