package sim

import (
	"math"
	"math/rand/v2"
	"testing"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// === waitExponential ===

func TestWaitExponential_ZeroHazardNeverFires(t *testing.T) {
	rng := testRNG(1)
	for _, hazard := range []float64{0, -1} {
		if got := waitExponential(hazard, rng); !math.IsInf(got, 1) {
			t.Errorf("waitExponential(%g) = %v, want +Inf", hazard, got)
		}
	}
}

func TestWaitExponential_PositiveHazardDrawsFiniteWait(t *testing.T) {
	rng := testRNG(2)
	for i := 0; i < 1000; i++ {
		got := waitExponential(0.5, rng)
		if got < 0 || math.IsInf(got, 1) || math.IsNaN(got) {
			t.Fatalf("waitExponential(0.5) = %v, want finite non-negative", got)
		}
	}
}

func TestWaitExponential_MeanMatchesRate(t *testing.T) {
	// Sample mean of Exp(rate) should be near 1/rate. With 20k draws the
	// standard error is ~1/(rate*sqrt(20000)), so a 10% band is generous.
	rng := testRNG(3)
	const rate = 2.0
	const n = 20000

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += waitExponential(rate, rng)
	}
	mean := sum / n
	want := 1.0 / rate
	if math.Abs(mean-want) > 0.1*want {
		t.Errorf("sample mean = %v, want %v ± 10%%", mean, want)
	}
}

// === IncrementSampler ===

func TestNewIncrementSampler(t *testing.T) {
	tests := []struct {
		strategy IncrementStrategy
		wantName string
		wantErr  bool
	}{
		{IncrementPoisson, "poisson", false},
		{IncrementBinomial, "binomial", false},
		{"", "poisson", false},
		{"gaussian", "", true},
	}

	for _, tt := range tests {
		sampler, err := NewIncrementSampler(tt.strategy)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewIncrementSampler(%q) = nil error, want error", tt.strategy)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewIncrementSampler(%q) = %v", tt.strategy, err)
		}
		if sampler.Name() != tt.wantName {
			t.Errorf("Name() = %q, want %q", sampler.Name(), tt.wantName)
		}
	}
}

func TestIncrementSamplers_DegenerateInputsYieldZero(t *testing.T) {
	rng := testRNG(4)
	samplers := []IncrementSampler{PoissonSampler{}, BinomialSampler{}}

	for _, s := range samplers {
		t.Run(s.Name(), func(t *testing.T) {
			if got := s.SampleCount(0.5, 0, rng); got != 0 {
				t.Errorf("empty pool: SampleCount = %d, want 0", got)
			}
			if got := s.SampleCount(0.5, -3, rng); got != 0 {
				t.Errorf("negative pool: SampleCount = %d, want 0", got)
			}
			if got := s.SampleCount(0, 100, rng); got != 0 {
				t.Errorf("zero hazard: SampleCount = %d, want 0", got)
			}
		})
	}
}

func TestBinomialSampler_BoundedByPool(t *testing.T) {
	rng := testRNG(5)
	s := BinomialSampler{}

	for i := 0; i < 5000; i++ {
		got := s.SampleCount(3.0, 10, rng) // large hazard, p near 1
		if got < 0 || got > 10 {
			t.Fatalf("SampleCount = %d, want in [0, 10]", got)
		}
	}
}

func TestPoissonSampler_MeanMatchesPoolTimesHazard(t *testing.T) {
	// Mean of Poisson(pool*hazard) with pool=100, hazard=0.05 is 5.
	// 20k draws give a standard error of sqrt(5/20000) ≈ 0.016.
	rng := testRNG(6)
	s := PoissonSampler{}
	const n = 20000

	var sum int64
	for i := 0; i < n; i++ {
		sum += s.SampleCount(0.05, 100, rng)
	}
	mean := float64(sum) / n
	if math.Abs(mean-5.0) > 0.25 {
		t.Errorf("sample mean = %v, want 5.0 ± 0.25", mean)
	}
}

func TestBinomialSampler_MeanMatchesExpectation(t *testing.T) {
	// Binomial(100, 1-exp(-0.05)) has mean 100*(1-exp(-0.05)) ≈ 4.877.
	rng := testRNG(7)
	s := BinomialSampler{}
	const n = 20000

	var sum int64
	for i := 0; i < n; i++ {
		sum += s.SampleCount(0.05, 100, rng)
	}
	mean := float64(sum) / n
	want := 100 * -math.Expm1(-0.05)
	if math.Abs(mean-want) > 0.25 {
		t.Errorf("sample mean = %v, want %v ± 0.25", mean, want)
	}
}
