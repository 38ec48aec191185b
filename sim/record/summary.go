package record

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GridSummary aggregates one compartment at one shared time point across
// all iterations of an ensemble.
type GridSummary struct {
	Time        float64
	Compartment Compartment
	Mean        float64
	StdDev      float64
	Q05         float64
	Median      float64
	Q95         float64
}

// SummarizeGrid computes per-time-point cross-iteration statistics for the
// S, I, R and cases series. It requires all trajectories to share the same
// time grid, which holds for the interval engines (tau-leaping, chain
// binomial) but not for Gillespie output.
func SummarizeGrid(e *Ensemble) ([]GridSummary, error) {
	if e == nil || len(e.Trajectories) == 0 {
		return nil, nil
	}

	grid := e.Trajectories[0].Points
	for _, t := range e.Trajectories[1:] {
		if len(t.Points) != len(grid) {
			return nil, fmt.Errorf("iteration %d has %d points, iteration %d has %d: trajectories do not share a time grid",
				t.Iteration, len(t.Points), e.Trajectories[0].Iteration, len(grid))
		}
	}

	series := []struct {
		name  Compartment
		value func(Point) float64
	}{
		{CompartmentS, func(p Point) float64 { return float64(p.S) }},
		{CompartmentI, func(p Point) float64 { return float64(p.I) }},
		{CompartmentR, func(p Point) float64 { return float64(p.R) }},
		{CompartmentCases, func(p Point) float64 { return float64(p.Cases) }},
	}

	summaries := make([]GridSummary, 0, len(grid)*len(series))
	values := make([]float64, len(e.Trajectories))
	for step := range grid {
		for _, s := range series {
			for i, t := range e.Trajectories {
				values[i] = s.value(t.Points[step])
			}
			sort.Float64s(values)
			summaries = append(summaries, GridSummary{
				Time:        grid[step].Time,
				Compartment: s.name,
				Mean:        stat.Mean(values, nil),
				StdDev:      stat.StdDev(values, nil),
				Q05:         stat.Quantile(0.05, stat.Empirical, values, nil),
				Median:      stat.Quantile(0.5, stat.Empirical, values, nil),
				Q95:         stat.Quantile(0.95, stat.Empirical, values, nil),
			})
		}
	}
	return summaries, nil
}

// IterationSummary aggregates one whole trajectory.
type IterationSummary struct {
	Iteration      int
	FinalS         int64
	FinalR         int64
	FinalSize      int64   // individuals ever infected: N minus final S
	PeakPrevalence int64   // maximum I over the trajectory
	PeakTime       float64 // time of the first prevalence peak
	Duration       float64 // time of the last recorded point
	Points         int
}

// SummarizeIterations computes per-trajectory outcome statistics. Works for
// any engine's output, shared time grid or not.
func SummarizeIterations(e *Ensemble) []IterationSummary {
	if e == nil {
		return nil
	}

	summaries := make([]IterationSummary, 0, len(e.Trajectories))
	for _, t := range e.Trajectories {
		if len(t.Points) == 0 {
			continue
		}
		last := t.Points[len(t.Points)-1]
		s := IterationSummary{
			Iteration: t.Iteration,
			FinalS:    last.S,
			FinalR:    last.R,
			FinalSize: t.Points[0].N() - last.S,
			Duration:  last.Time,
			Points:    len(t.Points),
		}
		for _, p := range t.Points {
			if p.I > s.PeakPrevalence {
				s.PeakPrevalence = p.I
				s.PeakTime = p.Time
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// MeanFinalSize returns the mean final epidemic size across the ensemble,
// or 0 for an empty ensemble.
func MeanFinalSize(e *Ensemble) float64 {
	iters := SummarizeIterations(e)
	if len(iters) == 0 {
		return 0
	}
	values := make([]float64, len(iters))
	for i, s := range iters {
		values[i] = float64(s.FinalSize)
	}
	return stat.Mean(values, nil)
}
