// Package record holds the pure data types produced by the simulation
// engines: per-trajectory time series, the flattened long-form ensemble
// table, and cross-iteration summaries. This package has no dependencies
// on sim/ — it stores pure data.
package record

// Compartment names the series a long-form row belongs to.
type Compartment string

const (
	CompartmentS Compartment = "S"
	CompartmentI Compartment = "I"
	CompartmentR Compartment = "R"

	// CompartmentCases is the derived incidence series: new infections in
	// the interval ending at the row's time, as opposed to the prevalence I.
	CompartmentCases Compartment = "cases"

	// CompartmentN is the derived total-population series.
	CompartmentN Compartment = "N"
)

// Point is one recorded instant of a single trajectory.
type Point struct {
	Time  float64
	S     int64
	I     int64
	R     int64
	Cases int64 // new infections in the interval ending at Time
}

// N returns the total population at this point.
func (p Point) N() int64 {
	return p.S + p.I + p.R
}

// Trajectory is the ordered time series of one realization. Points are
// chronological; a trajectory is immutable once its run terminates.
type Trajectory struct {
	Iteration int // 1-based iteration identifier within the ensemble
	Points    []Point
}

// Ensemble collects the trajectories of repeated stochastic runs.
// It is built incrementally by the run driver, one trajectory per
// iteration, and read-only once all iterations complete.
type Ensemble struct {
	Trajectories []Trajectory
}

// Append adds a finished trajectory to the ensemble.
func (e *Ensemble) Append(t Trajectory) {
	e.Trajectories = append(e.Trajectories, t)
}

// Row is one record of the long-form output table.
type Row struct {
	Time        float64
	Iteration   int
	Compartment Compartment
	Value       float64
}

// Rows flattens the ensemble into the long-form {time, iteration,
// compartment, value} table. With includeDerived set, each point also
// emits the incidence ("cases") and total population ("N") series.
func (e *Ensemble) Rows(includeDerived bool) []Row {
	perPoint := 3
	if includeDerived {
		perPoint = 5
	}
	n := 0
	for _, t := range e.Trajectories {
		n += len(t.Points) * perPoint
	}

	rows := make([]Row, 0, n)
	for _, t := range e.Trajectories {
		for _, p := range t.Points {
			rows = append(rows,
				Row{Time: p.Time, Iteration: t.Iteration, Compartment: CompartmentS, Value: float64(p.S)},
				Row{Time: p.Time, Iteration: t.Iteration, Compartment: CompartmentI, Value: float64(p.I)},
				Row{Time: p.Time, Iteration: t.Iteration, Compartment: CompartmentR, Value: float64(p.R)},
			)
			if includeDerived {
				rows = append(rows,
					Row{Time: p.Time, Iteration: t.Iteration, Compartment: CompartmentCases, Value: float64(p.Cases)},
					Row{Time: p.Time, Iteration: t.Iteration, Compartment: CompartmentN, Value: float64(p.N())},
				)
			}
		}
	}
	return rows
}
