// Package sim provides the stochastic SIR simulation engines.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - state.go: the (S, I, R) compartment state and its invariants
//   - draw.go: random-draw primitives (exponential waits, Poisson/binomial increments)
//   - gillespie.go: the exact continuous-time engine and its event loop
//
// # Architecture
//
// Three engines share one conceptual contract (state, step function, run
// loop, multi-run driver) but differ in time representation:
//   - gillespie.go: event-driven, exact inter-event times, runs until I hits 0
//   - tauleap.go: fixed Δt grid, Poisson or binomial increments, clamped at 0
//   - chainbinomial.go: generation-indexed, binomial infections, deterministic recovery
//
// driver.go holds the shared ensemble plumbing: seed-policy resolution into
// a PartitionedRNG (one independent stream per trajectory) and the lockstep
// loop that advances all parallel trajectories of the interval engines.
//
// Engine output is assembled from the pure data types in sim/record/:
// per-trajectory time series, the flattened long-form ensemble table, and
// cross-iteration summaries.
package sim
