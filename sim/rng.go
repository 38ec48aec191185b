package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible ensemble run.
// Two ensembles with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

// subsystemDriver is the RNG subsystem reserved for the run driver itself
// (everything that is not a per-trajectory draw).
const subsystemDriver = "driver"

// SubsystemTrajectory returns the subsystem name for trajectory i.
// Every iteration of an ensemble draws from its own stream so that runs
// stay statistically independent even when advanced in lockstep.
func SubsystemTrajectory(iteration int) string {
	return fmt.Sprintf("trajectory_%d", iteration)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation: each subsystem's generator is a PCG seeded with
// (masterSeed, fnv1a64(subsystemName)), so streams are non-overlapping and
// the order in which subsystems are first touched does not matter.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine;
// the per-trajectory *rand.Rand values it hands out may then be used
// concurrently as long as each goroutine sticks to its own stream.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	rng := rand.New(rand.NewPCG(uint64(p.key), fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// ForTrajectory returns the RNG stream for iteration i.
// Convenience wrapper around ForSubsystem(SubsystemTrajectory(i)).
func (p *PartitionedRNG) ForTrajectory(iteration int) *rand.Rand {
	return p.ForSubsystem(SubsystemTrajectory(iteration))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
