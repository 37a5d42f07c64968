// Package rng defines the random source used for point coloring and impact
// relocation, so callers can swap the production generator for a fixed stream.
package rng

import "math/rand/v2"

// Source yields floats uniformly distributed in [0, 1).
//
// Consumers draw targets until they find two distinct points, so the stream
// must vary: a constant Sequence makes impact.NewScheduler panic.
type Source interface {
	Float64() float64
}

// New returns a PCG-backed source. A zero seed still produces a valid stream.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Default returns a source seeded from the runtime's entropy.
func Default() Source {
	return New(rand.Uint64())
}

// Range returns a value uniformly distributed in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Pick returns an index in [0, n) chosen uniformly.
func Pick(src Source, n int) int {
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Sequence replays a fixed list of values in order, wrapping around at the
// end. It is meant for tests and reproducible exports.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence creates a Sequence over values. An empty list always yields 0.
// Pass at least two distinct values when the sequence drives an impact
// scheduler.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 returns the next value of the sequence.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
