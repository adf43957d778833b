// Package noise provides the injectable randomness used by the sensor
// simulators. Generators take an explicit Source so test suites can seed or
// silence the measurement noise and reproduce exact reading sequences.
package noise

import "math/rand"

// Source produces Gaussian measurement noise.
type Source interface {
	// Normal returns a sample from N(mean, stddev).
	Normal(mean, stddev float64) float64
}

type seeded struct {
	rng *rand.Rand
}

// NewSeeded returns a Source backed by math/rand with the given seed.
// The same seed always yields the same sample sequence.
func NewSeeded(seed int64) Source {
	return &seeded{rng: rand.New(rand.NewSource(seed))}
}

func (s *seeded) Normal(mean, stddev float64) float64 {
	return mean + s.rng.NormFloat64()*stddev
}

// Zero is a Source that returns the mean unchanged. Tests use it to strip
// the stochastic term and assert the deterministic signal components.
type Zero struct{}

// Normal returns mean exactly.
func (Zero) Normal(mean, _ float64) float64 {
	return mean
}
