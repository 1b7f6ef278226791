package sim

import (
	"fmt"
	"math/rand"
)

// RandomVariate draws service and inter-arrival durations from a seeded
// source owned by the simulator. Every duration in the model shares the
// exponential family (memoryless services and arrivals); only the mean
// differs per use.
//
// Thread-safety: NOT thread-safe. The single-threaded event loop is the
// only caller.
type RandomVariate struct {
	rng *rand.Rand
}

// NewRandomVariate creates a sampler from a seed. The same seed and
// configuration MUST reproduce a run bit-for-bit.
func NewRandomVariate(seed int64) *RandomVariate {
	return &RandomVariate{rng: rand.New(rand.NewSource(seed))}
}

// SampleExponential returns a non-negative duration drawn from an
// exponential distribution with the given mean, one independent draw
// per call. Non-positive means are rejected by Config.Validate long
// before sampling, so tripping this guard is a defect in the caller.
func (v *RandomVariate) SampleExponential(mean float64) float64 {
	if mean <= 0 {
		panic(fmt.Errorf("%w: exponential mean is %.4f, must be > 0", ErrInvalidParameter, mean))
	}
	return v.rng.ExpFloat64() * mean
}
