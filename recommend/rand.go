package recommend

import "math/rand"

// JitterSource yields values in [0, 1) that the scorer scales into the
// jitter range. Keeping it injectable keeps everything else in the
// pipeline deterministic for tests.
type JitterSource interface {
	Float64() float64
}

type globalJitter struct{}

func (globalJitter) Float64() float64 { return rand.Float64() }

// DefaultJitter draws from the shared math/rand source, which is safe for
// concurrent requests.
func DefaultJitter() JitterSource { return globalJitter{} }

// ZeroJitter disables the random addend entirely.
type ZeroJitter struct{}

func (ZeroJitter) Float64() float64 { return 0 }

type seededJitter struct{ r *rand.Rand }

func (j *seededJitter) Float64() float64 { return j.r.Float64() }

// NewSeededJitter returns a reproducible source for tests. It is not safe
// for concurrent use.
func NewSeededJitter(seed int64) JitterSource {
	return &seededJitter{r: rand.New(rand.NewSource(seed))}
}
