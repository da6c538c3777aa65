package sampling

import "math/rand/v2"

// Source is the subset of *rand.Rand the planner draws from.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a PCG-backed generator seeded deterministically from seed.
func NewSource(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
