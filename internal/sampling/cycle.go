package sampling

import "reverbkit/internal/services"

// Cycle hands out a fixed set of values round-robin. The order is shuffled
// once at construction and then repeats unchanged.
type Cycle[T any] struct {
	values []T
	cursor int
}

// NewCycle copies values, shuffles the copy with rng, and returns a cycle
// positioned at its first element.
func NewCycle[T any](rng Source, values []T) (*Cycle[T], error) {
	if len(values) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "sampling", "cycle", "value pool is empty", nil)
	}
	shuffled := make([]T, len(values))
	copy(shuffled, values)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &Cycle[T]{values: shuffled}, nil
}

// Next returns the value under the cursor and advances it.
func (c *Cycle[T]) Next() T {
	v := c.values[c.cursor]
	c.cursor = (c.cursor + 1) % len(c.values)
	return v
}

// Len reports the number of values in the pool.
func (c *Cycle[T]) Len() int {
	return len(c.values)
}
