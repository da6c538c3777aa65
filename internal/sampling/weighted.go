package sampling

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"reverbkit/internal/services"
)

// DefaultSmoothing is the share of the uniform distribution blended into raw
// catalog weights.
const DefaultSmoothing = 0.3

// Weighted is anything that can be drawn in proportion to its weight.
type Weighted interface {
	Weight() float64
}

// Smoothable is a catalog entry whose optional raw weight is replaced by a
// smoothed, normalized weight at load time.
type Smoothable interface {
	Weighted
	RawWeight() (float64, bool)
	SetWeight(float64)
}

// Smooth assigns every item a weight so the set sums to one. Items without a
// raw weight get the uniform share 1/n; the rest become
// (1-smoothing)*raw + smoothing/n. The blended weights are then divided by
// their sum.
func Smooth[T Smoothable](items []T, smoothing float64) error {
	if len(items) == 0 {
		return services.Wrap(services.ErrConfiguration, "sampling", "smooth", "cannot build a distribution from an empty catalog", nil)
	}
	if math.IsNaN(smoothing) || smoothing < 0 || smoothing > 1 {
		return services.Wrap(services.ErrConfiguration, "sampling", "smooth", fmt.Sprintf("smoothing weight %v must be between 0 and 1", smoothing), nil)
	}

	uniform := 1 / float64(len(items))
	weights := make([]float64, len(items))
	for i, item := range items {
		raw, ok := item.RawWeight()
		if !ok {
			weights[i] = uniform
			continue
		}
		if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
			return services.Wrap(services.ErrConfiguration, "sampling", "smooth", fmt.Sprintf("weight %v at position %d must be a non-negative number", raw, i), nil)
		}
		weights[i] = (1-smoothing)*raw + smoothing*uniform
	}

	total := floats.Sum(weights)
	if total <= 0 || floats.HasNaN(weights) {
		return services.Wrap(services.ErrConfiguration, "sampling", "smooth", "weights sum to zero; set a smoothing weight above 0 or give at least one entry a positive probability", nil)
	}
	for i, item := range items {
		item.SetWeight(weights[i] / total)
	}
	return nil
}

// TotalWeight sums the weights of items.
func TotalWeight[T Weighted](items []T) float64 {
	weights := make([]float64, len(items))
	for i, item := range items {
		weights[i] = item.Weight()
	}
	return floats.Sum(weights)
}

// Pick draws one item with probability proportional to its weight. Weights
// need not sum to one. Items are scanned in slice order; the first whose
// running total reaches the drawn point wins. When floating-point rounding
// leaves the running total short of the point, the last item is returned.
func Pick[T Weighted](rng Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, services.Wrap(services.ErrInternal, "sampling", "pick", "no items to choose from", nil)
	}

	p := rng.Float64() * TotalWeight(items)
	accumulated := 0.0
	for _, item := range items {
		w := item.Weight()
		if accumulated+w >= p {
			return item, nil
		}
		accumulated += w
	}
	return items[len(items)-1], nil
}
