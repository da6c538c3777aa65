package sampling

import (
	"errors"
	"testing"

	"reverbkit/internal/services"
)

func TestCycleCoversEveryValueInAnyWindow(t *testing.T) {
	pool := []float64{20, 10, 0}
	c, err := NewCycle(NewSource(3), pool)
	if err != nil {
		t.Fatalf("NewCycle returned error: %v", err)
	}

	draws := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		draws = append(draws, c.Next())
	}
	for start := 0; start+3 <= len(draws); start++ {
		seen := map[float64]int{}
		for _, v := range draws[start : start+3] {
			seen[v]++
		}
		for _, want := range pool {
			if seen[want] != 1 {
				t.Fatalf("window at %d = %v, want each of %v exactly once", start, draws[start:start+3], pool)
			}
		}
	}
}

func TestCycleRepeatsSamePermutation(t *testing.T) {
	c, err := NewCycle(NewSource(11), []int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("NewCycle returned error: %v", err)
	}
	first := make([]int, c.Len())
	for i := range first {
		first[i] = c.Next()
	}
	for round := 0; round < 3; round++ {
		for i := range first {
			if got := c.Next(); got != first[i] {
				t.Fatalf("round %d position %d: got %d want %d", round, i, got, first[i])
			}
		}
	}
}

func TestCycleDoesNotAliasInput(t *testing.T) {
	pool := []int{1, 2, 3}
	c, err := NewCycle(NewSource(5), pool)
	if err != nil {
		t.Fatalf("NewCycle returned error: %v", err)
	}
	pool[0] = 99
	for i := 0; i < c.Len(); i++ {
		if c.Next() == 99 {
			t.Fatal("cycle observed mutation of caller slice")
		}
	}
}

func TestCycleEmptyPool(t *testing.T) {
	if _, err := NewCycle(NewSource(0), []float64{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
