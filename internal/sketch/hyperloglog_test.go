package sketch

import (
	"fmt"
	"math"
	"testing"
)

func TestEstimateWithinStandardError(t *testing.T) {
	tests := []struct {
		name     string
		distinct int
	}{
		{"small set", 100},
		{"medium set", 5000},
		{"large set", 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHyperLogLog(DefaultPrecision)
			for i := 0; i < tt.distinct; i++ {
				v := fmt.Sprintf("value-%d", i)
				// Duplicates must not move the estimate.
				h.Add(v)
				h.Add(v)
			}

			got := float64(h.Estimate())
			want := float64(tt.distinct)
			// Allow three standard errors; failures here would indicate a
			// broken register update, not an unlucky hash.
			bound := 3 * h.StandardError() * want
			if math.Abs(got-want) > bound {
				t.Errorf("estimate %v for %v distinct values, want within ±%v", got, want, bound)
			}
		})
	}
}

func TestEstimateEmpty(t *testing.T) {
	h := NewHyperLogLog(DefaultPrecision)
	if got := h.Estimate(); got != 0 {
		t.Errorf("empty sketch estimates %d, want 0", got)
	}
}

func TestMergeMatchesUnion(t *testing.T) {
	left := NewHyperLogLog(DefaultPrecision)
	right := NewHyperLogLog(DefaultPrecision)
	union := NewHyperLogLog(DefaultPrecision)

	for i := 0; i < 3000; i++ {
		v := fmt.Sprintf("left-%d", i)
		left.Add(v)
		union.Add(v)
	}
	for i := 0; i < 3000; i++ {
		v := fmt.Sprintf("right-%d", i)
		right.Add(v)
		union.Add(v)
	}

	if err := left.Merge(right); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if got, want := left.Estimate(), union.Estimate(); got != want {
		t.Errorf("merged estimate %d differs from union estimate %d", got, want)
	}
}

func TestMergePrecisionMismatch(t *testing.T) {
	a := NewHyperLogLog(10)
	b := NewHyperLogLog(12)
	if err := a.Merge(b); err == nil {
		t.Error("expected an error merging sketches of different precisions")
	}
}

func TestPrecisionClamped(t *testing.T) {
	h := NewHyperLogLog(99)
	if got := len(h.registers); got != 1<<DefaultPrecision {
		t.Errorf("out-of-range precision gave %d registers, want %d", got, 1<<DefaultPrecision)
	}
}
