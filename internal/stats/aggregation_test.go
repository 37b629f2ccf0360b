package stats

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{2, 4, 6}); got != 4 {
		t.Errorf("Mean = %v, want 4", got)
	}
}

func TestMinMax(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}
	if got := Min(values); got != 1 {
		t.Errorf("Min = %v, want 1", got)
	}
	if got := Max(values); got != 5 {
		t.Errorf("Max = %v, want 5", got)
	}
	if Min(nil) != 0 || Max(nil) != 0 {
		t.Error("Min/Max of empty slice must be 0")
	}
}

func TestJainIndexEmptyIsFair(t *testing.T) {
	if got := JainIndex(nil); got != 1.0 {
		t.Errorf("JainIndex(nil) = %v, want 1.0", got)
	}
}

func TestJainIndexAllZeroIsFair(t *testing.T) {
	if got := JainIndex([]float64{0, 0, 0}); got != 1.0 {
		t.Errorf("JainIndex of all-zero samples = %v, want 1.0", got)
	}
}

func TestJainIndexUniformIsOne(t *testing.T) {
	got := JainIndex([]float64{7, 7, 7, 7})
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("JainIndex of uniform samples = %v, want 1.0", got)
	}
}

func TestJainIndexRange(t *testing.T) {
	samples := [][]float64{
		{1, 2, 3, 4},
		{0, 0, 0, 100},
		{10, 1},
		{5},
		{3, 3, 9, 3, 3, 3, 3, 3, 3, 3, 3, 3},
	}

	for _, values := range samples {
		got := JainIndex(values)
		if got <= 0 || got > 1.0+1e-9 {
			t.Errorf("JainIndex(%v) = %v, outside (0,1]", values, got)
		}
	}
}

func TestJainIndexSkewedIsLow(t *testing.T) {
	// One sample carrying all the load over n=4 gives exactly 1/n
	got := JainIndex([]float64{0, 0, 0, 100})
	if math.Abs(got-0.25) > 1e-9 {
		t.Errorf("JainIndex fully skewed = %v, want 0.25", got)
	}
}
