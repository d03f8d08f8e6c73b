// Package testutil provides shared test assertion helpers for the demand
// simulator's sim/ and sim/... test packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertProportion checks that successes/trials lies within k standard
// errors of the expected probability p.
func AssertProportion(t *testing.T, name string, p float64, successes, trials int, k float64) {
	t.Helper()
	if trials <= 0 {
		t.Fatalf("%s: no trials", name)
	}
	got := float64(successes) / float64(trials)
	se := math.Sqrt(p * (1 - p) / float64(trials))
	if math.Abs(got-p) > k*se {
		t.Errorf("%s: proportion %.4f outside %.4f ± %.1f·%.4f", name, got, p, k, se)
	}
}
