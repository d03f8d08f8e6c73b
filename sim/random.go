package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// maxDemandCount caps a single Poisson draw before the conversion to int.
const maxDemandCount = math.MaxInt32

// RandomProcesses wraps the single sequential random source of a run and
// exposes the sampling primitives the simulation is built from. Every call
// consumes fresh randomness from the same stream, so the order of calls is
// part of the reproducibility contract (see doc.go).
type RandomProcesses struct {
	rng *rand.Rand
}

// NewRandomProcesses binds the sampling primitives to rng.
func NewRandomProcesses(rng *rand.Rand) *RandomProcesses {
	return &RandomProcesses{rng: rng}
}

// SampleDemandCount draws the number of arriving customers for a mean arrival
// rate. A non-positive rate is degenerate at zero and consumes no randomness.
func (r *RandomProcesses) SampleDemandCount(rate float64) int {
	if rate <= 0 {
		return 0
	}
	v := distuv.Poisson{Lambda: rate, Src: r.rng}.Rand()
	if v > maxDemandCount {
		return maxDemandCount
	}
	return int(v)
}

// SamplePurchaseDecision is a Bernoulli trial with success probability p.
func (r *RandomProcesses) SamplePurchaseDecision(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return distuv.Bernoulli{P: p, Src: r.rng}.Rand() == 1
}

// SampleDiscountRate draws from Beta(a, b). The result is used both as an
// eligibility threshold and as a discount magnitude, and always lies in [0, 1].
func (r *RandomProcesses) SampleDiscountRate(a, b float64) float64 {
	v := distuv.Beta{Alpha: a, Beta: b, Src: r.rng}.Rand()
	return math.Min(1, math.Max(0, v))
}

// Uniform returns a uniform draw in [0, 1).
func (r *RandomProcesses) Uniform() float64 {
	return r.rng.Float64()
}

// UniformInt returns a uniform integer in [lo, hi). Returns lo without
// drawing when the range is empty.
func (r *RandomProcesses) UniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo)
}

// SampleWithoutReplacement picks k distinct indices from [0, n) using a
// partial Fisher-Yates shuffle. k is clamped to n. Consumes exactly
// min(k, n) draws. Only displaced positions are stored, so the cost is
// O(k) whatever n is.
func (r *RandomProcesses) SampleWithoutReplacement(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	swapped := make(map[int]int, 2*k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + r.rng.Intn(n-i)
		out[i] = at(j)
		swapped[j] = at(i)
	}
	return out
}
