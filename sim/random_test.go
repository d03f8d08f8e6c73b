package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDemandCount_NonPositiveRate_IsZeroWithoutDrawing(t *testing.T) {
	// GIVEN two sources with the same seed
	a := NewRandomProcesses(newRandFromSeed(7))
	b := newRandFromSeed(7)

	// WHEN a zero and a negative rate are sampled
	assert.Equal(t, 0, a.SampleDemandCount(0))
	assert.Equal(t, 0, a.SampleDemandCount(-3))

	// THEN the stream has not advanced
	assert.Equal(t, b.Float64(), a.Uniform())
}

func TestSampleDemandCount_MeanTracksRate(t *testing.T) {
	rp := NewRandomProcesses(newRandFromSeed(42))
	const n = 5000
	total := 0
	for i := 0; i < n; i++ {
		v := rp.SampleDemandCount(4)
		require.GreaterOrEqual(t, v, 0)
		total += v
	}
	mean := float64(total) / n
	// Poisson(4) has std-dev 2; the sample mean's std-error is 2/sqrt(5000) ≈ 0.028.
	assert.InDelta(t, 4.0, mean, 0.15)
}

func TestSampleDemandCount_CapsBeforeIntConversion(t *testing.T) {
	rp := NewRandomProcesses(newRandFromSeed(42))
	assert.Equal(t, maxDemandCount, rp.SampleDemandCount(1e12))
}

func TestSamplePurchaseDecision_Edges(t *testing.T) {
	rp := NewRandomProcesses(newRandFromSeed(1))
	for i := 0; i < 100; i++ {
		assert.False(t, rp.SamplePurchaseDecision(0))
		assert.True(t, rp.SamplePurchaseDecision(1))
	}
}

func TestSampleDiscountRate_InUnitInterval(t *testing.T) {
	rp := NewRandomProcesses(newRandFromSeed(3))
	shapes := [][2]float64{{0.5, 0.5}, {1, 1}, {2, 5}, {10, 0.1}}
	for _, s := range shapes {
		for i := 0; i < 500; i++ {
			v := rp.SampleDiscountRate(s[0], s[1])
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestUniformInt_Range(t *testing.T) {
	rp := NewRandomProcesses(newRandFromSeed(9))
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := rp.UniformInt(1, 5)
		require.GreaterOrEqual(t, v, 1)
		require.Less(t, v, 5)
		seen[v] = true
	}
	// THEN every value of the half-open range shows up
	assert.Len(t, seen, 4)

	// AND an empty range returns lo
	assert.Equal(t, 3, rp.UniformInt(3, 3))
	assert.Equal(t, 3, rp.UniformInt(3, 1))
}

func TestSampleWithoutReplacement_DistinctAndClamped(t *testing.T) {
	rp := NewRandomProcesses(newRandFromSeed(11))

	// GIVEN k larger than n
	// WHEN sampling
	got := rp.SampleWithoutReplacement(5, 9)

	// THEN all n indices come back exactly once
	require.Len(t, got, 5)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, got)

	picked := rp.SampleWithoutReplacement(100, 30)
	require.Len(t, picked, 30)
	unique := make(map[int]bool)
	for _, i := range picked {
		assert.True(t, i >= 0 && i < 100, "index %d out of range", i)
		unique[i] = true
	}
	assert.Len(t, unique, 30)

	assert.Nil(t, rp.SampleWithoutReplacement(10, 0))
	assert.Nil(t, rp.SampleWithoutReplacement(0, 4))
}

// denseSample is the textbook partial Fisher-Yates over a full index slice.
func denseSample(rp *RandomProcesses, n, k int) []int {
	k = min(k, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rp.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

func TestSampleWithoutReplacement_MatchesDenseShuffle(t *testing.T) {
	// GIVEN two sources with the same seed
	sparse := NewRandomProcesses(newRandFromSeed(77))
	dense := NewRandomProcesses(newRandFromSeed(77))

	// WHEN the same (n, k) sequence is sampled by both shuffles
	cases := [][2]int{{10, 3}, {10, 10}, {1, 1}, {500, 7}, {50, 49}, {1000, 1}}
	for round := 0; round < 20; round++ {
		for _, c := range cases {
			// THEN the picks and the stream position agree
			require.Equal(t, denseSample(dense, c[0], c[1]), sparse.SampleWithoutReplacement(c[0], c[1]), "n=%d k=%d", c[0], c[1])
		}
	}
	assert.Equal(t, dense.Uniform(), sparse.Uniform())
}

func TestSampleWithoutReplacement_LargePoolSmallSample(t *testing.T) {
	rp := NewRandomProcesses(newRandFromSeed(5))
	got := rp.SampleWithoutReplacement(1_000_000_000, 3)
	require.Len(t, got, 3)
	assert.NotEqual(t, got[0], got[1])
	assert.NotEqual(t, got[1], got[2])
	assert.NotEqual(t, got[0], got[2])
}

func TestRandomProcesses_SameSeedSameSequence(t *testing.T) {
	a := NewRandomProcesses(newRandFromSeed(99))
	b := NewRandomProcesses(newRandFromSeed(99))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.SampleDemandCount(6), b.SampleDemandCount(6))
		assert.Equal(t, a.SampleDiscountRate(2, 3), b.SampleDiscountRate(2, 3))
		assert.Equal(t, a.SampleWithoutReplacement(20, 4), b.SampleWithoutReplacement(20, 4))
	}
}
