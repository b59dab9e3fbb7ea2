package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// overlappingIndex builds buckets {a,b,c}, {a,b} and four singletons
func overlappingIndex(t *testing.T) *LSHIndex {
	t.Helper()
	index := newTestIndex(t, 3, 1)
	require.NoError(t, index.Populate([]SignedItem{
		{Key: "a", Signature: Signature{1, 2, 9}},
		{Key: "b", Signature: Signature{1, 2, 8}},
		{Key: "c", Signature: Signature{1, 3, 7}},
	}))
	return index
}

func TestSample_NoSelfOrDuplicatePairs(t *testing.T) {
	// three bands, each holding the same bucket {a,b,c}
	index := newTestIndex(t, 3, 1)
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, index.Insert(key, Signature{1, 2, 3}))
	}

	for seed := uint64(1); seed <= 200; seed++ {
		sampler := NewCandidateSampler(index, NewRand(seed))
		pairs, err := sampler.Sample(3)
		require.NoError(t, err)
		require.Len(t, pairs, 3)

		seen := map[CandidatePair]bool{}
		for _, p := range pairs {
			assert.NotEqual(t, p.Key1, p.Key2)
			assert.False(t, seen[p.unordered()], "duplicate pair %v with seed %d", p, seed)
			seen[p.unordered()] = true
		}
	}
}

func TestSample_InsufficientBuckets(t *testing.T) {
	index := overlappingIndex(t)
	sampler := NewCandidateSampler(index, NewRand(1))

	_, err := sampler.Sample(3)
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestSample_InsufficientDistinctPairs(t *testing.T) {
	index := newTestIndex(t, 2, 1)
	require.NoError(t, index.Insert("a", Signature{1, 2}))
	require.NoError(t, index.Insert("b", Signature{1, 2}))
	sampler := NewCandidateSampler(index, NewRand(1))

	pairs, err := sampler.Sample(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, []string{pairs[0].Key1, pairs[0].Key2})

	// two buckets, but both only offer the pair (a, b)
	_, err = sampler.Sample(2)
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestSample_EmptyIndex(t *testing.T) {
	sampler := NewCandidateSampler(newTestIndex(t, 2, 2), NewRand(1))

	_, err := sampler.Sample(1)
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestSample_InvalidCount(t *testing.T) {
	sampler := NewCandidateSampler(overlappingIndex(t), NewRand(1))

	_, err := sampler.Sample(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSample_UniformOverBuckets(t *testing.T) {
	index := newTestIndex(t, 2, 1)
	require.NoError(t, index.Insert("a", Signature{1, 2}))
	require.NoError(t, index.Insert("b", Signature{1, 3}))
	require.NoError(t, index.Insert("c", Signature{4, 2}))

	counts := map[CandidatePair]int{}
	for seed := uint64(1); seed <= 400; seed++ {
		pairs, err := NewCandidateSampler(index, NewRand(seed)).Sample(1)
		require.NoError(t, err)
		counts[pairs[0].unordered()]++
	}

	// buckets {a,b} and {a,c} are equally likely
	assert.Len(t, counts, 2)
	for _, c := range counts {
		assert.InDelta(t, 200, c, 60)
	}
}

func TestSample_SameSeedSameResult(t *testing.T) {
	index := overlappingIndex(t)

	first, err := NewCandidateSampler(index, NewRand(9)).Sample(1)
	require.NoError(t, err)
	second, err := NewCandidateSampler(index, NewRand(9)).Sample(1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
