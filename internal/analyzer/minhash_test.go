package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeSet(from, to uint64) []uint64 {
	set := make([]uint64, 0, to-from)
	for x := from; x < to; x++ {
		set = append(set, x)
	}
	return set
}

func TestNewMinHasher(t *testing.T) {
	hasher, err := NewMinHasher(64, NewRand(1))
	require.NoError(t, err)

	assert.Equal(t, 64, hasher.NumPermutations())
	assert.Len(t, hasher.Permutations(), 64)
}

func TestNewMinHasher_InvalidSize(t *testing.T) {
	_, err := NewMinHasher(0, NewRand(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestComputeSignature_EmptySet(t *testing.T) {
	hasher, err := NewMinHasher(16, NewRand(1))
	require.NoError(t, err)

	sig, err := hasher.ComputeSignature(nil)
	assert.ErrorIs(t, err, ErrEmptyInputSet)
	assert.Nil(t, sig)
}

func TestComputeSignature_OneValuePerPermutation(t *testing.T) {
	hasher, err := NewMinHasher(37, NewRand(1))
	require.NoError(t, err)

	sig, err := hasher.ComputeSignature([]uint64{3, 1, 4, 1, 5})
	require.NoError(t, err)
	assert.Equal(t, 37, sig.Len())
}

func TestComputeSignature_MatchesPerElementMinimum(t *testing.T) {
	hasher, err := NewMinHasher(8, NewRand(5))
	require.NoError(t, err)
	set := []uint64{10, 20, 30}

	sig, err := hasher.ComputeSignature(set)
	require.NoError(t, err)

	for i, p := range hasher.Permutations() {
		want := p.Apply(set[0])
		for _, x := range set[1:] {
			want = min(want, p.Apply(x))
		}
		assert.Equal(t, want, sig[i])
	}
}

func TestComputeSignature_FixedPermutations(t *testing.T) {
	hasher := NewMinHasherFromPermutations([]Permutation{{A: 1, B: 0}, {A: 2, B: 5}})

	sig, err := hasher.ComputeSignature([]uint64{7, 3})
	require.NoError(t, err)
	assert.Equal(t, Signature{3, 11}, sig)
}

func TestComputeSignature_SetSemantics(t *testing.T) {
	hasher, err := NewMinHasher(32, NewRand(3))
	require.NoError(t, err)

	plain, err := hasher.ComputeSignature([]uint64{1, 2, 3})
	require.NoError(t, err)
	withDuplicates, err := hasher.ComputeSignature([]uint64{3, 2, 2, 1, 3})
	require.NoError(t, err)

	assert.Equal(t, plain, withDuplicates)
}

func TestEstimateJaccardSimilarity_Converges(t *testing.T) {
	hasher, err := NewMinHasher(1000, NewRand(42))
	require.NoError(t, err)

	tests := []struct {
		name string
		a, b []uint64
	}{
		{"third overlap", rangeSet(0, 100), rangeSet(50, 150)},
		{"two thirds overlap", []uint64{1, 2, 3, 4, 5}, []uint64{1, 2, 3, 4, 6}},
		{"disjoint", rangeSet(0, 50), rangeSet(1000, 1050)},
		{"identical", rangeSet(7, 70), rangeSet(7, 70)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sigA, err := hasher.ComputeSignature(tt.a)
			require.NoError(t, err)
			sigB, err := hasher.ComputeSignature(tt.b)
			require.NoError(t, err)

			estimate, err := EstimateJaccardSimilarity(sigA, sigB)
			require.NoError(t, err)
			assert.InDelta(t, JaccardSimilarity(tt.a, tt.b), estimate, 0.05)
		})
	}
}

func TestEstimateJaccardSimilarity_SizeMismatch(t *testing.T) {
	_, err := EstimateJaccardSimilarity(Signature{1, 2}, Signature{1})
	assert.ErrorIs(t, err, ErrSignatureSize)
}

func TestJaccardSimilarity(t *testing.T) {
	assert.InDelta(t, 4.0/6.0, JaccardSimilarity([]uint64{1, 2, 3, 4, 5}, []uint64{1, 2, 3, 4, 6}), 1e-12)
	assert.Equal(t, 0.0, JaccardSimilarity([]uint64{1}, []uint64{2}))
	assert.Equal(t, 1.0, JaccardSimilarity([]uint64{1, 1, 2}, []uint64{2, 1}))
	assert.Equal(t, 0.0, JaccardSimilarity(nil, nil))
}
