package analyzer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePermutations_Ranges(t *testing.T) {
	perms, err := GeneratePermutations(500, NewRand(7))
	require.NoError(t, err)
	require.Len(t, perms, 500)

	for _, p := range perms {
		assert.GreaterOrEqual(t, p.A, uint64(1))
		assert.Less(t, p.A, MersennePrime)
		assert.Less(t, p.B, MersennePrime)
	}
}

func TestGeneratePermutations_SeedIsReproducible(t *testing.T) {
	first, err := GeneratePermutations(16, NewRand(42))
	require.NoError(t, err)
	second, err := GeneratePermutations(16, NewRand(42))
	require.NoError(t, err)
	other, err := GeneratePermutations(16, NewRand(43))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestGeneratePermutations_InvalidCount(t *testing.T) {
	_, err := GeneratePermutations(0, NewRand(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMulAddMod_MatchesBigIntArithmetic(t *testing.T) {
	rng := NewRand(99)
	p := new(big.Int).SetUint64(MersennePrime)

	cases := [][3]uint64{
		{0, 1, 0},
		{MersennePrime - 1, MersennePrime - 1, MersennePrime - 1},
		{1, MersennePrime - 1, 1},
	}
	for i := 0; i < 1000; i++ {
		cases = append(cases, [3]uint64{
			rng.Uint64N(MersennePrime),
			1 + rng.Uint64N(MersennePrime-1),
			rng.Uint64N(MersennePrime),
		})
	}

	for _, c := range cases {
		want := new(big.Int).SetUint64(c[0])
		want.Mul(want, new(big.Int).SetUint64(c[1]))
		want.Add(want, new(big.Int).SetUint64(c[2]))
		want.Mod(want, p)

		assert.Equal(t, want.Uint64(), mulAddMod(c[0], c[1], c[2]), "x=%d a=%d b=%d", c[0], c[1], c[2])
	}
}

func TestPermutationApply_TruncatesTo32Bits(t *testing.T) {
	p := Permutation{A: MersennePrime - 2, B: 12345}
	for x := uint64(0); x < 100; x++ {
		want := uint32(mulAddMod(x, p.A, p.B) & MaxHashValue)
		assert.Equal(t, want, p.Apply(x))
	}
}
