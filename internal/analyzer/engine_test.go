package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_ChoosesParameters(t *testing.T) {
	engine, err := NewSetEngine(EngineConfig{Threshold: 0.5, NumPerm: 32, Seed: 1})
	require.NoError(t, err)

	params := engine.Params()
	assert.LessOrEqual(t, params.NumPermutations(), 32)
	assert.Equal(t, params.NumPermutations(), engine.Hasher().NumPermutations())
	assert.Equal(t, params.Bands, engine.Index().Bands())
	assert.Equal(t, params.Rows, engine.Index().Rows())
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	_, err := NewSetEngine(EngineConfig{Threshold: 1.2, NumPerm: 32})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewSetEngine(EngineConfig{Threshold: 0.5, NumPerm: 0})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewSetEngine(EngineConfig{Threshold: 0.5, NumPerm: 8, BandHash: "crc"})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewTextEngine(EngineConfig{Threshold: 0.5, NumPerm: 8}, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEngine_SetScenario(t *testing.T) {
	items := []Item[[]uint64]{
		{Key: "a", Value: []uint64{1, 2, 3, 4, 5}},
		{Key: "b", Value: []uint64{1, 2, 3, 4, 6}},
		{Key: "c", Value: []uint64{100, 200, 300}},
	}

	found := 0
	for seed := uint64(1); seed <= 50; seed++ {
		engine, err := NewSetEngine(EngineConfig{Threshold: 0.5, NumPerm: 32, Seed: seed})
		require.NoError(t, err)
		require.NoError(t, engine.Populate(items))

		pairs, err := engine.Sample(1)
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientCandidates)
			continue
		}
		require.Len(t, pairs, 1)
		assert.ElementsMatch(t, []string{"a", "b"}, []string{pairs[0].Key1, pairs[0].Key2}, "seed %d", seed)
		found++
	}

	assert.GreaterOrEqual(t, found, 25)
}

func TestEngine_TextScenario(t *testing.T) {
	engine, err := NewTextEngine(EngineConfig{Threshold: 0.5, NumPerm: 64, Seed: 11}, 3)
	require.NoError(t, err)

	require.NoError(t, engine.Insert("one", "the quick brown fox jumps over the lazy dog"))
	require.NoError(t, engine.Insert("two", "the quick brown fox jumps over the lazy dog"))
	require.NoError(t, engine.Insert("three", "lorem ipsum dolor sit amet consectetur"))

	pairs, err := engine.Sample(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, []string{pairs[0].Key1, pairs[0].Key2})

	// identical texts share every band, so only one distinct pair exists
	_, err = engine.Sample(2)
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestEngine_BandHashesDoNotIndex(t *testing.T) {
	engine, err := NewTextEngine(EngineConfig{Threshold: 0.5, NumPerm: 32, Seed: 3}, 2)
	require.NoError(t, err)

	hashes, err := engine.BandHashes("some tweet text")
	require.NoError(t, err)

	assert.Len(t, hashes, engine.Params().Bands)
	assert.Equal(t, 0, engine.Index().Size())
}

func TestEngine_EmptySet(t *testing.T) {
	engine, err := NewSetEngine(EngineConfig{Threshold: 0.5, NumPerm: 16, Seed: 2})
	require.NoError(t, err)

	err = engine.Insert("empty", nil)
	assert.ErrorIs(t, err, ErrEmptyInputSet)
}
