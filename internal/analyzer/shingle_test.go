package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShingles(t *testing.T) {
	tests := []struct {
		name string
		text string
		k    int
		want []string
	}{
		{"windows of k+1", "hello", 3, []string{"hell", "ello", "llo"}},
		{"shorter than k", "hi", 3, []string{"hi"}},
		{"exactly k", "abc", 3, []string{"abc"}},
		{"empty text", "", 2, []string{""}},
		{"k of one", "abc", 1, []string{"ab", "bc", "c"}},
		{"multibyte runes", "héllo", 3, []string{"héll", "éllo", "llo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shingles(tt.text, tt.k))
		})
	}
}

func TestShingleDictionary_LookupOrInsert(t *testing.T) {
	dict := NewShingleDictionary()

	assert.Equal(t, uint64(0), dict.LookupOrInsert("abc"))
	assert.Equal(t, uint64(1), dict.LookupOrInsert("bcd"))
	assert.Equal(t, uint64(0), dict.LookupOrInsert("abc"))
	assert.Equal(t, 2, dict.Len())

	id, ok := dict.Lookup("bcd")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), id)

	_, ok = dict.Lookup("zzz")
	assert.False(t, ok)
}

func TestShingleEncoder_StableIDsAcrossTexts(t *testing.T) {
	encoder, err := NewShingleEncoder(3)
	require.NoError(t, err)

	first, err := encoder.Encode("hello")
	require.NoError(t, err)
	second, err := encoder.Encode("jello")
	require.NoError(t, err)
	again, err := encoder.Encode("hello")
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 1, 2}, first)
	// "jell" is new, "ello" and "llo" already have ids
	assert.Equal(t, []uint64{3, 1, 2}, second)
	assert.Equal(t, first, again)
	assert.Equal(t, 4, encoder.Dictionary().Len())
}

func TestShingleEncoder_DoesNotDeduplicate(t *testing.T) {
	encoder, err := NewShingleEncoder(1)
	require.NoError(t, err)

	ids, err := encoder.Encode("aaaa")
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 0, 0, 1}, ids)
}

func TestNewShingleEncoder_InvalidLength(t *testing.T) {
	_, err := NewShingleEncoder(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSetEncoder(t *testing.T) {
	encoder := NewSetEncoder()

	set, err := encoder.Encode([]uint64{4, 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 2}, set)

	_, err = encoder.Encode(nil)
	assert.ErrorIs(t, err, ErrEmptyInputSet)
}
