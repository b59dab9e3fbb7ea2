package analyzer

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Signature holds one minimum hash value per permutation
type Signature []uint32

// Len returns the number of permutations the signature was computed with
func (s Signature) Len() int { return len(s) }

// MinHasher computes MinHash signatures for integer-encoded sets
type MinHasher struct {
	permutations []Permutation
}

// NewMinHasher creates a MinHasher with numPerm permutations drawn from rng
func NewMinHasher(numPerm int, rng *rand.Rand) (*MinHasher, error) {
	perms, err := GeneratePermutations(numPerm, rng)
	if err != nil {
		return nil, err
	}
	return &MinHasher{permutations: perms}, nil
}

// NewMinHasherFromPermutations wraps an existing permutation family.
// The slice is shared, not copied, and must not be modified afterwards.
func NewMinHasherFromPermutations(perms []Permutation) *MinHasher {
	return &MinHasher{permutations: perms}
}

// NumPermutations returns the signature length produced by this hasher
func (m *MinHasher) NumPermutations() int { return len(m.permutations) }

// Permutations exposes the read-only permutation family
func (m *MinHasher) Permutations() []Permutation { return m.permutations }

// ComputeSignature evaluates every permutation over the set in one pass per
// permutation. Duplicate elements are harmless; an empty set is rejected
// because its minimum is undefined.
func (m *MinHasher) ComputeSignature(set []uint64) (Signature, error) {
	if len(set) == 0 {
		return nil, ErrEmptyInputSet
	}

	reduced := make([]uint64, len(set))
	for i, x := range set {
		reduced[i] = x % MersennePrime
	}

	sig := make(Signature, len(m.permutations))
	for i, p := range m.permutations {
		minv := uint32(math.MaxUint32)
		for _, x := range reduced {
			h := uint32(mulAddMod(x, p.A, p.B) & MaxHashValue)
			if h < minv {
				minv = h
			}
		}
		sig[i] = minv
	}
	return sig, nil
}

// EstimateJaccardSimilarity estimates Jaccard similarity via signature agreement ratio
func EstimateJaccardSimilarity(sig1, sig2 Signature) (float64, error) {
	if len(sig1) != len(sig2) {
		return 0, fmt.Errorf("%w: %d != %d", ErrSignatureSize, len(sig1), len(sig2))
	}
	if len(sig1) == 0 {
		return 0, nil
	}
	match := 0
	for i := range sig1 {
		if sig1[i] == sig2[i] {
			match++
		}
	}
	return float64(match) / float64(len(sig1)), nil
}

// JaccardSimilarity computes the exact Jaccard index of two integer sets
func JaccardSimilarity(a, b []uint64) float64 {
	setA := make(map[uint64]struct{}, len(a))
	for _, x := range a {
		setA[x] = struct{}{}
	}
	setB := make(map[uint64]struct{}, len(b))
	for _, x := range b {
		setB[x] = struct{}{}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	inter := 0
	for x := range setA {
		if _, ok := setB[x]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(setA)+len(setB)-inter)
}
