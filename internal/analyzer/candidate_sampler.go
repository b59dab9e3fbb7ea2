package analyzer

import (
	"fmt"
	"math/rand/v2"
)

// CandidatePair is two keys that share at least one LSH bucket
type CandidatePair struct {
	Key1 string `json:"key1" yaml:"key1"`
	Key2 string `json:"key2" yaml:"key2"`
}

// unordered returns the pair with its keys sorted, for duplicate detection
func (p CandidatePair) unordered() CandidatePair {
	if p.Key2 < p.Key1 {
		return CandidatePair{Key1: p.Key2, Key2: p.Key1}
	}
	return p
}

// CandidateSampler draws candidate pairs from an index's shared buckets
type CandidateSampler struct {
	index *LSHIndex
	rng   *rand.Rand
}

// NewCandidateSampler creates a sampler over index using rng
func NewCandidateSampler(index *LSHIndex, rng *rand.Rand) *CandidateSampler {
	if rng == nil {
		rng = NewRand(0)
	}
	return &CandidateSampler{index: index, rng: rng}
}

// Sample draws n buckets with at least two keys, uniformly and without
// replacement, and two distinct keys from each. A pair already returned by
// this call is never returned again; buckets offering only such pairs are
// skipped.
func (s *CandidateSampler) Sample(n int) ([]CandidatePair, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: sample count must be positive, got %d", ErrInvalidParameter, n)
	}

	buckets := s.index.CandidateBuckets()
	if len(buckets) < n {
		return nil, fmt.Errorf("%w: requested %d samples but only %d buckets hold two or more keys",
			ErrInsufficientCandidates, n, len(buckets))
	}

	pairs := make([]CandidatePair, 0, n)
	seen := make(map[CandidatePair]struct{}, n)
	for _, i := range s.rng.Perm(len(buckets)) {
		pair, ok := s.drawPair(buckets[i], seen)
		if !ok {
			continue
		}
		seen[pair.unordered()] = struct{}{}
		pairs = append(pairs, pair)
		if len(pairs) == n {
			return pairs, nil
		}
	}

	return nil, fmt.Errorf("%w: requested %d samples but only %d distinct pairs are available",
		ErrInsufficientCandidates, n, len(pairs))
}

// drawPair samples two distinct keys from bucket, avoiding pairs in seen
func (s *CandidateSampler) drawPair(bucket []string, seen map[CandidatePair]struct{}) (CandidatePair, bool) {
	i := s.rng.IntN(len(bucket))
	j := s.rng.IntN(len(bucket) - 1)
	if j >= i {
		j++
	}
	pair := CandidatePair{Key1: bucket[i], Key2: bucket[j]}
	if _, dup := seen[pair.unordered()]; !dup {
		return pair, true
	}

	var fresh []CandidatePair
	for a := 0; a < len(bucket); a++ {
		for b := a + 1; b < len(bucket); b++ {
			p := CandidatePair{Key1: bucket[a], Key2: bucket[b]}
			if _, dup := seen[p]; !dup {
				fresh = append(fresh, p)
			}
		}
	}
	if len(fresh) == 0 {
		return CandidatePair{}, false
	}
	pair = fresh[s.rng.IntN(len(fresh))]
	if s.rng.IntN(2) == 1 {
		pair.Key1, pair.Key2 = pair.Key2, pair.Key1
	}
	return pair, true
}
