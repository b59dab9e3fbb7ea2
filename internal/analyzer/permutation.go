package analyzer

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
)

const (
	// MersennePrime is the modulus of the universal hash family, 2^61 - 1.
	MersennePrime uint64 = (1 << 61) - 1

	// MaxHashValue masks hash values down to 32 bits.
	MaxHashValue uint64 = (1 << 32) - 1
)

// Permutation is one member h(x) = (a*x + b) mod P of the universal hash family.
type Permutation struct {
	A uint64
	B uint64
}

// Apply evaluates the permutation for x and truncates the result to 32 bits.
func (p Permutation) Apply(x uint64) uint32 {
	return uint32(mulAddMod(x%MersennePrime, p.A, p.B) & MaxHashValue)
}

// GeneratePermutations draws m independent permutations from rng.
// A is uniform in [1, P-1] and B in [0, P-1].
func GeneratePermutations(m int, rng *rand.Rand) ([]Permutation, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: permutation count must be positive, got %d", ErrInvalidParameter, m)
	}
	if rng == nil {
		rng = NewRand(0)
	}

	perms := make([]Permutation, m)
	for i := range perms {
		perms[i] = Permutation{
			A: 1 + rng.Uint64N(MersennePrime-1),
			B: rng.Uint64N(MersennePrime),
		}
	}
	return perms, nil
}

// NewRand returns a PCG-backed generator. A zero seed draws a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// mulAddMod computes (x*a + b) mod P for x, a, b < P without overflow.
// 2^61 ≡ 1 (mod P), so the 128-bit product folds into its low and high 61-bit halves.
func mulAddMod(x, a, b uint64) uint64 {
	hi, lo := bits.Mul64(x, a)
	r := (lo & MersennePrime) + (lo>>61 | hi<<3)
	r = (r & MersennePrime) + (r >> 61)
	r += b
	r = (r & MersennePrime) + (r >> 61)
	if r >= MersennePrime {
		r -= MersennePrime
	}
	return r
}

// addMod returns (x + y) mod P for x, y < P.
func addMod(x, y uint64) uint64 {
	r := x + y
	if r >= MersennePrime {
		r -= MersennePrime
	}
	return r
}
