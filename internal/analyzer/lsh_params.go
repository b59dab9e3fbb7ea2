package analyzer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// minQuadratureNodes is the smallest Gauss-Legendre rule the optimizer uses.
// gonum's 26-node rule is off by about 1e-2 on high-degree polynomials, so
// every node count stays above it.
const minQuadratureNodes = 32

// BandParameters is a (bands, rows) factorization of the permutation budget
// together with the integrated error probabilities it was chosen for.
type BandParameters struct {
	Bands                    int     `json:"bands" yaml:"bands"`
	Rows                     int     `json:"rows" yaml:"rows"`
	FalsePositiveProbability float64 `json:"false_positive" yaml:"false_positive"`
	FalseNegativeProbability float64 `json:"false_negative" yaml:"false_negative"`
}

// NumPermutations returns bands*rows, the signature length these parameters consume.
func (p BandParameters) NumPermutations() int {
	return p.Bands * p.Rows
}

// candidateProbability is the probability that a pair with Jaccard similarity
// x shares at least one of b bands of r rows.
func candidateProbability(x float64, b, r int) float64 {
	return 1 - math.Pow(1-math.Pow(x, float64(r)), float64(b))
}

// quadratureNodes returns a node count for which Gauss-Legendre integrates
// polynomials of degree up to numPerm exactly.
func quadratureNodes(numPerm int) int {
	return max(numPerm/2+1, minQuadratureNodes)
}

// FalsePositiveProbability integrates the candidate probability over [0, threshold].
func FalsePositiveProbability(threshold float64, bands, rows int) float64 {
	f := func(x float64) float64 { return candidateProbability(x, bands, rows) }
	return quad.Fixed(f, 0, threshold, quadratureNodes(bands*rows), nil, 0)
}

// FalseNegativeProbability integrates the miss probability over [threshold, 1].
func FalseNegativeProbability(threshold float64, bands, rows int) float64 {
	f := func(x float64) float64 { return 1 - candidateProbability(x, bands, rows) }
	return quad.Fixed(f, threshold, 1, quadratureNodes(bands*rows), nil, 0)
}

// ValidateThreshold rejects thresholds outside the open interval (0, 1).
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold <= 0 || threshold >= 1 {
		return fmt.Errorf("%w: threshold must be in (0, 1), got %v", ErrInvalidParameter, threshold)
	}
	return nil
}

// OptimalBandParameters searches every bands*rows <= numPerm and returns the
// pair with the smallest false positive + false negative area. Ties keep the
// first pair found in ascending (bands, rows) order.
func OptimalBandParameters(threshold float64, numPerm int) (BandParameters, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return BandParameters{}, err
	}
	if numPerm < 1 {
		return BandParameters{}, fmt.Errorf("%w: permutation budget must be positive, got %d", ErrInvalidParameter, numPerm)
	}

	best := BandParameters{}
	minError := math.Inf(1)
	for b := 1; b <= numPerm; b++ {
		for r := 1; r <= numPerm/b; r++ {
			fp := FalsePositiveProbability(threshold, b, r)
			fn := FalseNegativeProbability(threshold, b, r)
			if fp+fn < minError {
				minError = fp + fn
				best = BandParameters{
					Bands:                    b,
					Rows:                     r,
					FalsePositiveProbability: fp,
					FalseNegativeProbability: fn,
				}
			}
		}
	}
	return best, nil
}
