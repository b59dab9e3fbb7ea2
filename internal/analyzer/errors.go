package analyzer

import "errors"

var (
	// ErrInvalidParameter is returned for thresholds outside (0,1), non-positive
	// permutation budgets, shingle lengths or sample counts.
	ErrInvalidParameter = errors.New("analyzer: invalid parameter")

	// ErrInsufficientCandidates is returned when the index holds fewer candidate
	// buckets (or distinct pairs) than the number of samples requested.
	ErrInsufficientCandidates = errors.New("analyzer: insufficient candidates")

	// ErrEmptyInputSet is returned when an item encodes to zero elements.
	ErrEmptyInputSet = errors.New("analyzer: empty input set")

	// ErrSignatureSize is returned when a signature is shorter than bands*rows
	// or two signatures of different length are compared.
	ErrSignatureSize = errors.New("analyzer: signature size mismatch")
)
