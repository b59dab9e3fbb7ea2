package analyzer

import "fmt"

// EngineConfig holds the construction parameters of an Engine
type EngineConfig struct {
	Threshold float64 // target Jaccard similarity, in (0, 1)
	NumPerm   int     // permutation budget; bands*rows never exceeds it
	BandHash  string  // band hash algorithm name, see BandHashByName
	Seed      uint64  // 0 picks a random seed
}

// Item is a keyed input of an Engine
type Item[T any] struct {
	Key   string
	Value T
}

// Engine composes an Encoder with the shared MinHash and banded LSH core
type Engine[T any] struct {
	params  BandParameters
	encoder Encoder[T]
	hasher  *MinHasher
	index   *LSHIndex
	sampler *CandidateSampler
}

// NewEngine picks band parameters for the threshold, draws bands*rows
// permutations and prepares an empty index
func NewEngine[T any](config EngineConfig, encoder Encoder[T]) (*Engine[T], error) {
	if encoder == nil {
		return nil, fmt.Errorf("%w: encoder is required", ErrInvalidParameter)
	}
	params, err := OptimalBandParameters(config.Threshold, config.NumPerm)
	if err != nil {
		return nil, err
	}
	bandHash, err := BandHashByName(config.BandHash)
	if err != nil {
		return nil, err
	}

	rng := NewRand(config.Seed)
	hasher, err := NewMinHasher(params.NumPermutations(), rng)
	if err != nil {
		return nil, err
	}
	index, err := NewLSHIndex(LSHConfig{Bands: params.Bands, Rows: params.Rows, BandHash: bandHash})
	if err != nil {
		return nil, err
	}

	return &Engine[T]{
		params:  params,
		encoder: encoder,
		hasher:  hasher,
		index:   index,
		sampler: NewCandidateSampler(index, rng),
	}, nil
}

// NewTextEngine creates an engine over raw text using a fresh ShingleEncoder
func NewTextEngine(config EngineConfig, shingleLength int) (*Engine[string], error) {
	encoder, err := NewShingleEncoder(shingleLength)
	if err != nil {
		return nil, err
	}
	return NewEngine[string](config, encoder)
}

// NewSetEngine creates an engine over integer sets
func NewSetEngine(config EngineConfig) (*Engine[[]uint64], error) {
	return NewEngine[[]uint64](config, NewSetEncoder())
}

// Params returns the chosen band parameters
func (e *Engine[T]) Params() BandParameters { return e.params }

// Index returns the engine's LSH index
func (e *Engine[T]) Index() *LSHIndex { return e.index }

// Hasher returns the engine's MinHasher
func (e *Engine[T]) Hasher() *MinHasher { return e.hasher }

// Signature encodes item and computes its MinHash signature
func (e *Engine[T]) Signature(item T) (Signature, error) {
	set, err := e.encoder.Encode(item)
	if err != nil {
		return nil, err
	}
	return e.hasher.ComputeSignature(set)
}

// BandHashes returns the band hashes of item without touching the index
func (e *Engine[T]) BandHashes(item T) ([]uint32, error) {
	sig, err := e.Signature(item)
	if err != nil {
		return nil, err
	}
	return e.index.BandHashes(sig)
}

// Insert signs item and indexes it under key
func (e *Engine[T]) Insert(key string, item T) error {
	sig, err := e.Signature(item)
	if err != nil {
		return fmt.Errorf("failed to sign %q: %w", key, err)
	}
	return e.index.Insert(key, sig)
}

// Populate inserts every item in order
func (e *Engine[T]) Populate(items []Item[T]) error {
	for _, item := range items {
		if err := e.Insert(item.Key, item.Value); err != nil {
			return err
		}
	}
	return nil
}

// Sample draws n candidate pairs from the index
func (e *Engine[T]) Sample(n int) ([]CandidatePair, error) {
	return e.sampler.Sample(n)
}
