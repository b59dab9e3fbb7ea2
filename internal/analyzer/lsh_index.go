package analyzer

import (
	"fmt"
	"sort"
	"sync"
)

// LSHIndex implements Locality Sensitive Hashing with banding technique.
// All bands share one table: a key lands in the bucket of each of its band hashes.
type LSHIndex struct {
	bands    int
	rows     int
	bandHash BandHashFunc
	buckets  map[uint32]map[string]struct{} // band_hash -> keys
	keys     map[string]struct{}
	mutex    sync.RWMutex
}

// LSHConfig holds configuration parameters for LSH
type LSHConfig struct {
	Bands    int
	Rows     int
	BandHash BandHashFunc // default: SHA-1 truncated to 32 bits
}

// SignedItem pairs an item key with its signature
type SignedItem struct {
	Key       string
	Signature Signature
}

// NewLSHIndex creates a new LSH index with the given configuration
func NewLSHIndex(config LSHConfig) (*LSHIndex, error) {
	if config.Bands < 1 || config.Rows < 1 {
		return nil, fmt.Errorf("%w: bands and rows must be positive, got bands=%d rows=%d",
			ErrInvalidParameter, config.Bands, config.Rows)
	}
	if config.BandHash == nil {
		config.BandHash = sha1BandHash
	}
	return &LSHIndex{
		bands:    config.Bands,
		rows:     config.Rows,
		bandHash: config.BandHash,
		buckets:  make(map[uint32]map[string]struct{}),
		keys:     make(map[string]struct{}),
	}, nil
}

// Bands returns the number of bands
func (idx *LSHIndex) Bands() int { return idx.bands }

// Rows returns the rows per band
func (idx *LSHIndex) Rows() int { return idx.rows }

// BandHashes computes one hash per band. Rows are combined by summing modulo
// the Mersenne prime before hashing.
func (idx *LSHIndex) BandHashes(signature Signature) ([]uint32, error) {
	if len(signature) < idx.bands*idx.rows {
		return nil, fmt.Errorf("%w: signature has %d values, need at least %d (bands=%d, rows=%d)",
			ErrSignatureSize, len(signature), idx.bands*idx.rows, idx.bands, idx.rows)
	}

	hashes := make([]uint32, idx.bands)
	for band := 0; band < idx.bands; band++ {
		var combined uint64
		for _, v := range signature[band*idx.rows : (band+1)*idx.rows] {
			combined = addMod(combined, uint64(v))
		}
		hashes[band] = idx.bandHash(combined)
	}
	return hashes, nil
}

// Insert adds key to the bucket of every band hash of signature.
// Inserting the same key and signature again changes nothing.
func (idx *LSHIndex) Insert(key string, signature Signature) error {
	hashes, err := idx.BandHashes(signature)
	if err != nil {
		return err
	}

	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.keys[key] = struct{}{}
	for _, h := range hashes {
		bucket, ok := idx.buckets[h]
		if !ok {
			bucket = make(map[string]struct{})
			idx.buckets[h] = bucket
		}
		bucket[key] = struct{}{}
	}
	return nil
}

// Populate inserts every item in order and stops at the first error
func (idx *LSHIndex) Populate(items []SignedItem) error {
	for _, item := range items {
		if err := idx.Insert(item.Key, item.Signature); err != nil {
			return fmt.Errorf("failed to insert %q: %w", item.Key, err)
		}
	}
	return nil
}

// Size returns the number of distinct keys in the index
func (idx *LSHIndex) Size() int {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	return len(idx.keys)
}

// NumBuckets returns the number of distinct band hashes
func (idx *LSHIndex) NumBuckets() int {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	return len(idx.buckets)
}

// Bucket returns the sorted keys stored under a band hash
func (idx *LSHIndex) Bucket(hash uint32) []string {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	return sortedKeys(idx.buckets[hash])
}

// CandidateBuckets returns every bucket holding at least two keys, ordered by
// band hash with keys sorted, so sampling is reproducible for a given seed
func (idx *LSHIndex) CandidateBuckets() [][]string {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	hashes := make([]uint32, 0, len(idx.buckets))
	for h, bucket := range idx.buckets {
		if len(bucket) >= 2 {
			hashes = append(hashes, h)
		}
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	candidates := make([][]string, len(hashes))
	for i, h := range hashes {
		candidates[i] = sortedKeys(idx.buckets[h])
	}
	return candidates
}

// GetStats returns statistics about the index
func (idx *LSHIndex) GetStats() LSHIndexStats {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	stats := LSHIndexStats{
		NumKeys:    len(idx.keys),
		NumBuckets: len(idx.buckets),
		Bands:      idx.bands,
		Rows:       idx.rows,
	}
	if len(idx.buckets) == 0 {
		return stats
	}

	sizes := make([]int, 0, len(idx.buckets))
	total := 0
	for _, bucket := range idx.buckets {
		sizes = append(sizes, len(bucket))
		total += len(bucket)
		if len(bucket) >= 2 {
			stats.CandidateBuckets++
		}
	}
	sort.Ints(sizes)

	stats.MinBucketSize = sizes[0]
	stats.MaxBucketSize = sizes[len(sizes)-1]
	stats.AvgBucketSize = float64(total) / float64(len(sizes))
	return stats
}

// LSHIndexStats provides statistics about the LSH index
type LSHIndexStats struct {
	NumKeys          int     `json:"num_keys" yaml:"num_keys"`
	NumBuckets       int     `json:"num_buckets" yaml:"num_buckets"`
	CandidateBuckets int     `json:"candidate_buckets" yaml:"candidate_buckets"`
	Bands            int     `json:"bands" yaml:"bands"`
	Rows             int     `json:"rows" yaml:"rows"`
	MinBucketSize    int     `json:"min_bucket_size" yaml:"min_bucket_size"`
	MaxBucketSize    int     `json:"max_bucket_size" yaml:"max_bucket_size"`
	AvgBucketSize    float64 `json:"avg_bucket_size" yaml:"avg_bucket_size"`
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
