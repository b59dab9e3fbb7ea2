package analyzer

import "fmt"

// ShingleDictionary assigns dense, stable ids to shingles in first-seen order
type ShingleDictionary struct {
	ids    map[string]uint64
	nextID uint64
}

// NewShingleDictionary creates an empty dictionary starting at id 0
func NewShingleDictionary() *ShingleDictionary {
	return &ShingleDictionary{ids: make(map[string]uint64)}
}

// LookupOrInsert returns the id of shingle, assigning the next id if unseen
func (d *ShingleDictionary) LookupOrInsert(shingle string) uint64 {
	if id, ok := d.ids[shingle]; ok {
		return id
	}
	id := d.nextID
	d.ids[shingle] = id
	d.nextID++
	return id
}

// Lookup returns the id of a known shingle
func (d *ShingleDictionary) Lookup(shingle string) (uint64, bool) {
	id, ok := d.ids[shingle]
	return id, ok
}

// Len returns the number of distinct shingles seen so far
func (d *ShingleDictionary) Len() int { return len(d.ids) }

// Shingles splits text into overlapping windows of k+1 runes starting at every
// offset 0..len-k; the last window stops at the end of the text. Texts shorter
// than k come back whole as a single shingle.
//
// The window length is k+1, not k. This matches the historical output of the
// tool and is kept so signatures stay comparable across versions.
func Shingles(text string, k int) []string {
	runes := []rune(text)
	if len(runes) < k {
		return []string{text}
	}

	shingles := make([]string, 0, len(runes)-k+1)
	for i := 0; i <= len(runes)-k; i++ {
		end := min(i+k+1, len(runes))
		shingles = append(shingles, string(runes[i:end]))
	}
	return shingles
}

// ShingleEncoder encodes text as the dictionary ids of its shingles
type ShingleEncoder struct {
	k          int
	dictionary *ShingleDictionary
}

// NewShingleEncoder creates an encoder with its own dictionary
func NewShingleEncoder(k int) (*ShingleEncoder, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: shingle length must be positive, got %d", ErrInvalidParameter, k)
	}
	return &ShingleEncoder{k: k, dictionary: NewShingleDictionary()}, nil
}

// ShingleLength returns k
func (e *ShingleEncoder) ShingleLength() int { return e.k }

// Dictionary returns the encoder's shingle dictionary
func (e *ShingleEncoder) Dictionary() *ShingleDictionary { return e.dictionary }

// Encode implements Encoder. Ids are not deduplicated.
func (e *ShingleEncoder) Encode(text string) ([]uint64, error) {
	shingles := Shingles(text, e.k)
	ids := make([]uint64, len(shingles))
	for i, s := range shingles {
		ids[i] = e.dictionary.LookupOrInsert(s)
	}
	return ids, nil
}
