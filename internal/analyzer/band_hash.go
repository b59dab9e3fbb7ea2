package analyzer

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// BandHashFunc maps the combined value of one band to a 32-bit bucket key
type BandHashFunc func(combined uint64) uint32

// Band hash algorithm names accepted by BandHashByName
const (
	BandHashSHA1    = "sha1"
	BandHashXXHash  = "xxhash"
	BandHashXXH3    = "xxh3"
	BandHashMurmur3 = "murmur3"
)

// DefaultBandHash is the band hash used when none is configured
const DefaultBandHash = BandHashSHA1

var bandHashes = map[string]BandHashFunc{
	BandHashSHA1:    sha1BandHash,
	BandHashXXHash:  xxhashBandHash,
	BandHashXXH3:    xxh3BandHash,
	BandHashMurmur3: murmur3BandHash,
}

// BandHashByName resolves a configured band hash algorithm
func BandHashByName(name string) (BandHashFunc, error) {
	if name == "" {
		name = DefaultBandHash
	}
	fn, ok := bandHashes[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown band hash %q (supported: %v)", ErrInvalidParameter, name, BandHashNames())
	}
	return fn, nil
}

// BandHashNames lists the supported band hash algorithms
func BandHashNames() []string {
	names := make([]string, 0, len(bandHashes))
	for name := range bandHashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func encodeCombined(combined uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], combined)
	return buf[:]
}

// sha1BandHash reads the first four digest bytes as a little-endian uint32
func sha1BandHash(combined uint64) uint32 {
	digest := sha1.Sum(encodeCombined(combined))
	return binary.LittleEndian.Uint32(digest[:4])
}

func xxhashBandHash(combined uint64) uint32 {
	return uint32(xxhash.Sum64(encodeCombined(combined)))
}

func xxh3BandHash(combined uint64) uint32 {
	return uint32(xxh3.Hash(encodeCombined(combined)))
}

func murmur3BandHash(combined uint64) uint32 {
	return murmur3.Sum32(encodeCombined(combined))
}
