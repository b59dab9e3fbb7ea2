package analyzer

// Encoder turns an item into the integer set a MinHasher consumes
type Encoder[T any] interface {
	Encode(item T) ([]uint64, error)
}

// SetEncoder passes integer sets through unchanged
type SetEncoder struct{}

// NewSetEncoder creates a SetEncoder
func NewSetEncoder() SetEncoder { return SetEncoder{} }

// Encode implements Encoder
func (SetEncoder) Encode(set []uint64) ([]uint64, error) {
	if len(set) == 0 {
		return nil, ErrEmptyInputSet
	}
	return set, nil
}

var (
	_ Encoder[[]uint64] = SetEncoder{}
	_ Encoder[string]   = (*ShingleEncoder)(nil)
)
