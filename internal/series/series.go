package series

import (
	"fmt"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// KeyedSeries is an ordered sequence of (key, value) pairs with an optional
// uncertainty per value. Keys are unique. A KeyedSeries is not mutated
// after construction.
type KeyedSeries struct {
	keys   []model.Key
	values []float64
	sigmas []float64
	index  map[model.Key]int
}

// NewKeyedSeries builds a series from parallel slices.
// sigmas may be nil; otherwise it must have the same length as keys.
// The slices are copied.
func NewKeyedSeries(keys []model.Key, values, sigmas []float64) (*KeyedSeries, error) {
	if len(keys) != len(values) {
		return nil, model.NewError(model.ErrCodeLengthMismatch, "new series",
			"%d keys but %d values", len(keys), len(values))
	}
	if sigmas != nil && len(sigmas) != len(keys) {
		return nil, model.NewError(model.ErrCodeLengthMismatch, "new series",
			"%d keys but %d sigmas", len(keys), len(sigmas))
	}

	s := &KeyedSeries{
		keys:   append([]model.Key(nil), keys...),
		values: append([]float64(nil), values...),
		index:  make(map[model.Key]int, len(keys)),
	}
	if sigmas != nil {
		s.sigmas = append([]float64(nil), sigmas...)
	}
	for i, k := range s.keys {
		if prev, ok := s.index[k]; ok {
			return nil, model.NewError(model.ErrCodeDuplicateKey, "new series",
				"key %s at rows %d and %d", k, prev, i)
		}
		s.index[k] = i
	}
	return s, nil
}

// Size returns the number of elements.
func (s *KeyedSeries) Size() int {
	return len(s.keys)
}

// Keys returns a copy of the keys in series order.
func (s *KeyedSeries) Keys() []model.Key {
	return append([]model.Key(nil), s.keys...)
}

// Values returns a copy of the values in series order.
func (s *KeyedSeries) Values() []float64 {
	return append([]float64(nil), s.values...)
}

// Sigmas returns a copy of the uncertainties, or nil if the series has none.
func (s *KeyedSeries) Sigmas() []float64 {
	if s.sigmas == nil {
		return nil
	}
	return append([]float64(nil), s.sigmas...)
}

// HasSigmas reports whether the series carries uncertainties.
func (s *KeyedSeries) HasSigmas() bool {
	return s.sigmas != nil
}

// At returns the key and value at position i.
func (s *KeyedSeries) At(i int) (model.Key, float64) {
	return s.keys[i], s.values[i]
}

func (s *KeyedSeries) String() string {
	return fmt.Sprintf("KeyedSeries(%d)", len(s.keys))
}
