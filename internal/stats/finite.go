package stats

import (
	"math"
	"sort"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// checkFinite fails with ErrNonFinite on the first NaN or infinite value.
func checkFinite(op string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.NewError(model.ErrCodeNonFinite, op, "value %v at index %d", v, i)
		}
	}
	return nil
}

func checkPaired(op string, a, b []float64) error {
	if len(a) != len(b) {
		return model.NewError(model.ErrCodeLengthMismatch, op, "lengths %d and %d differ", len(a), len(b))
	}
	if len(a) == 0 {
		return model.NewError(model.ErrCodeEmptyInput, op, "no pairs")
	}
	if err := checkFinite(op, a); err != nil {
		return err
	}
	return checkFinite(op, b)
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}
