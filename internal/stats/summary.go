package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// QuantileMethod selects the quantile convention of a summary.
type QuantileMethod string

const (
	// QuantileLinear is inclusive linear interpolation (type 7).
	QuantileLinear QuantileMethod = "linear"

	// QuantileTukey uses Tukey's hinges for the quartiles.
	QuantileTukey QuantileMethod = "tukey"

	// QuantileEmpirical is the inverse empirical CDF.
	QuantileEmpirical QuantileMethod = "empirical"
)

// ValidQuantileMethods lists the accepted methods.
var ValidQuantileMethods = []QuantileMethod{QuantileLinear, QuantileTukey, QuantileEmpirical}

// ParseQuantileMethod validates a method name. The empty name selects
// QuantileLinear.
func ParseQuantileMethod(name string) (QuantileMethod, error) {
	if name == "" {
		return QuantileLinear, nil
	}
	for _, m := range ValidQuantileMethods {
		if string(m) == name {
			return m, nil
		}
	}
	return "", model.NewError(model.ErrCodeInvalidParameter, "quantile method",
		"unknown method %q: must be one of %v", name, ValidQuantileMethods)
}

// FiveNumberSummary is (min, Q1, median, Q3, max) of a sample.
type FiveNumberSummary struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Values returns the summary in ascending order.
func (s FiveNumberSummary) Values() [5]float64 {
	return [5]float64{s.Min, s.Q1, s.Median, s.Q3, s.Max}
}

// String formats the summary with two decimals, space separated.
func (s FiveNumberSummary) String() string {
	return fmt.Sprintf("%.2f %.2f %.2f %.2f %.2f", s.Min, s.Q1, s.Median, s.Q3, s.Max)
}

// Summarize computes the five-number summary of values.
// Fails with ErrEmptyInput on empty input and ErrNonFinite on NaN or Inf.
func Summarize(values []float64, method QuantileMethod) (FiveNumberSummary, error) {
	const op = "summarize"
	if len(values) == 0 {
		return FiveNumberSummary{}, model.NewError(model.ErrCodeEmptyInput, op, "no values")
	}
	if err := checkFinite(op, values); err != nil {
		return FiveNumberSummary{}, err
	}
	if method == "" {
		method = QuantileLinear
	}

	sorted := sortedCopy(values)
	n := len(sorted)
	s := FiveNumberSummary{Min: sorted[0], Max: sorted[n-1]}

	switch method {
	case QuantileLinear, QuantileEmpirical:
		s.Q1 = quantileSorted(sorted, 0.25, method)
		s.Median = quantileSorted(sorted, 0.5, method)
		s.Q3 = quantileSorted(sorted, 0.75, method)
	case QuantileTukey:
		s.Median = linearQuantile(sorted, 0.5)
		s.Q1 = linearQuantile(sorted[:(n+1)/2], 0.5)
		s.Q3 = linearQuantile(sorted[n/2:], 0.5)
	default:
		return FiveNumberSummary{}, model.NewError(model.ErrCodeInvalidParameter, op, "unknown quantile method %q", method)
	}
	return s, nil
}

func quantileSorted(sorted []float64, p float64, method QuantileMethod) float64 {
	if method == QuantileEmpirical {
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return linearQuantile(sorted, p)
}

// linearQuantile interpolates between the order statistics around
// h = (n-1)p. sorted must be non-empty and ascending.
func linearQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
