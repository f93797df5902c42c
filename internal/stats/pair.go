package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// PairStatistics summarises the agreement of matched pairs.
type PairStatistics struct {
	N int `json:"n"`

	// Correlation is Pearson's r, nil when undefined (fewer than two
	// pairs or a constant series).
	Correlation *float64 `json:"correlation,omitempty"`

	// MeanDiff and StdDiff describe v1-v2. StdDiff is zero for one pair.
	MeanDiff float64 `json:"mean_diff"`
	StdDiff  float64 `json:"std_diff"`

	// Normalized describes (v1-v2)/sqrt(σ1²+σ2²). Nil when the pairs
	// carry no uncertainties.
	Normalized *Deviation `json:"normalized,omitempty"`
}

// Deviation is the size, mean and standard deviation of a sample.
type Deviation struct {
	N    int     `json:"n"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// ComparePairs computes PairStatistics of v1 against v2.
func ComparePairs(v1, v2 []float64) (PairStatistics, error) {
	if err := checkPaired("compare pairs", v1, v2); err != nil {
		return PairStatistics{}, err
	}

	diff := make([]float64, len(v1))
	for i := range v1 {
		diff[i] = v1[i] - v2[i]
	}

	ps := PairStatistics{N: len(v1)}
	if len(diff) == 1 {
		ps.MeanDiff = diff[0]
	} else {
		ps.MeanDiff, ps.StdDiff = stat.MeanStdDev(diff, nil)
		r := stat.Correlation(v1, v2, nil)
		if !math.IsNaN(r) && !math.IsInf(r, 0) {
			ps.Correlation = &r
		}
	}
	return ps, nil
}

// CompareNormalized describes the differences v1-v2 in units of their
// combined uncertainty sqrt(s1²+s2²). Pairs whose combined uncertainty is
// zero are skipped; the result is nil when no pair remains.
func CompareNormalized(v1, v2, s1, s2 []float64) (*Deviation, error) {
	const op = "compare normalized"
	if err := checkPaired(op, v1, v2); err != nil {
		return nil, err
	}
	if err := checkPaired(op, s1, s2); err != nil {
		return nil, err
	}
	if len(s1) != len(v1) {
		return nil, model.NewError(model.ErrCodeLengthMismatch, op,
			"%d values but %d uncertainties", len(v1), len(s1))
	}

	var z []float64
	for i := range v1 {
		sigma := math.Hypot(s1[i], s2[i])
		if sigma > 0 {
			z = append(z, (v1[i]-v2[i])/sigma)
		}
	}
	switch len(z) {
	case 0:
		return nil, nil
	case 1:
		return &Deviation{N: 1, Mean: z[0]}, nil
	}
	d := &Deviation{N: len(z)}
	d.Mean, d.Std = stat.MeanStdDev(z, nil)
	return d, nil
}
