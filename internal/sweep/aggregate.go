package sweep

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// WeightedAverage returns Σ count·statistic / Σ count over bins.
//
// The mean is taken over deviations from the first bin's statistic, so
// bins sharing one value s give exactly s. Fails with ErrMalformedBinTable
// for an empty table, a negative count or a non-finite statistic, and with
// ErrZeroObservations when the counts sum to zero.
func WeightedAverage(bins []Bin) (float64, int, error) {
	const op = "weighted average"
	if len(bins) == 0 {
		return math.NaN(), 0, model.NewError(model.ErrCodeMalformedBinTable, op, "no bins")
	}

	ref := bins[0].Statistic
	dev := make([]float64, len(bins))
	weights := make([]float64, len(bins))
	total := 0
	for i, b := range bins {
		if b.Count < 0 {
			return math.NaN(), 0, model.NewError(model.ErrCodeMalformedBinTable, op,
				"negative count %d in bin %q", b.Count, b.Label)
		}
		if math.IsNaN(b.Statistic) || math.IsInf(b.Statistic, 0) {
			return math.NaN(), 0, model.NewError(model.ErrCodeMalformedBinTable, op,
				"non-finite statistic in bin %q", b.Label)
		}
		dev[i] = b.Statistic - ref
		weights[i] = float64(b.Count)
		total += b.Count
	}
	if total == 0 {
		return math.NaN(), 0, model.NewError(model.ErrCodeZeroObservations, op,
			"%d bins hold no observations", len(bins))
	}

	return ref + stat.Mean(dev, weights), total, nil
}

// Aggregate computes the weighted average of every dataset and orders the
// sweep by parameter. Ties are broken by name, then by input order.
// The input slice is not modified.
func Aggregate(datasets []Dataset) (*Sweep, error) {
	if len(datasets) == 0 {
		return nil, model.NewError(model.ErrCodeEmptyInput, "aggregate", "no datasets")
	}

	points := make([]Point, len(datasets))
	for i, d := range datasets {
		avg, total, err := WeightedAverage(d.Bins)
		if err != nil {
			var e *model.Error
			if errors.As(err, &e) {
				e.WithDetail("dataset", d.Name)
			}
			return nil, err
		}
		points[i] = Point{
			Name:            d.Name,
			Parameter:       d.Parameter,
			Bins:            append([]Bin(nil), d.Bins...),
			WeightedAverage: avg,
			TotalCount:      total,
		}
	}

	sort.SliceStable(points, func(a, b int) bool {
		if points[a].Parameter != points[b].Parameter {
			return points[a].Parameter < points[b].Parameter
		}
		return points[a].Name < points[b].Name
	})

	s := &Sweep{Points: points}
	s.AverageTrend = trend(points, func(p Point) float64 { return p.WeightedAverage })
	s.CountTrend = trend(points, func(p Point) float64 { return float64(p.TotalCount) })
	return s, nil
}

// trend builds a (parameter, value) view sorted by parameter.
func trend(points []Point, value func(Point) float64) []model.Point {
	out := make([]model.Point, len(points))
	for i, p := range points {
		out[i] = model.Point{X: p.Parameter, Y: value(p)}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].X < out[b].X })
	return out
}

// Parameters returns the sweep parameters in order.
func (s *Sweep) Parameters() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Parameter
	}
	return out
}
