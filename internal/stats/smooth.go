package stats

import (
	"math"
	"sort"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// DefaultWindow is the default moving-average window width.
const DefaultWindow = 100

// Trend is the residual-vs-magnitude view of a set of pairs.
type Trend struct {
	// Scatter holds (mean, diff) for every pair, sorted by mean.
	Scatter []model.Point `json:"scatter"`

	// Curve holds (mean, smoothed diff), one point per pair.
	Curve []model.Point `json:"curve"`

	// Window is the width the curve was computed with.
	Window int `json:"window"`
}

// Smooth computes the residual trend of v1 against v2.
//
// For each pair it takes mean = (v1+v2)/2 and diff = v1-v2, stable-sorts
// the pairs by mean and smooths diff with MovingAverage. Fails with
// ErrEmptyInput, ErrLengthMismatch, ErrNonFinite or ErrInvalidParameter.
func Smooth(v1, v2 []float64, window int) (*Trend, error) {
	const op = "smooth"
	if err := checkPaired(op, v1, v2); err != nil {
		return nil, err
	}
	if window < 1 {
		return nil, model.NewError(model.ErrCodeInvalidParameter, op, "window %d < 1", window)
	}

	n := len(v1)
	mean := make([]float64, n)
	diff := make([]float64, n)
	for i := range v1 {
		mean[i] = (v1[i] + v2[i]) / 2
		diff[i] = v1[i] - v2[i]
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return mean[perm[a]] < mean[perm[b]]
	})

	sortedMean := make([]float64, n)
	sortedDiff := make([]float64, n)
	for i, p := range perm {
		sortedMean[i] = mean[p]
		sortedDiff[i] = diff[p]
	}

	smoothed, err := MovingAverage(sortedDiff, window)
	if err != nil {
		return nil, err
	}

	t := &Trend{
		Scatter: make([]model.Point, n),
		Curve:   make([]model.Point, n),
		Window:  window,
	}
	for i := range sortedMean {
		t.Scatter[i] = model.Point{X: sortedMean[i], Y: sortedDiff[i]}
		t.Curve[i] = model.Point{X: sortedMean[i], Y: smoothed[i]}
	}
	return t, nil
}

// MovingAverage returns the centred moving average of values.
//
// Position i averages values[j] for j in [i-w/2, i+w-1-w/2] (integer
// division) intersected with [0, len(values)). The window narrows at the
// ends instead of averaging padding, so the result has len(values)
// elements and every element is an average of at least one sample.
//
// The window slides in O(len(values)): each step adds the entering
// samples to a compensated running sum and subtracts the leaving ones.
func MovingAverage(values []float64, window int) ([]float64, error) {
	const op = "moving average"
	if len(values) == 0 {
		return nil, model.NewError(model.ErrCodeEmptyInput, op, "no values")
	}
	if window < 1 {
		return nil, model.NewError(model.ErrCodeInvalidParameter, op, "window %d < 1", window)
	}
	if err := checkFinite(op, values); err != nil {
		return nil, err
	}

	n := len(values)
	before := window / 2
	after := window - 1 - before

	out := make([]float64, n)
	var sum runningSum
	lo, hi := 0, -1 // current window, inclusive
	for i := range values {
		for hi < min(i+after, n-1) {
			hi++
			sum.add(values[hi])
		}
		for lo < max(i-before, 0) {
			sum.add(-values[lo])
			lo++
		}
		out[i] = sum.value() / float64(hi-lo+1)
	}
	return out, nil
}

// runningSum is a Neumaier compensated sum.
type runningSum struct {
	sum, c float64
}

func (s *runningSum) add(v float64) {
	t := s.sum + v
	if math.Abs(s.sum) >= math.Abs(v) {
		s.c += (s.sum - t) + v
	} else {
		s.c += (v - t) + s.sum
	}
	s.sum = t
}

func (s *runningSum) value() float64 {
	return s.sum + s.c
}
