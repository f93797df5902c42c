package stats

import (
	"math"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// Default trim fractions for the Q-Q display range.
const (
	DefaultLowerTrim = 0.001
	DefaultUpperTrim = 0.95
)

// TrimOptions selects the ranks used for the advisory axis bounds.
type TrimOptions struct {
	// LowerFraction picks rank floor(N*LowerFraction) for the lower bound.
	LowerFraction float64

	// UpperFraction picks rank floor(N*UpperFraction) for the upper bound.
	UpperFraction float64
}

// DefaultTrim drops the bottom 0.1% and the top 5% from the display range.
var DefaultTrim = TrimOptions{LowerFraction: DefaultLowerTrim, UpperFraction: DefaultUpperTrim}

// AxisBounds is a display range. It never restricts the data.
type AxisBounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// QQ pairs the order statistics of two equal-length series.
type QQ struct {
	X      []float64  `json:"x"`
	Y      []float64  `json:"y"`
	Bounds AxisBounds `json:"bounds"`
}

// Points returns the Q-Q pairs as points.
func (q *QQ) Points() []model.Point {
	out := make([]model.Point, len(q.X))
	for i := range q.X {
		out[i] = model.Point{X: q.X[i], Y: q.Y[i]}
	}
	return out
}

// RankCompare sorts copies of x and y ascending and computes the axis bounds.
//
// The lower bound is the smaller of the two values at rank
// floor(N*LowerFraction); the upper bound is the larger of the two values
// at rank floor(N*UpperFraction). Ranks are clamped to [0, N-1].
// Fails with ErrLengthMismatch, ErrEmptyInput, ErrNonFinite or, for trim
// fractions outside [0, 1], ErrInvalidParameter.
func RankCompare(x, y []float64, trim TrimOptions) (*QQ, error) {
	const op = "rank compare"
	if err := checkPaired(op, x, y); err != nil {
		return nil, err
	}
	if !validFraction(trim.LowerFraction) || !validFraction(trim.UpperFraction) {
		return nil, model.NewError(model.ErrCodeInvalidParameter, op,
			"trim fractions %v and %v must lie in [0, 1]", trim.LowerFraction, trim.UpperFraction)
	}

	q := &QQ{X: sortedCopy(x), Y: sortedCopy(y)}
	n := len(q.X)
	lo := rankIndex(n, trim.LowerFraction)
	hi := rankIndex(n, trim.UpperFraction)
	q.Bounds = AxisBounds{
		Lower: math.Min(q.X[lo], q.Y[lo]),
		Upper: math.Max(q.X[hi], q.Y[hi]),
	}
	return q, nil
}

// rankIndex returns floor(n*frac) clamped to a valid index. The small
// epsilon keeps products such as 1000*0.001 from flooring to 0.
func rankIndex(n int, frac float64) int {
	i := int(math.Floor(float64(n)*frac + 1e-9))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func validFraction(f float64) bool {
	return f >= 0 && f <= 1
}
