package report

import (
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// fixedOrFit returns the fixed [min, max] range when given, otherwise a
// range fitted to values.
func fixedOrFit(fixed []float64, values []float64) *chart.ContinuousRange {
	if len(fixed) == 2 {
		return padRange(fixed[0], fixed[1])
	}
	return fitRange(values)
}

// fitRange spans values with a 5% margin. go-chart rejects zero-width
// ranges, so a degenerate span is widened.
func fitRange(values []float64) *chart.ContinuousRange {
	if len(values) == 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	margin := (hi - lo) * 0.05
	return padRange(lo-margin, hi+margin)
}

// padRange returns [lo, hi], widened when lo == hi.
func padRange(lo, hi float64) *chart.ContinuousRange {
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		pad := math.Max(math.Abs(lo)*0.05, 0.5)
		lo, hi = lo-pad, hi+pad
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// clip keeps the points inside both ranges. Clipping is presentation
// only; callers keep the full data.
func clip(points []model.Point, xr, yr *chart.ContinuousRange) []model.Point {
	out := make([]model.Point, 0, len(points))
	for _, p := range points {
		if p.X < xr.Min || p.X > xr.Max || p.Y < yr.Min || p.Y > yr.Max {
			continue
		}
		out = append(out, p)
	}
	return out
}

// clipPolyline cuts the polyline through points at the edges of the plot
// window. Each returned run is continuous and lies inside the window;
// a run ends where the line leaves the window and the next one starts
// where it re-enters.
func clipPolyline(points []model.Point, xr, yr *chart.ContinuousRange) [][]model.Point {
	inside := func(p model.Point) bool {
		return p.X >= xr.Min && p.X <= xr.Max && p.Y >= yr.Min && p.Y <= yr.Max
	}
	if len(points) == 1 {
		if inside(points[0]) {
			return [][]model.Point{{points[0]}}
		}
		return nil
	}

	var runs [][]model.Point
	var cur []model.Point
	flush := func() {
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	for i := 1; i < len(points); i++ {
		a, b, ok := clipSegment(points[i-1], points[i], xr, yr)
		if !ok {
			flush()
			continue
		}
		if len(cur) == 0 || cur[len(cur)-1] != a {
			flush()
			cur = []model.Point{a}
		}
		cur = append(cur, b)
	}
	flush()
	return runs
}

// clipSegment clips the segment p-q to the window (Liang-Barsky). ok is
// false when no part of the segment is inside.
func clipSegment(p, q model.Point, xr, yr *chart.ContinuousRange) (a, b model.Point, ok bool) {
	dx, dy := q.X-p.X, q.Y-p.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, p.X - xr.Min},
		{dx, xr.Max - p.X},
		{-dy, p.Y - yr.Min},
		{dy, yr.Max - p.Y},
	}
	for _, e := range edges {
		den, num := e[0], e[1]
		if den == 0 {
			if num < 0 {
				return a, b, false
			}
			continue
		}
		r := num / den
		if den < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	a, b = p, q
	if t0 > 0 {
		a = model.Point{X: p.X + t0*dx, Y: p.Y + t0*dy}
	}
	if t1 < 1 {
		b = model.Point{X: p.X + t1*dx, Y: p.Y + t1*dy}
	}
	return a, b, true
}
