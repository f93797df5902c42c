package sweep

import (
	"fmt"
	"math"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// Bin is one resolution shell of a bin table.
type Bin struct {
	// Label is the resolution range as printed by the scaling program.
	Label string `json:"label"`

	// DMax and DMin bound the shell in Ångström (DMax > DMin).
	DMax float64 `json:"d_max"`
	DMin float64 `json:"d_min"`

	// Count is the number of observations in the shell.
	Count int `json:"count"`

	// Statistic is the CC1/2 of the shell.
	Statistic float64 `json:"statistic"`

	// Flagged marks a statistic the scaling program considered unreliable.
	Flagged bool `json:"flagged,omitempty"`
}

// Midpoint returns the centre of the shell, (DMax+DMin)/2.
func (b Bin) Midpoint() float64 {
	return (b.DMax + b.DMin) / 2
}

// InvDSquared returns 1/d² at the shell midpoint.
func (b Bin) InvDSquared() float64 {
	d := b.Midpoint()
	if d == 0 {
		return math.Inf(1)
	}
	return 1 / (d * d)
}

// Dataset is one member of a sweep before aggregation.
type Dataset struct {
	Name      string
	Parameter float64
	Bins      []Bin
}

// Point is one aggregated member of a sweep.
type Point struct {
	Name            string  `json:"name"`
	Parameter       float64 `json:"parameter"`
	Bins            []Bin   `json:"bins"`
	WeightedAverage float64 `json:"weighted_average"`
	TotalCount      int     `json:"total_count"`
}

// Curve returns the per-bin statistic against 1/d².
func (p Point) Curve() []model.Point {
	out := make([]model.Point, len(p.Bins))
	for i, b := range p.Bins {
		out[i] = model.Point{X: b.InvDSquared(), Y: b.Statistic}
	}
	return out
}

func (p Point) String() string {
	return fmt.Sprintf("%s: parameter=%g average=%.4f n_obs=%d", p.Name, p.Parameter, p.WeightedAverage, p.TotalCount)
}

// Sweep is the aggregated sweep.
//
// Points is sorted ascending by parameter. AverageTrend and CountTrend
// are independently sorted views of (parameter, weighted average) and
// (parameter, total count).
type Sweep struct {
	Points       []Point       `json:"points"`
	AverageTrend []model.Point `json:"average_trend"`
	CountTrend   []model.Point `json:"count_trend"`
}
