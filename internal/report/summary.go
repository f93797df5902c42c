package report

import (
	"fmt"
	"io"

	"github.com/dagewa/wedged-lamellae/internal/engine"
	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// WriteComparison prints the size report, the five-number summaries and
// the pair statistics of r.
func WriteComparison(w io.Writer, r *engine.PairResult) error {
	p := &printer{w: w}
	p.printf("%s has %d reflections\n", r.NameA, r.SizeA)
	p.printf("%s has %d reflections\n", r.NameB, r.SizeB)
	p.printf("%d reflections are common\n", r.Common)
	if r.Resolution != nil {
		p.printf("Resolution range %.2f - %.2f Å\n", r.Resolution.DMax, r.Resolution.DMin)
	}
	p.printf("Five number summaries (%s)\n", r.Method)
	p.printf("I1: %s\n", r.SummaryA)
	p.printf("I2: %s\n", r.SummaryB)
	if r.Pairs.Correlation != nil {
		p.printf("Correlation: %.4f\n", *r.Pairs.Correlation)
	} else {
		p.printf("Correlation: undefined\n")
	}
	p.printf("Mean difference: %.4f (sd %.4f)\n", r.Pairs.MeanDiff, r.Pairs.StdDiff)
	if n := r.Pairs.Normalized; n != nil {
		p.printf("Normalized difference: %.4f (sd %.4f, %d pairs)\n", n.Mean, n.Std, n.N)
	}
	p.printf("Q-Q display range: [%.2f, %.2f]\n", r.Bounds.Lower, r.Bounds.Upper)
	return p.err
}

// WriteSweep prints one row per sweep member in parameter order.
func WriteSweep(w io.Writer, title string, s *sweep.Sweep) error {
	p := &printer{w: w}
	p.printf("%s: %d datasets\n", title, len(s.Points))
	p.printf("%-12s %10s %12s %8s\n", "dataset", "parameter", "average_cc", "n_obs")
	for _, pt := range s.Points {
		p.printf("%-12s %10g %12.4f %8d\n", pt.Name, pt.Parameter, pt.WeightedAverage, pt.TotalCount)
	}
	return p.err
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
