package engine

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/dagewa/wedged-lamellae/internal/config"
	"github.com/dagewa/wedged-lamellae/internal/series"
	"github.com/dagewa/wedged-lamellae/internal/stats"
)

// PairResult is everything derived from one pair of datasets.
type PairResult struct {
	Title string `json:"title"`
	NameA string `json:"name_a"`
	NameB string `json:"name_b"`

	// SizeA and SizeB are the dataset sizes before matching.
	SizeA  int `json:"size_a"`
	SizeB  int `json:"size_b"`
	Common int `json:"common"`

	Method   stats.QuantileMethod    `json:"quantile_method"`
	SummaryA stats.FiveNumberSummary `json:"summary_a"`
	SummaryB stats.FiveNumberSummary `json:"summary_b"`

	Pairs  stats.PairStatistics `json:"pairs"`
	Bounds stats.AxisBounds     `json:"qq_bounds"`

	// Resolution spans the common reflections of A. Nil when A carries
	// no usable unit cell.
	Resolution *Resolution `json:"resolution,omitempty"`

	Trend *stats.Trend `json:"-"`
	QQ    *stats.QQ    `json:"-"`
}

// Resolution is a d-spacing range in Ångström.
type Resolution struct {
	DMax float64 `json:"d_max"`
	DMin float64 `json:"d_min"`
}

// Pair names two datasets to compare under a title.
type Pair struct {
	Title string
	A, B  *series.Dataset
}

// ComparePair matches a against b and computes the comparison.
//
// Matching follows cfg.MatchOptions: permissive unless StrictSymmetry is
// set. All derived values are computed on the matched pairs, ordered as
// in a.
func ComparePair(cfg *config.Config, title string, a, b *series.Dataset, opts Options) (*PairResult, error) {
	log := opts.logger().With("title", title)

	matched, err := a.CommonSets(b, cfg.MatchOptions())
	if err != nil {
		return nil, stageErr(title, "match", err)
	}
	log.Debug("matched datasets",
		"a", a.Name, "size_a", a.Size(),
		"b", b.Name, "size_b", b.Size(),
		"common", matched.Len())

	result := &PairResult{
		Title:  title,
		NameA:  a.Name,
		NameB:  b.Name,
		SizeA:  a.Size(),
		SizeB:  b.Size(),
		Common: matched.Len(),
		Method: cfg.Method(),
	}

	if result.SummaryA, err = stats.Summarize(matched.A, result.Method); err != nil {
		return nil, stageErr(title, "summary", err)
	}
	if result.SummaryB, err = stats.Summarize(matched.B, result.Method); err != nil {
		return nil, stageErr(title, "summary", err)
	}

	if result.Trend, err = stats.Smooth(matched.A, matched.B, cfg.WindowWidth); err != nil {
		return nil, stageErr(title, "smooth", err)
	}
	log.Debug("smoothed residuals", "window", cfg.WindowWidth, "points", len(result.Trend.Curve))

	if result.QQ, err = stats.RankCompare(matched.A, matched.B, cfg.Trim()); err != nil {
		return nil, stageErr(title, "rank compare", err)
	}
	result.Bounds = result.QQ.Bounds
	log.Debug("rank compared", "lower", result.Bounds.Lower, "upper", result.Bounds.Upper)

	if result.Pairs, err = stats.ComparePairs(matched.A, matched.B); err != nil {
		return nil, stageErr(title, "pair statistics", err)
	}
	if matched.SigmaA != nil {
		result.Pairs.Normalized, err = stats.CompareNormalized(matched.A, matched.B, matched.SigmaA, matched.SigmaB)
		if err != nil {
			return nil, stageErr(title, "pair statistics", err)
		}
	}

	result.Resolution = resolutionOf(a, matched.IndexA)
	return result, nil
}

// CompareBatch runs ComparePair for every pair, at most cfg.Workers at a
// time. Results are in input order. The first failure cancels the batch.
func CompareBatch(ctx context.Context, cfg *config.Config, pairs []Pair, opts Options) ([]*PairResult, error) {
	results := make([]*PairResult, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := ComparePair(cfg, p.Title, p.A, p.B, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func resolutionOf(d *series.Dataset, idx []int) *Resolution {
	if d.Frame.Cell.Validate() != nil {
		return nil
	}
	all := d.DSpacings()
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		v := all[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return nil
	}
	return &Resolution{DMax: hi, DMin: lo}
}
