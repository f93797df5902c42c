package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagewa/wedged-lamellae/internal/config"
	"github.com/dagewa/wedged-lamellae/internal/model"
	"github.com/dagewa/wedged-lamellae/internal/series"
	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

var cubic = series.Frame{
	SpaceGroup: "P 2 3",
	Cell:       series.UnitCell{A: 50, B: 50, C: 50, Alpha: 90, Beta: 90, Gamma: 90},
}

func newDataset(t *testing.T, name string, frame series.Frame, keys []model.Key, values []float64) *series.Dataset {
	t.Helper()
	s, err := series.NewKeyedSeries(keys, values, nil)
	require.NoError(t, err)
	return &series.Dataset{Name: name, Column: "IMEAN", Frame: frame, Series: s}
}

func TestComparePair_ScenarioA(t *testing.T) {
	a := newDataset(t, "a.csv", cubic, []model.Key{{1, 1, 1}, {1, 1, 2}}, []float64{10, 20})
	b := newDataset(t, "b.csv", cubic, []model.Key{{1, 1, 1}, {2, 2, 2}}, []float64{12, 5})

	r, err := ComparePair(config.Default(), "run", a, b, Options{})
	require.NoError(t, err)

	assert.Equal(t, "run", r.Title)
	assert.Equal(t, 2, r.SizeA)
	assert.Equal(t, 2, r.SizeB)
	assert.Equal(t, 1, r.Common)
	assert.Equal(t, 10.0, r.SummaryA.Median)
	assert.Equal(t, 12.0, r.SummaryB.Median)

	require.Len(t, r.Trend.Curve, 1)
	assert.Equal(t, model.Point{X: 11, Y: -2}, r.Trend.Curve[0])

	assert.Equal(t, 10.0, r.Bounds.Lower)
	assert.Equal(t, 12.0, r.Bounds.Upper)

	assert.Equal(t, 1, r.Pairs.N)
	assert.Nil(t, r.Pairs.Correlation)
	assert.Equal(t, -2.0, r.Pairs.MeanDiff)
	assert.Nil(t, r.Pairs.Normalized, "no sigmas")

	require.NotNil(t, r.Resolution)
	assert.InDelta(t, 50/1.7320508075688772, r.Resolution.DMax, 1e-9)
	assert.Equal(t, r.Resolution.DMax, r.Resolution.DMin)
}

func TestComparePair_SummariesOnCommonPairs(t *testing.T) {
	keys := []model.Key{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0}}
	a := newDataset(t, "a", cubic, keys, []float64{1, 2, 3, 4})
	b := newDataset(t, "b", cubic, keys[1:], []float64{20, 30, 40})

	cfg := config.Default()
	cfg.WindowWidth = 3
	r, err := ComparePair(cfg, "t", a, b, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Common)
	assert.Equal(t, [5]float64{2, 2.5, 3, 3.5, 4}, r.SummaryA.Values())
	assert.Equal(t, [5]float64{20, 25, 30, 35, 40}, r.SummaryB.Values())
	require.NotNil(t, r.Pairs.Correlation)
	assert.InDelta(t, 1.0, *r.Pairs.Correlation, 1e-12)
	assert.Equal(t, 3, r.Trend.Window)
}

func TestComparePair_NormalizedDifferences(t *testing.T) {
	keys := []model.Key{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	sa, err := series.NewKeyedSeries(keys, []float64{10, 20, 30}, []float64{3, 1, 0})
	require.NoError(t, err)
	sb, err := series.NewKeyedSeries(keys[:2], []float64{6, 20}, []float64{4, 1})
	require.NoError(t, err)
	a := &series.Dataset{Name: "a", Frame: cubic, Series: sa}
	b := &series.Dataset{Name: "b", Frame: cubic, Series: sb}

	r, err := ComparePair(config.Default(), "sig", a, b, Options{})
	require.NoError(t, err)
	require.NotNil(t, r.Pairs.Normalized)
	assert.Equal(t, 2, r.Pairs.Normalized.N)
	assert.InDelta(t, 0.4, r.Pairs.Normalized.Mean, 1e-12)

	// Uncertainties on one side only give no normalized statistics.
	b.Series, err = series.NewKeyedSeries(keys[:2], []float64{6, 20}, nil)
	require.NoError(t, err)
	r, err = ComparePair(config.Default(), "sig", a, b, Options{})
	require.NoError(t, err)
	assert.Nil(t, r.Pairs.Normalized)
}

func TestComparePair_EmptyIntersection(t *testing.T) {
	a := newDataset(t, "a", cubic, []model.Key{{1, 0, 0}}, []float64{1})
	b := newDataset(t, "b", cubic, []model.Key{{2, 0, 0}}, []float64{1})

	_, err := ComparePair(config.Default(), "t", a, b, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmptyIntersection))
	assert.Equal(t, "match", StageOf(err))
	assert.True(t, IsAnalysisError(err))
}

func TestComparePair_StrictSymmetry(t *testing.T) {
	other := cubic
	other.SpaceGroup = "P 1"
	a := newDataset(t, "a", cubic, []model.Key{{1, 0, 0}}, []float64{1})
	b := newDataset(t, "b", other, []model.Key{{1, 0, 0}}, []float64{2})

	_, err := ComparePair(config.Default(), "t", a, b, Options{})
	require.NoError(t, err, "permissive by default")

	cfg := config.Default()
	cfg.StrictSymmetry = true
	_, err = ComparePair(cfg, "t", a, b, Options{})
	assert.True(t, errors.Is(err, model.ErrIncompatibleSymmetry))
}

func TestComparePair_NoCell(t *testing.T) {
	a := newDataset(t, "a", series.Frame{}, []model.Key{{1, 0, 0}}, []float64{1})
	b := newDataset(t, "b", series.Frame{}, []model.Key{{1, 0, 0}}, []float64{2})

	r, err := ComparePair(config.Default(), "t", a, b, Options{})
	require.NoError(t, err)
	assert.Nil(t, r.Resolution)
}

func TestComparePair_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := newDataset(t, "a", cubic, []model.Key{{1, 0, 0}}, []float64{1})
	b := newDataset(t, "b", cubic, []model.Key{{1, 0, 0}}, []float64{2})
	_, err := ComparePair(config.Default(), "logged", a, b, Options{Logger: logger})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "matched datasets")
	assert.Contains(t, buf.String(), "title=logged")
}

func TestCompareBatch_PreservesOrder(t *testing.T) {
	var pairs []Pair
	for i := range 10 {
		a := newDataset(t, "a", cubic, []model.Key{{1, 0, 0}, {2, 0, 0}}, []float64{float64(i), 1})
		b := newDataset(t, "b", cubic, []model.Key{{1, 0, 0}, {2, 0, 0}}, []float64{0, 1})
		pairs = append(pairs, Pair{Title: fmt.Sprintf("p%d", i), A: a, B: b})
	}

	cfg := config.Default()
	cfg.Workers = 3
	results, err := CompareBatch(context.Background(), cfg, pairs, Options{})
	require.NoError(t, err)
	require.Len(t, results, len(pairs))
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("p%d", i), r.Title)
		assert.Equal(t, float64(i), r.SummaryA.Min)
	}
}

func TestCompareBatch_Failure(t *testing.T) {
	good := newDataset(t, "a", cubic, []model.Key{{1, 0, 0}}, []float64{1})
	bad := newDataset(t, "b", cubic, []model.Key{{2, 0, 0}}, []float64{1})

	_, err := CompareBatch(context.Background(), config.Default(), []Pair{
		{Title: "ok", A: good, B: good},
		{Title: "broken", A: good, B: bad},
	}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmptyIntersection))
	assert.Contains(t, err.Error(), "broken")
}

func TestAggregateSweep(t *testing.T) {
	s, err := AggregateSweep("sweep", []sweep.Dataset{
		{Name: "job_0", Parameter: 0, Bins: []sweep.Bin{{Count: 5, Statistic: 0.5}}},
		{Name: "job_-10", Parameter: -10, Bins: []sweep.Bin{{Count: 10, Statistic: 0.9}}},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{-10, 0}, s.Parameters())
}

func TestAggregateSweep_ZeroObservations(t *testing.T) {
	_, err := AggregateSweep("sweep", []sweep.Dataset{
		{Name: "job_0", Parameter: 0, Bins: []sweep.Bin{{Count: 0, Statistic: 0.5}}},
	}, Options{})
	assert.True(t, errors.Is(err, model.ErrZeroObservations))
	assert.Equal(t, "aggregate", StageOf(err))
}
