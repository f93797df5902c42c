package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

func TestComparePairs(t *testing.T) {
	ps, err := ComparePairs([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.NoError(t, err)
	assert.Equal(t, 4, ps.N)
	require.NotNil(t, ps.Correlation)
	assert.InDelta(t, 1.0, *ps.Correlation, 1e-12)
	assert.InDelta(t, -2.5, ps.MeanDiff, 1e-12)
	assert.Greater(t, ps.StdDiff, 0.0)
}

func TestComparePairs_Degenerate(t *testing.T) {
	ps, err := ComparePairs([]float64{3}, []float64{1})
	require.NoError(t, err)
	assert.Nil(t, ps.Correlation)
	assert.Equal(t, 2.0, ps.MeanDiff)
	assert.Equal(t, 0.0, ps.StdDiff)

	ps, err = ComparePairs([]float64{1, 1, 1}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Nil(t, ps.Correlation, "constant series has no correlation")
}

func TestComparePairs_Errors(t *testing.T) {
	_, err := ComparePairs(nil, nil)
	assert.ErrorIs(t, err, model.ErrEmptyInput)
	_, err = ComparePairs([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, model.ErrLengthMismatch)
}

func TestCompareNormalized(t *testing.T) {
	d, err := CompareNormalized(
		[]float64{10, 20, 30},
		[]float64{7, 20, 26},
		[]float64{3, 0, 0},
		[]float64{4, 0, 3},
	)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2, d.N, "zero combined sigma is skipped")
	assert.InDelta(t, (0.6+4.0/3)/2, d.Mean, 1e-12)
	assert.Greater(t, d.Std, 0.0)

	d, err = CompareNormalized([]float64{5}, []float64{1}, []float64{0}, []float64{2})
	require.NoError(t, err)
	assert.Equal(t, &Deviation{N: 1, Mean: 2}, d)

	d, err = CompareNormalized([]float64{1}, []float64{1}, []float64{0}, []float64{0})
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestCompareNormalized_Errors(t *testing.T) {
	_, err := CompareNormalized([]float64{1, 2}, []float64{1, 2}, []float64{1}, []float64{1})
	assert.ErrorIs(t, err, model.ErrLengthMismatch)
	_, err = CompareNormalized([]float64{1}, []float64{1}, []float64{math.NaN()}, []float64{1})
	assert.ErrorIs(t, err, model.ErrNonFinite)
}
