package stats

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

func TestRankCompare_Sorted(t *testing.T) {
	x := []float64{3, 1, 2}
	y := []float64{30, 20, 10}

	qq, err := RankCompare(x, y, DefaultTrim)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, qq.X)
	assert.Equal(t, []float64{10, 20, 30}, qq.Y)
	assert.Equal(t, []model.Point{{X: 1, Y: 10}, {X: 2, Y: 20}, {X: 3, Y: 30}}, qq.Points())

	// Inputs are untouched.
	assert.Equal(t, []float64{3, 1, 2}, x)
}

func TestRankCompare_Bounds(t *testing.T) {
	n := 2000
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i) * 2
	}

	qq, err := RankCompare(x, y, DefaultTrim)
	require.NoError(t, err)
	// floor(2000/1000) = 2; floor(2000*0.95) = 1900
	assert.Equal(t, 2.0, qq.Bounds.Lower)
	assert.Equal(t, 3800.0, qq.Bounds.Upper)
	// Bounds never remove data.
	assert.Len(t, qq.X, n)
	assert.Len(t, qq.Y, n)
}

func TestRankCompare_BoundsSmallN(t *testing.T) {
	qq, err := RankCompare([]float64{5}, []float64{-5}, DefaultTrim)
	require.NoError(t, err)
	assert.Equal(t, AxisBounds{Lower: -5, Upper: 5}, qq.Bounds)

	qq, err = RankCompare([]float64{1, 2}, []float64{3, 4}, TrimOptions{LowerFraction: 0, UpperFraction: 1})
	require.NoError(t, err)
	assert.Equal(t, AxisBounds{Lower: 1, Upper: 4}, qq.Bounds)
}

func TestRankIndex(t *testing.T) {
	assert.Equal(t, 0, rankIndex(999, 0.001))
	assert.Equal(t, 1, rankIndex(1000, 0.001))
	assert.Equal(t, 3, rankIndex(3000, 0.001))
	assert.Equal(t, 19, rankIndex(20, 0.95))
	assert.Equal(t, 9, rankIndex(10, 1))
}

func TestRankCompare_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	n := 500
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = rng.ExpFloat64() * 100
		y[i] = rng.NormFloat64() * 30
	}

	want, err := RankCompare(x, y, DefaultTrim)
	require.NoError(t, err)

	for trial := 0; trial < 10; trial++ {
		perm := rng.Perm(n)
		px := make([]float64, n)
		py := make([]float64, n)
		for i, p := range perm {
			px[i] = x[p]
			py[i] = y[p]
		}
		got, err := RankCompare(px, py, DefaultTrim)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRankCompare_Errors(t *testing.T) {
	_, err := RankCompare([]float64{1, 2}, []float64{1}, DefaultTrim)
	assert.ErrorIs(t, err, model.ErrLengthMismatch)

	_, err = RankCompare(nil, nil, DefaultTrim)
	assert.ErrorIs(t, err, model.ErrEmptyInput)

	_, err = RankCompare([]float64{1}, []float64{1}, TrimOptions{LowerFraction: -0.1, UpperFraction: 0.9})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}
