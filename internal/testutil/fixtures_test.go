package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagewa/wedged-lamellae/internal/model"
	"github.com/dagewa/wedged-lamellae/internal/source"
)

func TestWriteReflectionTable_RoundTrip(t *testing.T) {
	path := WriteReflectionTable(t, t.TempDir(), "a.csv", ReflectionTable{
		SpaceGroup: "P 2 3",
		Rows:       Linear(3, 2, 1),
	})

	ds, err := source.LoadReflections(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", ds.Name)
	assert.Equal(t, "P 2 3", ds.Frame.SpaceGroup)
	assert.Equal(t, []float64{3, 5, 7}, ds.Series.Values())
	assert.Equal(t, []model.Key{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, ds.Series.Keys())
}

func TestWriteScaleReport_RoundTrip(t *testing.T) {
	dir := WriteScaleReport(t, t.TempDir(), "job_-5",
		Shell{DMax: 10, DMin: 5, Count: 40, CC: "0.99*"},
		Shell{DMax: 5, DMin: 2.5, Count: 60, CC: "0.4"},
	)
	assert.Equal(t, "job_-5", filepath.Base(dir))
	_, err := os.Stat(filepath.Join(dir, "scale.json"))
	require.NoError(t, err)

	d, err := source.LoadSweepDataset(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, -5.0, d.Parameter)
	require.Len(t, d.Bins, 2)
	assert.True(t, d.Bins[0].Flagged)
	assert.Equal(t, 60, d.Bins[1].Count)
	assert.Equal(t, 2.5, d.Bins[1].DMin)
}
