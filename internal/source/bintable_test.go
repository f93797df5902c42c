package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// scaleJSON mimics the layout of a scaling report: table 0 is an overall
// summary, table 1 the resolution shells.
const scaleJSON = `{
  "scaling_tables": [
    [["Overall", "Value"], ["N(obs)", "1000"]],
    [
      ["Resolution (Å)", "N(obs)", "N(unique)", "CC<sub>½</sub>", "CC<sub>ano</sub>"],
      ["39.19 - 4.40", "300", "100", "0.995*", "0.1"],
      ["4.40 - 3.49", 100, 50, 0.5, "0.0"]
    ]
  ]
}`

func TestParseBinTable(t *testing.T) {
	bins, err := ParseBinTable([]byte(scaleJSON), 1)
	require.NoError(t, err)
	require.Len(t, bins, 2)

	assert.Equal(t, "39.19 - 4.40", bins[0].Label)
	assert.Equal(t, 39.19, bins[0].DMax)
	assert.Equal(t, 4.40, bins[0].DMin)
	assert.Equal(t, 300, bins[0].Count)
	assert.Equal(t, 0.995, bins[0].Statistic)
	assert.True(t, bins[0].Flagged)

	assert.Equal(t, 100, bins[1].Count)
	assert.Equal(t, 0.5, bins[1].Statistic)
	assert.False(t, bins[1].Flagged)
}

func TestParseBinTable_AngstromSign(t *testing.T) {
	// U+212B ANGSTROM SIGN normalizes to U+00C5.
	doc := `{"scaling_tables": [[], [
		["Resolution (` + "\u212b" + `)", "N(obs)", "CC<sub>½</sub>", "x"],
		["10 - 5", "4", "0.9", "y"]
	]]}`
	bins, err := ParseBinTable([]byte(doc), 1)
	require.NoError(t, err)
	require.Len(t, bins, 1)
	assert.Equal(t, 4, bins[0].Count)
}

func TestParseBinTable_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing table", `{"scaling_tables": [[]]}`},
		{"empty table", `{"scaling_tables": [[], []]}`},
		{"resolution heading", `{"scaling_tables": [[], [["d", "N(obs)", "CC<sub>½</sub>", "x"]]]}`},
		{"count heading", `{"scaling_tables": [[], [["Resolution (Å)", "N", "CC<sub>½</sub>", "x"]]]}`},
		{"cc misplaced", `{"scaling_tables": [[], [["Resolution (Å)", "N(obs)", "x", "CC<sub>½</sub>"]]]}`},
		{"short row", `{"scaling_tables": [[], [["Resolution (Å)", "N(obs)", "CC<sub>½</sub>", "x"], ["10 - 5", "4"]]]}`},
		{"bad count", `{"scaling_tables": [[], [["Resolution (Å)", "N(obs)", "CC<sub>½</sub>", "x"], ["10 - 5", "many", "0.9", "y"]]]}`},
		{"bad range", `{"scaling_tables": [[], [["Resolution (Å)", "N(obs)", "CC<sub>½</sub>", "x"], ["10", "4", "0.9", "y"]]]}`},
		{"bad statistic", `{"scaling_tables": [[], [["Resolution (Å)", "N(obs)", "CC<sub>½</sub>", "x"], ["10 - 5", "4", "n/a", "y"]]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBinTable([]byte(tt.doc), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrMalformedBinTable)
		})
	}
}

func TestParseStatistic(t *testing.T) {
	v, flagged, err := ParseStatistic(" 0.123* ")
	require.NoError(t, err)
	assert.Equal(t, 0.123, v)
	assert.True(t, flagged)

	v, flagged, err = ParseStatistic("-0.05")
	require.NoError(t, err)
	assert.Equal(t, -0.05, v)
	assert.False(t, flagged)

	_, _, err = ParseStatistic("*")
	assert.Error(t, err)
}

func TestParseResolutionRange(t *testing.T) {
	hi, lo, err := ParseResolutionRange("2.10 - 3.00")
	require.NoError(t, err)
	assert.Equal(t, 3.0, hi)
	assert.Equal(t, 2.1, lo)
}

func TestParseSweepParameter(t *testing.T) {
	tests := []struct {
		dir     string
		want    float64
		wantErr bool
	}{
		{"runs/pedestal_-10", -10, false},
		{"runs/job_a_5.5/", 5.5, false},
		{"pedestal_0", 0, false},
		{"nounderscore", 0, true},
		{"runs/-10", -10, false},
		{"2.5", 2.5, false},
		{"job_", 0, true},
		{"job_abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			got, err := ParseSweepParameter(tt.dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSweepDataset(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scale_-20")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scale.json"), []byte(scaleJSON), 0644))

	ds, err := LoadSweepDataset(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "scale_-20", ds.Name)
	assert.Equal(t, -20.0, ds.Parameter)
	assert.Len(t, ds.Bins, 2)

	_, err = LoadSweepDataset(filepath.Join(t.TempDir(), "empty_1"), nil)
	assert.True(t, os.IsNotExist(err))
}
