package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

const sampleTable = `# space_group: P 21 21 21
# unit_cell: 50 60 70 90 90 90
# written by a test
H,K,L,IMEAN,SIGIMEAN,IPR
1,0,0,120.5,10.2,119
0,2,0,-3.5,1.0,-3
0,0,1,42,4,40
`

func TestLoadReflectionsFromReader(t *testing.T) {
	ds, err := LoadReflectionsFromReader(strings.NewReader(sampleTable), "sample.csv", nil)
	require.NoError(t, err)

	assert.Equal(t, "IMEAN", ds.Column)
	assert.Equal(t, "P 21 21 21", ds.Frame.SpaceGroup)
	assert.Equal(t, 50.0, ds.Frame.Cell.A)
	assert.Equal(t, 90.0, ds.Frame.Cell.Gamma)
	assert.Equal(t, 3, ds.Size())

	key, v := ds.Series.At(1)
	assert.Equal(t, model.Key{0, 2, 0}, key)
	assert.Equal(t, -3.5, v)
	assert.Equal(t, []float64{10.2, 1.0, 4}, ds.Series.Sigmas())

	assert.InDelta(t, 30.0, ds.DSpacings()[1], 1e-9)
}

func TestLoadReflectionsFromReader_OtherColumn(t *testing.T) {
	opts := &ReflectionOptions{Column: "IPR"}
	ds, err := LoadReflectionsFromReader(strings.NewReader(sampleTable), "sample.csv", opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{119, -3, 40}, ds.Series.Values())
	assert.False(t, ds.Series.HasSigmas(), "no SIGIPR column")
}

func TestLoadReflectionsFromReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    *ReflectionOptions
		wantMsg string
	}{
		{
			name:    "missing cell",
			input:   "# space_group: P 1\nH,K,L,IMEAN\n1,0,0,1\n",
			wantMsg: "unit_cell",
		},
		{
			name:    "missing space group",
			input:   "# unit_cell: 10 10 10 90 90 90\nH,K,L,IMEAN\n1,0,0,1\n",
			wantMsg: "space_group",
		},
		{
			name:    "bad cell",
			input:   "# space_group: P 1\n# unit_cell: 10 10 90 90 90\nH,K,L,IMEAN\n",
			wantMsg: "6 parameters",
		},
		{
			name:    "missing column",
			input:   sampleTable,
			opts:    &ReflectionOptions{Column: "FMEAN"},
			wantMsg: `column "FMEAN" not found`,
		},
		{
			name:    "bad index",
			input:   "# space_group: P 1\n# unit_cell: 10 10 10 90 90 90\nH,K,L,IMEAN\n1,x,0,1\n",
			wantMsg: "sample.csv:4: invalid K index",
		},
		{
			name:    "bad value",
			input:   "# space_group: P 1\n# unit_cell: 10 10 10 90 90 90\nH,K,L,IMEAN\n1,0,0,1\n2,0,0,abc\n",
			wantMsg: "sample.csv:5: invalid IMEAN value",
		},
		{
			name:    "missing header",
			input:   "# space_group: P 1\n# unit_cell: 10 10 10 90 90 90\n",
			wantMsg: "missing header row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReflectionsFromReader(strings.NewReader(tt.input), "sample.csv", tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			var fe *FormatError
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestLoadReflectionsFromReader_DuplicateKey(t *testing.T) {
	input := "# space_group: P 1\n# unit_cell: 10 10 10 90 90 90\nH,K,L,IMEAN\n1,0,0,1\n1,0,0,2\n"
	_, err := LoadReflectionsFromReader(strings.NewReader(input), "dup.csv", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDuplicateKey)
}

func TestLoadReflections_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "first.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0644))

	ds, err := LoadReflections(path, DefaultReflectionOptions())
	require.NoError(t, err)
	assert.Equal(t, "first.csv", ds.Name)
	assert.Equal(t, 3, ds.Size())

	_, err = LoadReflections(filepath.Join(dir, "missing.csv"), nil)
	assert.True(t, os.IsNotExist(err))
}
