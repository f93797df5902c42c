package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dagewa/wedged-lamellae/internal/model"
	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// Headings expected in the resolution table of scale.json.
const (
	HeadingResolution = "Resolution (Å)"
	HeadingCount      = "N(obs)"
	HeadingCCHalf     = "CC<sub>½</sub>"
)

// FlagMarker decorates CC1/2 values the scaling program considers unreliable.
const FlagMarker = "*"

// BinTableOptions holds options for bin table loading.
type BinTableOptions struct {
	FileName   string // Report file inside the directory (default: "scale.json")
	TableIndex int    // Index into scaling_tables (default: 1)
}

// DefaultBinTableOptions returns default options for bin table loading.
func DefaultBinTableOptions() *BinTableOptions {
	return &BinTableOptions{FileName: "scale.json", TableIndex: 1}
}

type scaleReport struct {
	ScalingTables [][][]json.RawMessage `json:"scaling_tables"`
}

// LoadSweepDataset loads the bin table of dir and parses its sweep
// parameter from the directory name.
func LoadSweepDataset(dir string, opts *BinTableOptions) (sweep.Dataset, error) {
	param, err := ParseSweepParameter(dir)
	if err != nil {
		return sweep.Dataset{}, err
	}
	bins, err := LoadBinTable(dir, opts)
	if err != nil {
		return sweep.Dataset{}, err
	}
	return sweep.Dataset{Name: dirName(dir), Parameter: param, Bins: bins}, nil
}

// LoadBinTable reads the resolution bin table from the report in dir.
func LoadBinTable(dir string, opts *BinTableOptions) ([]sweep.Bin, error) {
	if opts == nil {
		opts = DefaultBinTableOptions()
	}
	name := opts.FileName
	if name == "" {
		name = "scale.json"
	}
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bins, err := ParseBinTable(data, opts.TableIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bins, nil
}

// ParseBinTable decodes a scale.json document and returns the bins of
// scaling_tables[tableIndex]. The first row holds the headings; column 0
// must be the resolution range, column 1 the observation count and the
// second to last column CC1/2.
func ParseBinTable(data []byte, tableIndex int) ([]sweep.Bin, error) {
	const op = "parse bin table"

	var report scaleReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, model.NewError(model.ErrCodeMalformedBinTable, op, "decoding report: %v", err)
	}
	if tableIndex < 0 || tableIndex >= len(report.ScalingTables) {
		return nil, model.NewError(model.ErrCodeMalformedBinTable, op,
			"table %d not present (%d tables)", tableIndex, len(report.ScalingTables))
	}
	table := report.ScalingTables[tableIndex]
	if len(table) == 0 {
		return nil, model.NewError(model.ErrCodeMalformedBinTable, op, "table %d has no heading row", tableIndex)
	}

	headings := make([]string, len(table[0]))
	for i, raw := range table[0] {
		headings[i] = normalizeHeading(cellText(raw))
	}
	if len(headings) < 3 {
		return nil, model.NewError(model.ErrCodeMalformedBinTable, op, "only %d columns in %v", len(headings), headings)
	}
	ccCol := len(headings) - 2
	expect := []struct {
		col  int
		want string
	}{
		{0, HeadingResolution},
		{1, HeadingCount},
		{ccCol, HeadingCCHalf},
	}
	for _, e := range expect {
		if headings[e.col] != normalizeHeading(e.want) {
			return nil, model.NewError(model.ErrCodeMalformedBinTable, op,
				"column %d is %q, expected %q", e.col, headings[e.col], e.want)
		}
	}

	bins := make([]sweep.Bin, 0, len(table)-1)
	for r, row := range table[1:] {
		if len(row) != len(headings) {
			return nil, model.NewError(model.ErrCodeMalformedBinTable, op,
				"row %d has %d columns, expected %d", r+1, len(row), len(headings))
		}
		label := cellText(row[0])
		dMax, dMin, err := ParseResolutionRange(label)
		if err != nil {
			return nil, model.NewError(model.ErrCodeMalformedBinTable, op, "row %d: %v", r+1, err)
		}
		count, err := strconv.Atoi(strings.TrimSpace(cellText(row[1])))
		if err != nil {
			return nil, model.NewError(model.ErrCodeMalformedBinTable, op,
				"row %d: invalid count %q", r+1, cellText(row[1]))
		}
		stat, flagged, err := ParseStatistic(cellText(row[ccCol]))
		if err != nil {
			return nil, model.NewError(model.ErrCodeMalformedBinTable, op, "row %d: %v", r+1, err)
		}
		bins = append(bins, sweep.Bin{
			Label:     label,
			DMax:      dMax,
			DMin:      dMin,
			Count:     count,
			Statistic: stat,
			Flagged:   flagged,
		})
	}
	return bins, nil
}

// ParseStatistic strips the flag marker from a CC1/2 cell and parses it.
func ParseStatistic(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	flagged := strings.Contains(s, FlagMarker)
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, FlagMarker, "")), 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid statistic %q", s)
	}
	return v, flagged, nil
}

// ParseResolutionRange parses a label such as "39.19 - 4.40" and returns
// the bounds as (dMax, dMin).
func ParseResolutionRange(label string) (float64, float64, error) {
	low, high, ok := strings.Cut(label, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid resolution range %q", label)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(low), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution range %q", label)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(high), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution range %q", label)
	}
	if a < b {
		a, b = b, a
	}
	return a, b, nil
}

// ParseSweepParameter extracts the sweep parameter from the last
// '_'-separated token of the directory name, e.g. "job_-10" → -10. A name
// without '_' is parsed whole, so a directory called "-10" also works.
func ParseSweepParameter(dir string) (float64, error) {
	name := dirName(dir)
	token := name[strings.LastIndex(name, "_")+1:]
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, formatErrorf(dir, 0, "invalid parameter %q in directory name %q", token, name)
	}
	return v, nil
}

func dirName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(filepath.Clean(dir))
}

// cellText renders a JSON cell as text: strings are unquoted, numbers
// keep their literal form.
func cellText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// normalizeHeading folds headings to NFC so that "Å" written as U+212B
// ANGSTROM SIGN matches U+00C5.
func normalizeHeading(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
