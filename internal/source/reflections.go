package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dagewa/wedged-lamellae/internal/model"
	"github.com/dagewa/wedged-lamellae/internal/series"
)

// DefaultColumn is the measured column read when none is given.
const DefaultColumn = "IMEAN"

// ReflectionOptions holds options for reflection table loading.
type ReflectionOptions struct {
	Column      string // Measured column (default: "IMEAN")
	SigmaColumn string // Uncertainty column (default: "SIG" + Column, optional)
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultReflectionOptions returns default options for reflection loading.
func DefaultReflectionOptions() *ReflectionOptions {
	return &ReflectionOptions{
		Column:    DefaultColumn,
		Delimiter: ',',
	}
}

// LoadReflections loads a reflection table from a file.
// The dataset is named after the file's base name.
func LoadReflections(path string, opts *ReflectionOptions) (*series.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ds, err := LoadReflectionsFromReader(file, path, opts)
	if err != nil {
		return nil, err
	}
	ds.Name = filepath.Base(path)
	return ds, nil
}

// LoadReflectionsFromReader loads a reflection table from an io.Reader.
// path is only used in error messages.
func LoadReflectionsFromReader(r io.Reader, path string, opts *ReflectionOptions) (*series.Dataset, error) {
	if opts == nil {
		opts = DefaultReflectionOptions()
	}
	column := opts.Column
	if column == "" {
		column = DefaultColumn
	}
	sigmaColumn := opts.SigmaColumn
	if sigmaColumn == "" {
		sigmaColumn = "SIG" + column
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	br := bufio.NewReader(r)
	frame, lines, err := readFrame(br, path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, formatErrorf(path, lines+1, "missing header row")
	}
	if err != nil {
		return nil, formatErrorf(path, lines+1, "reading header: %v", err)
	}

	reader.FieldsPerRecord = len(header)

	idx := map[string]int{"H": -1, "K": -1, "L": -1, column: -1}
	sigmaIdx := -1
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		switch {
		case strings.EqualFold(h, "H") || strings.EqualFold(h, "K") || strings.EqualFold(h, "L"):
			idx[strings.ToUpper(h)] = i
		case h == column:
			idx[column] = i
		case h == sigmaColumn:
			sigmaIdx = i
		}
	}
	for _, name := range []string{"H", "K", "L", column} {
		if idx[name] == -1 {
			return nil, formatErrorf(path, lines+1, "column %q not found in header %v", name, header)
		}
	}

	var (
		keys   []model.Key
		values []float64
		sigmas []float64
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, formatErrorf(path, pe.Line+lines, "%v", pe.Err)
			}
			return nil, formatErrorf(path, 0, "%v", err)
		}
		line, _ := reader.FieldPos(0)
		line += lines

		var key model.Key
		for i, name := range []string{"H", "K", "L"} {
			v, err := strconv.Atoi(strings.TrimSpace(record[idx[name]]))
			if err != nil {
				return nil, formatErrorf(path, line, "invalid %s index %q", name, record[idx[name]])
			}
			key[i] = v
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[idx[column]]), 64)
		if err != nil {
			return nil, formatErrorf(path, line, "invalid %s value %q", column, record[idx[column]])
		}
		keys = append(keys, key)
		values = append(values, value)

		if sigmaIdx >= 0 {
			sigma, err := strconv.ParseFloat(strings.TrimSpace(record[sigmaIdx]), 64)
			if err != nil {
				return nil, formatErrorf(path, line, "invalid %s value %q", sigmaColumn, record[sigmaIdx])
			}
			sigmas = append(sigmas, sigma)
		}
	}

	if sigmaIdx < 0 {
		sigmas = nil
	} else if sigmas == nil {
		sigmas = []float64{}
	}
	ks, err := series.NewKeyedSeries(keys, values, sigmas)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &series.Dataset{
		Name:   path,
		Column: column,
		Frame:  frame,
		Series: ks,
	}, nil
}

// readFrame consumes the leading '#' lines and parses the frame they carry.
// It returns the number of lines consumed.
func readFrame(br *bufio.Reader, path string) (series.Frame, int, error) {
	var (
		frame   series.Frame
		haveSG  bool
		haveCel bool
		lines   int
	)
	for {
		b, err := br.Peek(1)
		if err != nil || b[0] != '#' {
			break
		}
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return frame, lines, formatErrorf(path, lines+1, "%v", err)
		}
		lines++

		key, val, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(text, "#")), ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "space_group":
			frame.SpaceGroup = val
			haveSG = val != ""
		case "unit_cell":
			cell, err := parseUnitCell(val)
			if err != nil {
				return frame, lines, formatErrorf(path, lines, "%v", err)
			}
			frame.Cell = cell
			haveCel = true
		}
	}

	if !haveSG {
		return frame, lines, formatErrorf(path, 0, "missing '# space_group:' metadata")
	}
	if !haveCel {
		return frame, lines, formatErrorf(path, 0, "missing '# unit_cell:' metadata")
	}
	return frame, lines, nil
}

func parseUnitCell(s string) (series.UnitCell, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 6 {
		return series.UnitCell{}, fmt.Errorf("unit_cell needs 6 parameters, got %d", len(fields))
	}
	var p [6]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return series.UnitCell{}, fmt.Errorf("invalid unit_cell parameter %q", f)
		}
		p[i] = v
	}
	cell := series.UnitCell{A: p[0], B: p[1], C: p[2], Alpha: p[3], Beta: p[4], Gamma: p[5]}
	if err := cell.Validate(); err != nil {
		return series.UnitCell{}, err
	}
	return cell, nil
}
