// Package testutil writes input files for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// Reflection is one row of a reflection table.
type Reflection struct {
	Key   model.Key
	Value float64
	Sigma float64
}

// ReflectionTable describes a reflection table file.
type ReflectionTable struct {
	SpaceGroup string
	Cell       string // six space-separated parameters
	Column     string // defaults to IMEAN
	Rows       []Reflection
}

// WriteReflectionTable writes table to dir/name and returns the path.
// Each row carries the value column and its SIG column.
func WriteReflectionTable(t testing.TB, dir, name string, table ReflectionTable) string {
	t.Helper()
	column := table.Column
	if column == "" {
		column = "IMEAN"
	}
	cell := table.Cell
	if cell == "" {
		cell = "50 50 50 90 90 90"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# space_group: %s\n", table.SpaceGroup)
	fmt.Fprintf(&b, "# unit_cell: %s\n", cell)
	fmt.Fprintf(&b, "H,K,L,%s,SIG%s\n", column, column)
	for _, r := range table.Rows {
		fmt.Fprintf(&b, "%d,%d,%d,%g,%g\n", r.Key.H(), r.Key.K(), r.Key.L(), r.Value, r.Sigma)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write reflection table: %v", err)
	}
	return path
}

// Axial returns rows (h, 0, 0) for h = 1..len(values).
func Axial(values ...float64) []Reflection {
	rows := make([]Reflection, len(values))
	for i, v := range values {
		rows[i] = Reflection{Key: model.Key{i + 1, 0, 0}, Value: v, Sigma: 1}
	}
	return rows
}

// Linear returns n axial rows with value h*scale+offset.
func Linear(n int, scale, offset float64) []Reflection {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i+1)*scale + offset
	}
	return Axial(values...)
}

// Shell is one row of a scaling report bin table.
type Shell struct {
	DMax, DMin float64
	Count      int
	CC         string // as printed, e.g. "0.995*"
}

// WriteScaleReport creates dir/name/scale.json holding shells as table 1
// and returns dir/name.
func WriteScaleReport(t testing.TB, dir, name string, shells ...Shell) string {
	t.Helper()
	sub := filepath.Join(dir, name)
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("create report dir: %v", err)
	}

	rows := []string{`["Resolution (Å)", "N(obs)", "CC<sub>½</sub>", "CC<sub>ano</sub>"]`}
	for _, s := range shells {
		rows = append(rows, fmt.Sprintf(`["%.2f - %.2f", "%d", "%s", "0.0"]`, s.DMax, s.DMin, s.Count, s.CC))
	}
	doc := fmt.Sprintf(`{"scaling_tables": [[], [%s]]}`, strings.Join(rows, ",\n"))

	if err := os.WriteFile(filepath.Join(sub, "scale.json"), []byte(doc), 0644); err != nil {
		t.Fatalf("write scale report: %v", err)
	}
	return sub
}
