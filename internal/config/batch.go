package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Batch is a manifest of dataset pairs compared in one run.
//
//	pairs:
//	  - title: native
//	    a: native_1.csv
//	    b: native_2.csv
type Batch struct {
	Pairs []BatchPair `yaml:"pairs" json:"pairs"`
}

// BatchPair names the two reflection tables compared under Title.
type BatchPair struct {
	Title string `yaml:"title" json:"title"`
	A     string `yaml:"a" json:"a"`
	B     string `yaml:"b" json:"b"`
}

// LoadBatch reads a manifest from path. Relative table paths are resolved
// against the manifest's directory.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch manifest: %w", err)
	}
	b, err := ParseBatch(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i := range b.Pairs {
		b.Pairs[i].A = resolve(base, b.Pairs[i].A)
		b.Pairs[i].B = resolve(base, b.Pairs[i].B)
	}
	return b, nil
}

// ParseBatch decodes and validates a manifest. Titles must be present and
// unique since they name the plot files.
func ParseBatch(data []byte) (*Batch, error) {
	var b Batch
	decoder := yamlDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(b.Pairs) == 0 {
		return nil, errors.New("invalid batch: no pairs")
	}
	seen := make(map[string]int, len(b.Pairs))
	for i, p := range b.Pairs {
		switch {
		case p.Title == "":
			return nil, fmt.Errorf("invalid batch: pair %d has no title", i)
		case p.A == "" || p.B == "":
			return nil, fmt.Errorf("invalid batch: pair %q needs both a and b", p.Title)
		}
		if prev, ok := seen[p.Title]; ok {
			return nil, fmt.Errorf("invalid batch: title %q used by pairs %d and %d", p.Title, prev, i)
		}
		seen[p.Title] = i
	}
	return &b, nil
}

// Paths returns every table named by the manifest, once each, in order of
// first appearance.
func (b *Batch) Paths() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range b.Pairs {
		for _, path := range []string{p.A, p.B} {
			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
		}
	}
	return out
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
