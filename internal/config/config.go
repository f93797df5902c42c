package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/dagewa/wedged-lamellae/internal/series"
	"github.com/dagewa/wedged-lamellae/internal/source"
	"github.com/dagewa/wedged-lamellae/internal/stats"
)

//go:embed schema.cue
var schemaCUE string

// Config holds every parameter of a comparison or sweep run.
type Config struct {
	// Column is the measured column read from reflection tables.
	Column string `yaml:"column" json:"column"`

	// WindowWidth is the moving-average width of the residual trend.
	WindowWidth int `yaml:"window_width" json:"window_width"`

	// LowerTrim and UpperTrim select the ranks of the Q-Q display range.
	LowerTrim float64 `yaml:"lower_trim" json:"lower_trim"`
	UpperTrim float64 `yaml:"upper_trim" json:"upper_trim"`

	// QuantileMethod is "linear", "tukey" or "empirical".
	QuantileMethod string `yaml:"quantile_method" json:"quantile_method"`

	// StrictSymmetry makes matching fail on dissimilar frames.
	StrictSymmetry bool `yaml:"strict_symmetry" json:"strict_symmetry"`

	// LengthTolerance (relative) and AngleTolerance (degrees) define
	// similar unit cells in strict mode.
	LengthTolerance float64 `yaml:"length_tolerance" json:"length_tolerance"`
	AngleTolerance  float64 `yaml:"angle_tolerance" json:"angle_tolerance"`

	// Workers bounds concurrent file loading and batch comparisons.
	Workers int `yaml:"workers" json:"workers"`

	BinTable BinTable `yaml:"bin_table" json:"bin_table"`
	Plot     Plot     `yaml:"plot" json:"plot"`
}

// BinTable locates the resolution table of a sweep directory.
type BinTable struct {
	File       string `yaml:"file" json:"file"`
	TableIndex int    `yaml:"table_index" json:"table_index"`
}

// Plot controls the rendered artifacts.
type Plot struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// DiffXRange and DiffYRange fix the axes of the ΔI plot as [min, max].
	// Empty means fit to the data.
	DiffXRange []float64 `yaml:"diff_x_range" json:"diff_x_range"`
	DiffYRange []float64 `yaml:"diff_y_range" json:"diff_y_range"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Column:          source.DefaultColumn,
		WindowWidth:     stats.DefaultWindow,
		LowerTrim:       stats.DefaultLowerTrim,
		UpperTrim:       stats.DefaultUpperTrim,
		QuantileMethod:  string(stats.QuantileLinear),
		StrictSymmetry:  false,
		LengthTolerance: series.DefaultTolerance.RelativeLength,
		AngleTolerance:  series.DefaultTolerance.AbsoluteAngle,
		Workers:         4,
		BinTable: BinTable{
			File:       "scale.json",
			TableIndex: 1,
		},
		Plot: Plot{
			Width:      640,
			Height:     480,
			DiffXRange: []float64{-1, 15},
			DiffYRange: []float64{-2, 2},
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yamlDecoder(bytes.NewReader(data))
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against the CUE schema and the
// constraints the schema cannot express.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	enc := *c
	if len(enc.Plot.DiffXRange) == 0 {
		enc.Plot.DiffXRange = nil
	}
	if len(enc.Plot.DiffYRange) == 0 {
		enc.Plot.DiffYRange = nil
	}
	value := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(enc))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.LowerTrim > c.UpperTrim {
		return fmt.Errorf("invalid config: lower_trim %v exceeds upper_trim %v", c.LowerTrim, c.UpperTrim)
	}
	for name, r := range map[string][]float64{"diff_x_range": c.Plot.DiffXRange, "diff_y_range": c.Plot.DiffYRange} {
		if len(r) != 0 && (len(r) != 2 || r[0] >= r[1]) {
			return fmt.Errorf("invalid config: %s must be empty or [min, max] with min < max, got %v", name, r)
		}
	}
	return nil
}

// Method returns the parsed quantile method.
func (c *Config) Method() stats.QuantileMethod {
	m, err := stats.ParseQuantileMethod(c.QuantileMethod)
	if err != nil {
		return stats.QuantileLinear
	}
	return m
}

// Trim returns the Q-Q trim options.
func (c *Config) Trim() stats.TrimOptions {
	return stats.TrimOptions{LowerFraction: c.LowerTrim, UpperFraction: c.UpperTrim}
}

// MatchOptions returns the matcher options. Frames are filled in by
// series.Dataset.CommonSets.
func (c *Config) MatchOptions() series.MatchOptions {
	return series.MatchOptions{
		Strict: c.StrictSymmetry,
		Tolerance: series.Tolerance{
			RelativeLength: c.LengthTolerance,
			AbsoluteAngle:  c.AngleTolerance,
		},
	}
}

// ReflectionOptions returns the reflection table options.
func (c *Config) ReflectionOptions() *source.ReflectionOptions {
	opts := source.DefaultReflectionOptions()
	opts.Column = c.Column
	return opts
}

// BinTableOptions returns the bin table options.
func (c *Config) BinTableOptions() *source.BinTableOptions {
	return &source.BinTableOptions{FileName: c.BinTable.File, TableIndex: c.BinTable.TableIndex}
}

// yamlDecoder rejects fields the target type does not declare.
func yamlDecoder(r io.Reader) *yaml.Decoder {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	return decoder
}
