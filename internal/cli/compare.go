package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagewa/wedged-lamellae/internal/config"
	"github.com/dagewa/wedged-lamellae/internal/engine"
	"github.com/dagewa/wedged-lamellae/internal/report"
	"github.com/dagewa/wedged-lamellae/internal/store"
)

type compareMode string

const (
	modeCompare compareMode = "compare"
	modeDiff    compareMode = "diff"
	modeQQ      compareMode = "qq"
)

var compareShort = map[compareMode]string{
	modeCompare: "Compare two datasets: ΔI and Q-Q plots with summaries",
	modeDiff:    "Plot ΔI against I with its moving average",
	modeQQ:      "Plot the Q-Q comparison of two datasets",
}

// CompareOptions holds flags for the compare, diff and qq commands.
type CompareOptions struct {
	*RootOptions
	Window int
	Method string
}

// CompareOutput is the result of a comparison command.
type CompareOutput struct {
	Result    *engine.PairResult `json:"result"`
	Artifacts []string           `json:"artifacts"`
	RunID     string             `json:"run_id,omitempty"`
}

// NewCompareCommand creates the compare, diff or qq command.
func NewCompareCommand(rootOpts *RootOptions, mode compareMode) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <file1> <file2> <title> [column]", mode),
		Short: compareShort[mode],
		Long: fmt.Sprintf(`%s

Both files are reflection tables. Only reflections present in both files
are compared. The column defaults to the configured column (IMEAN).

Example:
  wedged %s first.csv second.csv run1
  wedged %s first.csv second.csv run1 I --out-dir plots`, compareShort[mode], mode, mode),
		Args:          argsBetween(3, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, opts, mode, args)
		},
	}

	cmd.Flags().IntVar(&opts.Window, "window", config.Default().WindowWidth, "moving-average window width")
	cmd.Flags().StringVar(&opts.Method, "method", config.Default().QuantileMethod, "quantile method (linear|tukey|empirical)")

	return cmd
}

func runCompare(cmd *cobra.Command, opts *CompareOptions, mode compareMode, args []string) error {
	f := opts.formatter(cmd)
	log := opts.logger(cmd.ErrOrStderr())
	ctx := cmd.Context()
	file1, file2, title := args[0], args[1], args[2]

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return fail(f, err)
	}
	if len(args) == 4 {
		cfg.Column = args[3]
	}
	if cmd.Flags().Changed("window") {
		cfg.WindowWidth = opts.Window
	}
	if cmd.Flags().Changed("method") {
		cfg.QuantileMethod = opts.Method
	}
	if err := cfg.Validate(); err != nil {
		return fail(f, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeConfig, Message: "invalid options", Err: err})
	}

	a, b, err := loadPair(ctx, cfg, file1, file2)
	if err != nil {
		return fail(f, err)
	}
	f.VerboseLog("loaded %s (%d) and %s (%d)", a.Name, a.Size(), b.Name, b.Size())

	result, err := engine.ComparePair(cfg, title, a, b, engine.Options{Logger: log})
	if err != nil {
		return fail(f, err)
	}

	if err := ensureOutDir(opts.RootOptions); err != nil {
		return fail(f, err)
	}
	artifacts, err := renderComparison(newSink(opts.RootOptions, cfg), mode, result)
	if err != nil {
		return fail(f, err)
	}

	out := CompareOutput{Result: result, Artifacts: artifacts}
	if out.RunID, err = recordRun(opts.RootOptions, func(st *store.Store) (store.Run, error) {
		return st.RecordRun(ctx, store.KindCompare, title, cfg, result)
	}); err != nil {
		return fail(f, err)
	}

	return f.Success(out, func(w io.Writer) error {
		if err := report.WriteComparison(w, result); err != nil {
			return err
		}
		return writeArtifacts(w, out.Artifacts, out.RunID)
	})
}

func renderComparison(sink *report.Sink, mode compareMode, r *engine.PairResult) ([]string, error) {
	var artifacts []string
	if mode == modeCompare || mode == modeDiff {
		path, err := sink.DiffPlot(r.Title, r.Trend)
		if err != nil {
			return nil, writeFailed(err)
		}
		artifacts = append(artifacts, path)
	}
	if mode == modeCompare || mode == modeQQ {
		path, err := sink.QQPlot(r.Title, r.NameA, r.NameB, r.QQ)
		if err != nil {
			return nil, writeFailed(err)
		}
		artifacts = append(artifacts, path)
	}
	return artifacts, nil
}

// newSink builds the report sink for --out-dir and the plot config.
func newSink(opts *RootOptions, cfg *config.Config) *report.Sink {
	return &report.Sink{
		Dir:        opts.OutDir,
		Width:      cfg.Plot.Width,
		Height:     cfg.Plot.Height,
		DiffXRange: cfg.Plot.DiffXRange,
		DiffYRange: cfg.Plot.DiffYRange,
	}
}

// ensureOutDir creates --out-dir when missing.
func ensureOutDir(opts *RootOptions) error {
	if opts.OutDir == "" {
		return nil
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return writeFailed(err)
	}
	return nil
}

func writeFailed(err error) *ExitError {
	return &ExitError{Code: ExitFailure, ErrCode: ErrCodeWriteFailed, Message: "failed to write plot", Err: err}
}

// recordRun writes a run to the --db log and returns its id. Without
// --db it does nothing.
func recordRun(opts *RootOptions, write func(*store.Store) (store.Run, error)) (string, error) {
	st, err := openStore(opts)
	if err != nil || st == nil {
		return "", err
	}
	defer st.Close()

	run, err := write(st)
	if err != nil {
		return "", &ExitError{Code: ExitFailure, ErrCode: ErrCodeDatabase, Message: "failed to record run", Err: err}
	}
	return run.ID, nil
}

func writeArtifacts(w io.Writer, artifacts []string, runID string) error {
	for _, a := range artifacts {
		if _, err := fmt.Fprintf(w, "Wrote %s\n", a); err != nil {
			return err
		}
	}
	if runID != "" {
		if _, err := fmt.Fprintf(w, "Recorded run %s\n", runID); err != nil {
			return err
		}
	}
	return nil
}
