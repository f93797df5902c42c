package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/dagewa/wedged-lamellae/internal/config"
	"github.com/dagewa/wedged-lamellae/internal/engine"
	"github.com/dagewa/wedged-lamellae/internal/report"
	"github.com/dagewa/wedged-lamellae/internal/store"
)

// BatchOutput is the result of the batch command, one entry per manifest
// pair in manifest order.
type BatchOutput struct {
	Results []CompareOutput `json:"results"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <manifest.yaml>",
		Short: "Compare every dataset pair listed in a manifest",
		Long: `Compare every dataset pair listed in a YAML manifest.

Each pair is compared as by the compare command and writes both plots.
Pairs run concurrently, bounded by the configured workers. Relative table
paths are resolved against the manifest's directory.

Manifest:
  pairs:
    - title: native
      a: native_1.csv
      b: native_2.csv

Example:
  wedged batch pairs.yaml --out-dir plots --db runs.db`,
		Args:          argsBetween(1, 1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Window, "window", config.Default().WindowWidth, "moving-average window width")
	cmd.Flags().StringVar(&opts.Method, "method", config.Default().QuantileMethod, "quantile method (linear|tukey|empirical)")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *CompareOptions, manifestPath string) error {
	f := opts.formatter(cmd)
	log := opts.logger(cmd.ErrOrStderr())
	ctx := cmd.Context()

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return fail(f, err)
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

	manifest, err := config.LoadBatch(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail(f, err)
		}
		return fail(f, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeConfig, Message: "invalid batch manifest", Err: err})
	}

	datasets, err := loadDatasets(ctx, cfg, manifest.Paths())
	if err != nil {
		return fail(f, err)
	}
	f.VerboseLog("loaded %d tables for %d pairs", len(datasets), len(manifest.Pairs))

	pairs := make([]engine.Pair, len(manifest.Pairs))
	for i, p := range manifest.Pairs {
		pairs[i] = engine.Pair{Title: p.Title, A: datasets[p.A], B: datasets[p.B]}
	}
	results, err := engine.CompareBatch(ctx, cfg, pairs, engine.Options{Logger: log})
	if err != nil {
		return fail(f, err)
	}

	if err := ensureOutDir(opts.RootOptions); err != nil {
		return fail(f, err)
	}
	sink := newSink(opts.RootOptions, cfg)
	out := BatchOutput{Results: make([]CompareOutput, len(results))}
	for i, r := range results {
		artifacts, err := renderComparison(sink, modeCompare, r)
		if err != nil {
			return fail(f, err)
		}
		out.Results[i] = CompareOutput{Result: r, Artifacts: artifacts}
	}

	if err := recordBatch(ctx, opts.RootOptions, cfg, out.Results); err != nil {
		return fail(f, err)
	}

	return f.Success(out, func(w io.Writer) error {
		for i, r := range out.Results {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := report.WriteComparison(w, r.Result); err != nil {
				return err
			}
			if err := writeArtifacts(w, r.Artifacts, r.RunID); err != nil {
				return err
			}
		}
		return nil
	})
}

// recordBatch logs one compare run per result and fills in the run ids.
// Without --db it does nothing.
func recordBatch(ctx context.Context, opts *RootOptions, cfg *config.Config, results []CompareOutput) error {
	st, err := openStore(opts)
	if err != nil || st == nil {
		return err
	}
	defer st.Close()

	for i := range results {
		r := results[i].Result
		run, err := st.RecordRun(ctx, store.KindCompare, r.Title, cfg, r)
		if err != nil {
			return &ExitError{Code: ExitFailure, ErrCode: ErrCodeDatabase, Message: "failed to record run", Err: err}
		}
		results[i].RunID = run.ID
	}
	return nil
}
