package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dagewa/wedged-lamellae/internal/engine"
	"github.com/dagewa/wedged-lamellae/internal/report"
	"github.com/dagewa/wedged-lamellae/internal/store"
	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// PedestalOutput is the result of the pedestal command.
type PedestalOutput struct {
	Title     string       `json:"title"`
	Sweep     *sweep.Sweep `json:"sweep"`
	Artifacts []string     `json:"artifacts"`
	RunID     string       `json:"run_id,omitempty"`
}

// NewPedestalCommand creates the pedestal command.
func NewPedestalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pedestal <title> <dir> [dir...]",
		Short: "Aggregate CC½ across datasets processed with different pedestals",
		Long: `Aggregate CC½ across a pedestal sweep.

Each directory holds the scaling report (scale.json) of one dataset. The
pedestal is the last '_'-separated token of the directory name, so
"job_-10" has pedestal -10. Each dataset is reduced to its N(obs)-weighted
average CC½ and the sweep is plotted in pedestal order.

Example:
  wedged pedestal sweep1 scale_0 scale_-10 scale_-20
  wedged pedestal sweep1 runs/* --db runs.db`,
		Args:          argsBetween(2, -1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPedestal(cmd, rootOpts, args[0], args[1:])
		},
	}
	return cmd
}

func runPedestal(cmd *cobra.Command, opts *RootOptions, title string, dirs []string) error {
	f := opts.formatter(cmd)
	log := opts.logger(cmd.ErrOrStderr())
	ctx := cmd.Context()

	cfg, err := loadConfig(opts)
	if err != nil {
		return fail(f, err)
	}

	datasets, err := loadSweep(ctx, cfg, dirs, log)
	if err != nil {
		return fail(f, err)
	}
	f.VerboseLog("loaded %d bin tables", len(datasets))

	sw, err := engine.AggregateSweep(title, datasets, engine.Options{Logger: log})
	if err != nil {
		return fail(f, err)
	}

	if err := ensureOutDir(opts); err != nil {
		return fail(f, err)
	}
	path, err := newSink(opts, cfg).SweepPlot(title, sw)
	if err != nil {
		return fail(f, writeFailed(err))
	}

	out := PedestalOutput{Title: title, Sweep: sw, Artifacts: []string{path}}
	if out.RunID, err = recordRun(opts, func(st *store.Store) (store.Run, error) {
		return st.RecordSweep(ctx, title, cfg, sw)
	}); err != nil {
		return fail(f, err)
	}

	return f.Success(out, func(w io.Writer) error {
		if err := report.WriteSweep(w, title, sw); err != nil {
			return err
		}
		return writeArtifacts(w, out.Artifacts, out.RunID)
	})
}
