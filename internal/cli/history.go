package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagewa/wedged-lamellae/internal/store"
	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Kind  string
	RunID string
}

// HistoryOutput is the result of the history command. Points is set
// only when a single pedestal run is shown.
type HistoryOutput struct {
	Runs   []store.Run   `json:"runs"`
	Points []sweep.Point `json:"points,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded in the run log",
		Long: `List the runs recorded with --db in the order they were made.

Example:
  wedged history --db runs.db
  wedged history --db runs.db --kind pedestal
  wedged history --db runs.db --run 01890a5d-ac96-774b-bcce-b302099a8057`,
		Args:          argsBetween(0, 0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only list runs of this kind (compare|pedestal)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run and its sweep points")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	if opts.Database == "" {
		return fail(f, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeArguments, Message: "history requires --db"})
	}
	switch store.Kind(opts.Kind) {
	case "", store.KindCompare, store.KindPedestal:
	default:
		return fail(f, &ExitError{
			Code:    ExitCommandError,
			ErrCode: ErrCodeArguments,
			Message: fmt.Sprintf("invalid kind %q: must be compare or pedestal", opts.Kind),
		})
	}

	if _, err := os.Stat(opts.Database); err != nil {
		return fail(f, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeNotFound, Message: "database not found", Err: err})
	}
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return fail(f, err)
	}
	defer st.Close()

	var out HistoryOutput
	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			return fail(f, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeNotFound, Message: "run not found", Err: err})
		}
		out.Runs = []store.Run{run}
		if run.Kind == store.KindPedestal {
			if out.Points, err = st.SweepPoints(ctx, run.ID); err != nil {
				return fail(f, &ExitError{Code: ExitFailure, ErrCode: ErrCodeDatabase, Message: "failed to read sweep", Err: err})
			}
		}
	} else {
		if out.Runs, err = st.ListRuns(ctx, store.Kind(opts.Kind)); err != nil {
			return fail(f, &ExitError{Code: ExitFailure, ErrCode: ErrCodeDatabase, Message: "failed to list runs", Err: err})
		}
	}

	return f.Success(out, func(w io.Writer) error {
		return writeHistory(w, out)
	})
}

func writeHistory(w io.Writer, out HistoryOutput) error {
	if len(out.Runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}
	for _, r := range out.Runs {
		if _, err := fmt.Fprintf(w, "%4d  %s  %-8s  %s  config %s\n", r.Seq, r.ID, r.Kind, r.Title, shortHash(r.ConfigHash)); err != nil {
			return err
		}
	}
	for _, p := range out.Points {
		if _, err := fmt.Fprintf(w, "      %s\n", p); err != nil {
			return err
		}
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
