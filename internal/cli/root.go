package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	OutDir     string
	Database   string
	Strict     bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the wedged CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wedged",
		Short: "Compare diffraction datasets and aggregate pedestal sweeps",
		Long: `wedged compares the intensities of reflections shared by two datasets
and aggregates CC½ across datasets processed with different pedestal values.

Plots are written as PNG files named after the run title.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return &ExitError{
					Code:    ExitCommandError,
					ErrCode: ErrCodeArguments,
					Message: fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats),
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.OutDir, "out-dir", ".", "directory for plot files")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "SQLite run log (runs are not recorded when empty)")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "require matching space group and unit cell")

	cmd.AddCommand(NewCompareCommand(opts, modeCompare))
	cmd.AddCommand(NewCompareCommand(opts, modeDiff))
	cmd.AddCommand(NewCompareCommand(opts, modeQQ))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewPedestalCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// logger writes text logs to w: debug level with --verbose, info otherwise.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// argsBetween wraps cobra's argument count check so that a wrong count
// exits with ExitCommandError.
func argsBetween(lo, hi int) cobra.PositionalArgs {
	check := cobra.RangeArgs(lo, hi)
	if hi < 0 {
		check = cobra.MinimumNArgs(lo)
	}
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &ExitError{
				Code:    ExitCommandError,
				ErrCode: ErrCodeArguments,
				Message: fmt.Sprintf("usage: %s", cmd.UseLine()),
				Err:     err,
			}
		}
		return nil
	}
}
