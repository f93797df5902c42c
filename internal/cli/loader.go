package cli

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dagewa/wedged-lamellae/internal/config"
	"github.com/dagewa/wedged-lamellae/internal/series"
	"github.com/dagewa/wedged-lamellae/internal/source"
	"github.com/dagewa/wedged-lamellae/internal/store"
	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// loadConfig resolves the effective configuration: defaults, then the
// --config file, then flags.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeConfig, Message: "failed to load config", Err: err}
		}
	}
	if opts.Strict {
		cfg.StrictSymmetry = true
	}
	return cfg, nil
}

// loadPair reads both reflection tables concurrently.
func loadPair(ctx context.Context, cfg *config.Config, path1, path2 string) (*series.Dataset, *series.Dataset, error) {
	byPath, err := loadDatasets(ctx, cfg, []string{path1, path2})
	if err != nil {
		return nil, nil, err
	}
	return byPath[path1], byPath[path2], nil
}

// loadDatasets reads every reflection table, at most cfg.Workers at a
// time, keyed by path.
func loadDatasets(ctx context.Context, cfg *config.Config, paths []string) (map[string]*series.Dataset, error) {
	loaded := make([]*series.Dataset, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := source.LoadReflections(path, cfg.ReflectionOptions())
			if err != nil {
				return err
			}
			loaded[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byPath := make(map[string]*series.Dataset, len(paths))
	for i, path := range paths {
		byPath[path] = loaded[i]
	}
	return byPath, nil
}

// loadSweep reads the bin table of every directory, at most cfg.Workers
// at a time. The result is in argument order.
func loadSweep(ctx context.Context, cfg *config.Config, dirs []string, log *slog.Logger) ([]sweep.Dataset, error) {
	out := make([]sweep.Dataset, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := source.LoadSweepDataset(dir, cfg.BinTableOptions())
			if err != nil {
				return err
			}
			log.Debug("loaded bin table", "dir", dir, "parameter", d.Parameter, "bins", len(d.Bins))
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// openStore opens the run log named by --db. It returns nil when no
// database was requested.
func openStore(opts *RootOptions) (*store.Store, error) {
	if opts.Database == "" {
		return nil, nil
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, &ExitError{
			Code:    ExitCommandError,
			ErrCode: ErrCodeDatabase,
			Message: fmt.Sprintf("failed to open database %s", opts.Database),
			Err:     err,
		}
	}
	return st, nil
}
