package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// ListRuns returns the recorded runs in insertion order.
// An empty kind lists every run.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, kind Kind) ([]Run, error) {
	query := `
		SELECT seq, id, kind, title, config_hash, config, result
		FROM runs
		ORDER BY seq ASC
	`
	var args []any
	if kind != "" {
		query = `
			SELECT seq, id, kind, title, config_hash, config, result
			FROM runs
			WHERE kind = ?
			ORDER BY seq ASC
		`
		args = append(args, string(kind))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with the given id, or ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, kind, title, config_hash, config, result
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// SweepPoints returns the members of a pedestal run in parameter order.
// The returned points carry no bins.
func (s *Store) SweepPoints(ctx context.Context, runID string) ([]sweep.Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, parameter, weighted_average, total_count
		FROM sweep_points
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sweep points: %w", err)
	}
	defer rows.Close()

	points := []sweep.Point{}
	for rows.Next() {
		var p sweep.Point
		if err := rows.Scan(&p.Name, &p.Parameter, &p.WeightedAverage, &p.TotalCount); err != nil {
			return nil, fmt.Errorf("scan sweep point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweep points: %w", err)
	}
	return points, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run            Run
		kind           string
		config, result string
	)
	if err := row.Scan(&run.Seq, &run.ID, &kind, &run.Title, &run.ConfigHash, &config, &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = Kind(kind)
	run.Config = []byte(config)
	run.Result = []byte(result)
	return run, nil
}
