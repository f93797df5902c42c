package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// Kind is the type of a recorded run.
type Kind string

const (
	KindCompare  Kind = "compare"
	KindPedestal Kind = "pedestal"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Run is one row of the run log.
type Run struct {
	Seq        int64           `json:"seq"`
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Title      string          `json:"title"`
	ConfigHash string          `json:"config_hash"`
	Config     json.RawMessage `json:"config"`
	Result     json.RawMessage `json:"result"`
}

// newRunID returns a time-ordered UUIDv7.
func newRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id.String(), nil
}

// RecordRun appends a run with the JSON encodings of cfg and result.
func (s *Store) RecordRun(ctx context.Context, kind Kind, title string, cfg, result any) (Run, error) {
	var run Run
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		run, err = insertRun(ctx, tx, kind, title, cfg, result)
		return err
	})
	return run, err
}

// RecordSweep appends a pedestal run and one sweep_points row per member.
func (s *Store) RecordSweep(ctx context.Context, title string, cfg any, sw *sweep.Sweep) (Run, error) {
	var run Run
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		run, err = insertRun(ctx, tx, KindPedestal, title, cfg, sw)
		if err != nil {
			return err
		}
		for i, p := range sw.Points {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO sweep_points
				(run_id, position, name, parameter, weighted_average, total_count)
				VALUES (?, ?, ?, ?, ?, ?)
			`, run.ID, i, p.Name, p.Parameter, p.WeightedAverage, p.TotalCount)
			if err != nil {
				return fmt.Errorf("write sweep point %d: %w", i, err)
			}
		}
		return nil
	})
	return run, err
}

func insertRun(ctx context.Context, tx *sql.Tx, kind Kind, title string, cfg, result any) (Run, error) {
	hash, cfgJSON, err := ConfigHash(cfg)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return Run{}, fmt.Errorf("write run: marshal result: %w", err)
	}
	id, err := newRunID()
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, title, config_hash, config, result)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, string(kind), title, hash, string(cfgJSON), string(resultJSON))
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	return Run{
		Seq:        seq,
		ID:         id,
		Kind:       kind,
		Title:      title,
		ConfigHash: hash,
		Config:     cfgJSON,
		Result:     resultJSON,
	}, nil
}

// inTx runs fn in a transaction, committing on success.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
