package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the PRAGMA user_version of a run log written by this
// package. A database at version 0 is empty and gets schema.sql.
const schemaVersion = 1

// runLogTables must all exist in an opened run log.
var runLogTables = []string{"runs", "sweep_points"}

// connPragmas are applied to every connection.
var connPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

var (
	// ErrSchemaVersion is returned by Open for a run log written by a
	// different schema version.
	ErrSchemaVersion = errors.New("unsupported run log version")

	// ErrNotRunLog is returned by Open for a database that claims the
	// current version but lacks the run log tables.
	ErrNotRunLog = errors.New("not a run log")
)

// Store is the run log: one row per compare or pedestal run, plus the
// per-dataset points of pedestal sweeps.
type Store struct {
	db *sql.DB
}

// Open opens the run log at path, creating it when the file is new.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	// One writer at a time; a single connection keeps the pragmas in force.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.init(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	for _, p := range connPragmas {
		if _, err := s.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	version, err := s.userVersion(ctx)
	if err != nil {
		return err
	}
	switch version {
	case 0:
		err = s.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
			return err
		})
		if err != nil {
			return err
		}
	case schemaVersion:
	default:
		return fmt.Errorf("%w: %d (want %d)", ErrSchemaVersion, version, schemaVersion)
	}
	return s.checkTables(ctx)
}

func (s *Store) userVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}

func (s *Store) checkTables(ctx context.Context) error {
	for _, name := range runLogTables {
		var found string
		err := s.db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: missing table %s", ErrNotRunLog, name)
		}
		if err != nil {
			return fmt.Errorf("check table %s: %w", name, err)
		}
	}
	return nil
}

// pragma returns the current value of a pragma as text.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("pragma %s: %w", name, err)
	}
	return value, nil
}
