/*
Package sqlite provides the SQLite-backed run archive.

PURPOSE:
  Implements store.RunStore on SQLite so the server keeps experiment
  history across restarts. One table, append-mostly; run records are
  written once per simulation and only ever read back.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so listing runs
  never blocks a simulation writing its result.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/store.go: interface definition
  - store/memory.go: in-memory implementation for tests and the CLI
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/logistics-engine/store"
)

// Store implements store.RunStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite-backed run archive at the given path. Use
// ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		instance TEXT NOT NULL,
		planner TEXT NOT NULL,
		orders INTEGER NOT NULL,
		horizon INTEGER NOT NULL,
		shortcut INTEGER NOT NULL,
		final_time INTEGER NOT NULL,
		remaining_steps INTEGER NOT NULL,
		income TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_instance_planner
		ON runs(instance, planner);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save archives one run.
func (s *Store) Save(ctx context.Context, rec store.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, created_at, instance, planner, orders, horizon, shortcut,
			 final_time, remaining_steps, income)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.Instance,
		rec.Planner,
		rec.Orders,
		rec.Horizon,
		boolToInt(rec.Shortcut),
		rec.FinalTime,
		rec.RemainingSteps,
		rec.Income.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Get retrieves one run by ID.
func (s *Store) Get(ctx context.Context, id string) (store.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, instance, planner, orders, horizon, shortcut,
		       final_time, remaining_steps, income
		FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return store.RunRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.RunRecord{}, fmt.Errorf("failed to get run: %w", err)
	}
	return rec, nil
}

// List returns all runs, newest first.
func (s *Store) List(ctx context.Context) ([]store.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, instance, planner, orders, horizon, shortcut,
		       final_time, remaining_steps, income
		FROM runs ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []store.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRun(scan func(dest ...any) error) (store.RunRecord, error) {
	var rec store.RunRecord
	var createdAt, income string
	var shortcut int
	if err := scan(
		&rec.ID, &createdAt, &rec.Instance, &rec.Planner, &rec.Orders,
		&rec.Horizon, &shortcut, &rec.FinalTime, &rec.RemainingSteps, &income,
	); err != nil {
		return store.RunRecord{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.RunRecord{}, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = t
	d, err := decimal.NewFromString(income)
	if err != nil {
		return store.RunRecord{}, fmt.Errorf("bad income %q: %w", income, err)
	}
	rec.Income = d
	rec.Shortcut = shortcut != 0
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
