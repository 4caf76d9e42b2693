/*
Package store archives simulation run results.

PURPOSE:
  Keeps a history of experiments: which instance, which planner, what
  the run produced. The simulation core itself is purely in-memory;
  this archive is an outer collaborator for comparing planner runs
  over time.

IMPLEMENTATIONS:
  - Memory: for tests and the CLI
  - sqlite:  durable archive for the server (store/sqlite)
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound - no run record with the requested ID.
var ErrNotFound = errors.New("run not found")

// RunRecord is one archived simulation run.
type RunRecord struct {
	ID        string
	CreatedAt time.Time

	Instance string
	Planner  string
	Orders   int
	Horizon  int64
	Shortcut bool

	FinalTime      int64
	RemainingSteps int
	Income         decimal.Decimal
}

// RunStore archives and retrieves run records.
type RunStore interface {
	// Save archives one run.
	Save(ctx context.Context, rec RunRecord) error
	// Get retrieves one run by ID; ErrNotFound if absent.
	Get(ctx context.Context, id string) (RunRecord, error)
	// List returns all runs, newest first.
	List(ctx context.Context) ([]RunRecord, error)
	// Close releases underlying resources.
	Close() error
}
