/*
memory.go - In-memory run archive

The reference RunStore implementation: a mutex-guarded slice, newest
first on List. Used by tests and by the CLI, which has no reason to
persist anything.
*/
package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is a thread-safe in-memory RunStore.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]RunRecord
}

// NewMemory creates an empty in-memory archive.
func NewMemory() *Memory {
	return &Memory{runs: make(map[string]RunRecord)}
}

// Save archives one run. Saving the same ID twice overwrites.
func (m *Memory) Save(_ context.Context, rec RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[rec.ID] = rec
	return nil
}

// Get retrieves one run by ID.
func (m *Memory) Get(_ context.Context, id string) (RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.runs[id]
	if !ok {
		return RunRecord{}, ErrNotFound
	}
	return rec, nil
}

// List returns all runs, newest first.
func (m *Memory) List(_ context.Context) ([]RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RunRecord, 0, len(m.runs))
	for _, rec := range m.runs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Close is a no-op for the in-memory archive.
func (m *Memory) Close() error { return nil }
