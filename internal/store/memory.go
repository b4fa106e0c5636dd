package store

import (
	"context"
	"sync"
)

// Memory is an in-process adapter backed by per-tab slices.
// It is the default backend: authoritative for the process lifetime and
// non-durable across restarts.
type Memory struct {
	mu   sync.RWMutex
	tabs map[string][]Row
}

// NewMemory creates an empty in-memory adapter
func NewMemory() *Memory {
	return &Memory{
		tabs: make(map[string][]Row),
	}
}

// GetRows returns all rows in a tab in insertion order
func (m *Memory) GetRows(ctx context.Context, kind string) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.tabs[kind]
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Clone())
	}
	return out, nil
}

// AppendRow appends a row to a tab
func (m *Memory) AppendRow(ctx context.Context, kind string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tabs[kind] = append(m.tabs[kind], row.Clone())
	return nil
}

// UpdateRow merges fields onto the row with the given id
func (m *Memory) UpdateRow(ctx context.Context, kind, id string, fields Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, row := range m.tabs[kind] {
		if row.ID() == id {
			merged := row.Clone()
			for k, v := range fields {
				merged[k] = v
			}
			m.tabs[kind][i] = merged
			return nil
		}
	}
	return ErrNotFound
}

// DeleteRow removes the row with the given id
func (m *Memory) DeleteRow(ctx context.Context, kind, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tabs[kind]
	for i, row := range rows {
		if row.ID() == id {
			m.tabs[kind] = append(rows[:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// CountRows returns the number of rows in a tab
func (m *Memory) CountRows(ctx context.Context, kind string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.tabs[kind]), nil
}
