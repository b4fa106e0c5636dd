package content

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/store"
)

// Repository is the single point of truth for one content kind. It owns
// identifier assignment and default-field population and re-validates
// every draft defensively, since it is the last line of defense against
// malformed direct calls. A mutex serializes mutations so overlapping
// callers cannot interleave id assignment or adapter writes.
type Repository[T any] struct {
	kind    Kind[T]
	adapter store.Adapter
	log     *logging.Logger

	mu        sync.Mutex
	lastStamp int64
}

// NewRepository creates a repository for one content kind
func NewRepository[T any](kind Kind[T], adapter store.Adapter, log *logging.Logger) *Repository[T] {
	return &Repository[T]{
		kind:    kind,
		adapter: adapter,
		log:     log.WithKind(kind.Name()),
	}
}

// Kind returns the tab name this repository manages
func (r *Repository[T]) Kind() string {
	return r.kind.Name()
}

// GetAll returns the current records in adapter order. Adapter failures
// degrade to an empty slice; they are logged, never propagated, so a
// read can never fail.
func (r *Repository[T]) GetAll(ctx context.Context) []T {
	rows, err := r.adapter.GetRows(ctx, r.kind.Name())
	if err != nil {
		r.log.ErrorWithErr("failed to load rows, returning empty list", err)
		return []T{}
	}

	records := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := r.kind.FromRow(row)
		if err != nil {
			r.log.ErrorWithErr("skipping malformed row", err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Add validates the draft, assigns a fresh id and creation timestamp,
// appends the canonical record to the backing store, and returns it.
func (r *Repository[T]) Add(ctx context.Context, draft T) (T, error) {
	var zero T

	rec, err := r.kind.Normalize(draft)
	if err != nil {
		return zero, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	rec = r.kind.Stamp(rec, r.nextID(now), now)

	if err := r.adapter.AppendRow(ctx, r.kind.Name(), r.kind.ToRow(rec)); err != nil {
		return zero, fmt.Errorf("failed to append %s row: %w", r.kind.Name(), err)
	}

	return rec, nil
}

// Remove deletes the record with the given id. The bool reports whether
// a record existed; removing a missing id is not an error.
func (r *Repository[T]) Remove(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existed, err := r.adapter.DeleteRow(ctx, r.kind.Name(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s row: %w", r.kind.Name(), err)
	}
	return existed, nil
}

// Update merges partial fields onto the existing record and returns the
// merged result. The id and creation timestamp cannot be overwritten.
// The bool reports whether the record existed.
func (r *Repository[T]) Update(ctx context.Context, id string, partial store.Row) (T, bool, error) {
	var zero T

	fields := partial.Clone()
	delete(fields, "id")
	delete(fields, "date_added")

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.adapter.GetRows(ctx, r.kind.Name())
	if err != nil {
		return zero, false, fmt.Errorf("failed to load %s rows: %w", r.kind.Name(), err)
	}

	var current store.Row
	for _, row := range rows {
		if row.ID() == id {
			current = row
			break
		}
	}
	if current == nil {
		return zero, false, nil
	}

	if err := r.adapter.UpdateRow(ctx, r.kind.Name(), id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to update %s row: %w", r.kind.Name(), err)
	}

	merged := current.Clone()
	for k, v := range fields {
		merged[k] = v
	}

	rec, err := r.kind.FromRow(merged)
	if err != nil {
		return zero, false, fmt.Errorf("merged %s row is malformed: %w", r.kind.Name(), err)
	}
	return rec, true, nil
}

// InitializeWithDefaults seeds the backing tab with the fixed default
// list if, and only if, it is currently empty. Safe to call repeatedly.
func (r *Repository[T]) InitializeWithDefaults(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	count, err := r.adapter.CountRows(ctx, r.kind.Name())
	if err != nil {
		return fmt.Errorf("failed to count %s rows: %w", r.kind.Name(), err)
	}
	if count > 0 {
		return nil
	}

	for _, rec := range r.kind.Defaults() {
		if err := r.adapter.AppendRow(ctx, r.kind.Name(), r.kind.ToRow(rec)); err != nil {
			return fmt.Errorf("failed to seed %s row: %w", r.kind.Name(), err)
		}
	}

	r.log.Infof("seeded %d default %s", len(r.kind.Defaults()), r.kind.Name())
	return nil
}

// nextID builds a timestamp-derived id, nudged forward when two adds
// land on the same millisecond so ids stay unique and monotonic.
// Callers must hold r.mu.
func (r *Repository[T]) nextID(now time.Time) string {
	stamp := now.UnixMilli()
	if stamp <= r.lastStamp {
		stamp = r.lastStamp + 1
	}
	r.lastStamp = stamp

	return r.kind.IDPrefix() + strconv.FormatInt(stamp, 10)
}
