package content

import (
	"context"
	"sync"

	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/metrics"
	"github.com/apaaranddhruv/satsang/internal/store"
)

// Subscriber receives the full record list after every mutation
type Subscriber[T any] func(records []T)

// Library is the process-wide cache between the repository and the
// display surfaces. It lives for the process lifetime: Init loads once,
// mutations go through the repository first, and the cached list is only
// touched after the repository call succeeds. The newest record is
// always at position zero regardless of adapter ordering; remove and
// update never change the relative order of remaining records.
type Library[T any] struct {
	repo *Repository[T]
	log  *logging.Logger

	mu      sync.RWMutex
	records []T
	ready   bool

	subMu   sync.Mutex
	subs    map[int]Subscriber[T]
	nextSub int
}

// NewLibrary creates a library over the given repository.
// Call Init before serving reads.
func NewLibrary[T any](repo *Repository[T], log *logging.Logger) *Library[T] {
	return &Library[T]{
		repo: repo,
		log:  log.WithKind(repo.Kind()),
		subs: make(map[int]Subscriber[T]),
	}
}

// Init seeds the backing store if empty and loads the cache. A load or
// seed failure leaves the library ready with an empty list; the error is
// logged, not surfaced, so display surfaces always have something to
// render.
func (l *Library[T]) Init(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ready {
		return
	}

	if err := l.repo.InitializeWithDefaults(ctx); err != nil {
		l.log.ErrorWithErr("failed to seed defaults", err)
	}

	l.records = l.repo.GetAll(ctx)
	l.ready = true

	l.log.Infof("library ready with %d records", len(l.records))
}

// Ready reports whether Init has completed
func (l *Library[T]) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ready
}

// Records returns a snapshot of the cached list. Callers must treat the
// slice as read-only.
func (l *Library[T]) Records() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, len(l.records))
	copy(out, l.records)
	return out
}

// Add validates and persists the draft, then prepends the canonical
// record so the most recently added content is always first. On failure
// the cached list is unchanged.
func (l *Library[T]) Add(ctx context.Context, draft T) (T, error) {
	rec, err := l.repo.Add(ctx, draft)
	if err != nil {
		metrics.RecordContentAdd(l.repo.Kind(), "error")
		l.log.ErrorWithErr("add failed, cache unchanged", err)
		var zero T
		return zero, err
	}

	l.mu.Lock()
	l.records = append([]T{rec}, l.records...)
	l.mu.Unlock()

	metrics.RecordContentAdd(l.repo.Kind(), "ok")
	l.log.LogContentEvent(l.repo.Kind(), "added", l.repo.kind.ID(rec))
	l.notify()

	return rec, nil
}

// Remove deletes the record with the given id from the backing store
// and, when it existed, filters it out of the cache.
func (l *Library[T]) Remove(ctx context.Context, id string) (bool, error) {
	existed, err := l.repo.Remove(ctx, id)
	if err != nil {
		l.log.ErrorWithErr("remove failed, cache unchanged", err)
		return false, err
	}
	if !existed {
		return false, nil
	}

	l.mu.Lock()
	filtered := l.records[:0:0]
	for _, rec := range l.records {
		if l.repo.kind.ID(rec) != id {
			filtered = append(filtered, rec)
		}
	}
	l.records = filtered
	l.mu.Unlock()

	l.log.LogContentEvent(l.repo.Kind(), "removed", id)
	l.notify()

	return true, nil
}

// Update merges partial fields onto the record with the given id and
// replaces the cached element in place, preserving its position.
func (l *Library[T]) Update(ctx context.Context, id string, partial store.Row) (T, bool, error) {
	var zero T

	rec, found, err := l.repo.Update(ctx, id, partial)
	if err != nil {
		l.log.ErrorWithErr("update failed, cache unchanged", err)
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}

	l.mu.Lock()
	for i := range l.records {
		if l.repo.kind.ID(l.records[i]) == id {
			l.records[i] = rec
			break
		}
	}
	l.mu.Unlock()

	l.log.LogContentEvent(l.repo.Kind(), "updated", id)
	l.notify()

	return rec, true, nil
}

// Subscribe registers a callback invoked with the full list after every
// mutation. The returned function unsubscribes.
func (l *Library[T]) Subscribe(fn Subscriber[T]) func() {
	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.subMu.Unlock()

	return func() {
		l.subMu.Lock()
		delete(l.subs, id)
		l.subMu.Unlock()
	}
}

func (l *Library[T]) notify() {
	snapshot := l.Records()

	l.subMu.Lock()
	subs := make([]Subscriber[T], 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.subMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
