// Package liststore implements an in-memory ordered entity list with
// optimistic mutations and background reconciliation against an
// authoritative remote source. A mutation is reflected locally before (or
// while) the remote call runs, and a later reconcile converges the list to
// server truth. The store never holds two entities with the same id.
package liststore

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entity is anything with a server-assigned opaque id.
type Entity interface {
	EntityID() string
}

// ErrNotFound is returned when a mutation targets an id absent from the store.
var ErrNotFound = errors.New("liststore: entity not found")

// Observer receives store events, typically for metrics.
type Observer interface {
	OptimisticApplied(op string)
	OptimisticReverted(op string)
	Reconciled(merged, preserved int)
}

// Options tune store behaviour.
type Options[T Entity] struct {
	// Less, when set, keeps the list sorted under this rule after every
	// change. When nil, creates prepend and reconciles keep server order.
	Less func(a, b T) bool
	// FreshnessWindow bounds how long a locally created entity survives
	// reconcile passes that do not yet return it.
	FreshnessWindow time.Duration
	Logger          *zap.Logger
	Observer        Observer

	// now is a test seam.
	now func() time.Time
}

// Store is the list store. Safe for concurrent use.
type Store[T Entity] struct {
	mu      sync.Mutex
	items   []T
	pending map[string]time.Time
	gens    map[string]uint64
	loaded  bool

	less     func(a, b T) bool
	window   time.Duration
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

// New constructs a store.
func New[T Entity](opts Options[T]) *Store[T] {
	if opts.FreshnessWindow <= 0 {
		opts.FreshnessWindow = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	return &Store[T]{
		pending:  make(map[string]time.Time),
		gens:     make(map[string]uint64),
		less:     opts.Less,
		window:   opts.FreshnessWindow,
		logger:   opts.Logger,
		observer: opts.Observer,
		now:      opts.now,
	}
}

// Snapshot returns a copy of the current list.
func (s *Store[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the entity with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of entities held.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Loaded reports whether an initial authoritative fetch has completed.
func (s *Store[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Create runs the remote create and, on success, inserts the
// server-confirmed entity unless a reconcile fetch has already raced it into
// the list. The inserted entity is tracked as pending so reconcile passes
// that do not yet return it keep it alive within the freshness window.
func (s *Store[T]) Create(ctx context.Context, mutate func(context.Context) (T, error)) (T, error) {
	created, err := mutate(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := created.EntityID()
	if s.indexOf(id) >= 0 {
		// A reconcile got here first; the store already holds server truth.
		return created, nil
	}
	s.items = append([]T{created}, s.items...)
	s.resortLocked()
	s.pending[id] = s.now()
	s.observed(func(o Observer) { o.OptimisticApplied("create") })
	return created, nil
}

// Delete removes the entity immediately, then runs the remote delete. On
// remote failure the entity is restored at its original position and the
// error returned.
func (s *Store[T]) Delete(ctx context.Context, id string, mutate func(context.Context) error) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.gens[id]++
	s.observed(func(o Observer) { o.OptimisticApplied("delete") })
	s.mu.Unlock()

	if err := mutate(ctx); err != nil {
		s.mu.Lock()
		if s.indexOf(id) < 0 {
			pos := idx
			if pos > len(s.items) {
				pos = len(s.items)
			}
			s.items = append(s.items[:pos], append([]T{removed}, s.items[pos:]...)...)
			s.resortLocked()
		}
		s.observed(func(o Observer) { o.OptimisticReverted("delete") })
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
	return nil
}

// Patch applies the desired change locally, then runs the remote mutation
// with the updated entity. On success the local value stays authoritative:
// the server's response body is compared for logging but never written back,
// since observed backends can return a stale payload right after a write.
// On failure the prior value is restored unless a newer mutation on the same
// entity has superseded this one (tracked by a per-entity generation
// counter, which also discards stale in-flight outcomes).
func (s *Store[T]) Patch(ctx context.Context, id string, apply func(*T), mutate func(context.Context, T) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return zero, ErrNotFound
	}
	prior := s.items[idx]
	apply(&s.items[idx])
	desired := s.items[idx]
	s.gens[id]++
	gen := s.gens[id]
	s.resortLocked()
	s.observed(func(o Observer) { o.OptimisticApplied("patch") })
	s.mu.Unlock()

	echoed, err := mutate(ctx, desired)
	if err != nil {
		s.mu.Lock()
		if s.gens[id] == gen {
			if i := s.indexOf(id); i >= 0 {
				s.items[i] = prior
				s.resortLocked()
			}
		}
		s.observed(func(o Observer) { o.OptimisticReverted("patch") })
		s.mu.Unlock()
		return zero, err
	}

	if !reflect.DeepEqual(echoed, desired) {
		s.logger.Debug("upstream echo lags local state, keeping local value",
			zap.String("id", id))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return desired, nil
}

// Reconcile fetches the authoritative list and merges it in. Server rows
// replace entries with matching ids and set the order; local-only entries
// are preserved only while they are pending creates inside the freshness
// window. A non-initial fetch that comes back empty while the store is
// populated is treated as transient and ignored; an initial one empties the
// store.
func (s *Store[T]) Reconcile(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	rows, err := fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && len(rows) == 0 && len(s.items) > 0 {
		s.logger.Debug("reconcile returned empty list, keeping local entries",
			zap.Int("local", len(s.items)))
		s.observed(func(o Observer) { o.Reconciled(0, 0) })
		return nil
	}

	merged := make([]T, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		id := row.EntityID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, row)
		delete(s.pending, id)
	}

	// Pending creates are preserved on the initial load too: a create can
	// land on a never-loaded view, and the first scheduled pass must not
	// drop it while the backend index lags.
	preserved := 0
	cutoff := s.now().Add(-s.window)
	for _, item := range s.items {
		id := item.EntityID()
		if _, ok := seen[id]; ok {
			continue
		}
		enqueued, pending := s.pending[id]
		if pending && enqueued.After(cutoff) {
			merged = append(merged, item)
			seen[id] = struct{}{}
			preserved++
			continue
		}
		delete(s.pending, id)
	}

	s.items = merged
	s.loaded = true
	s.resortLocked()
	s.observed(func(o Observer) { o.Reconciled(len(merged)-preserved, preserved) })
	return nil
}

func (s *Store[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) resortLocked() {
	if s.less == nil {
		return
	}
	sort.SliceStable(s.items, func(i, j int) bool { return s.less(s.items[i], s.items[j]) })
}

func (s *Store[T]) observed(fn func(Observer)) {
	if s.observer != nil {
		fn(s.observer)
	}
}
