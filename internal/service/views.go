package service

import (
	"context"
	"sync"

	"github.com/belalwws/noor-academy-sub008/internal/liststore"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

// syncView pairs one list store with its reconciler. Each UI view (a course's
// batches, a group's notes, a forum's topics) gets its own pair, mirroring
// the component-local state the pattern came from.
type syncView[T liststore.Entity] struct {
	store      *liststore.Store[T]
	reconciler *liststore.Reconciler[T]
}

// ensureLoaded performs the initial authoritative fetch exactly when the
// view has never loaded. Initial-load failures surface to the caller;
// later reconciles are background noise.
func (v *syncView[T]) ensureLoaded(ctx context.Context) error {
	if v.store.Loaded() {
		return nil
	}
	return v.reconciler.Now(ctx)
}

// syncViews lazily builds one syncView per view key.
type syncViews[T liststore.Entity] struct {
	mu    sync.Mutex
	views map[string]*syncView[T]
	build func(key string) *syncView[T]
}

func newSyncViews[T liststore.Entity](build func(key string) *syncView[T]) *syncViews[T] {
	return &syncViews[T]{views: make(map[string]*syncView[T]), build: build}
}

func (s *syncViews[T]) get(key string) *syncView[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.views[key]; ok {
		return v
	}
	v := s.build(key)
	s.views[key] = v
	return v
}

// mapStoreErr converts liststore sentinel errors to the shared taxonomy.
func mapStoreErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if err == liststore.ErrNotFound {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return err
}
