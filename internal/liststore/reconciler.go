package liststore

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/pkg/retry"
)

// Reconciler drives scheduled reconcile passes for one store. Mutation paths
// call Kick after a successful remote write to absorb backend
// eventual-consistency lag; the passes themselves are silent, failures are
// logged and tolerated.
type Reconciler[T Entity] struct {
	store    *Store[T]
	fetch    func(context.Context) ([]T, error)
	schedule retry.Schedule
	logger   *zap.Logger
}

// NewReconciler builds a reconciler around the store and its authoritative
// fetch.
func NewReconciler[T Entity](store *Store[T], fetch func(context.Context) ([]T, error), schedule retry.Schedule, logger *zap.Logger) *Reconciler[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler[T]{store: store, fetch: fetch, schedule: schedule, logger: logger}
}

// Now runs a single reconcile pass synchronously.
func (r *Reconciler[T]) Now(ctx context.Context) error {
	return r.store.Reconcile(ctx, r.fetch)
}

// Kick runs the full delay schedule in the background. The context should be
// the owning service's lifecycle context, not a request context, so passes
// survive the originating request but stop at shutdown.
func (r *Reconciler[T]) Kick(ctx context.Context) {
	go func() {
		err := r.schedule.RunAll(ctx, func(ctx context.Context, attempt int) error {
			if err := r.store.Reconcile(ctx, r.fetch); err != nil {
				r.logger.Debug("reconcile pass failed",
					zap.Int("attempt", attempt), zap.Error(err))
				return err
			}
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn("reconcile schedule exhausted", zap.Error(err))
		}
	}()
}
