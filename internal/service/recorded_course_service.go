package service

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/internal/liststore"
	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	"github.com/belalwws/noor-academy-sub008/pkg/config"
	"github.com/belalwws/noor-academy-sub008/pkg/retry"
)

type recordedCourseAPI interface {
	List(ctx context.Context, filters url.Values) (upstream.List[models.RecordedCourse], error)
	Patch(ctx context.Context, id string, payload interface{}) (models.RecordedCourse, error)
	Delete(ctx context.Context, id string) error
}

// RecordedCourseService mirrors the on-demand library per course.
type RecordedCourseService struct {
	api    recordedCourseAPI
	views  *syncViews[models.RecordedCourse]
	logger *zap.Logger

	bg context.Context
}

// NewRecordedCourseService constructs the service.
func NewRecordedCourseService(api recordedCourseAPI, cfg config.ReconcileConfig, metrics *MetricsService, logger *zap.Logger) *RecordedCourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	schedule := retry.NewSchedule(cfg.Delays...)
	svc := &RecordedCourseService{api: api, logger: logger, bg: context.Background()}
	svc.views = newSyncViews(func(courseID string) *syncView[models.RecordedCourse] {
		store := liststore.New(liststore.Options[models.RecordedCourse]{
			Less:            func(a, b models.RecordedCourse) bool { return a.CreatedAt.After(b.CreatedAt) },
			FreshnessWindow: cfg.FreshnessWindow,
			Logger:          logger,
			Observer:        metrics,
		})
		fetch := func(ctx context.Context) ([]models.RecordedCourse, error) {
			filters := url.Values{}
			if courseID != "" {
				filters.Set("course", courseID)
			}
			filters.Set("ordering", "-created_at")
			list, err := api.List(ctx, filters)
			if err != nil {
				return nil, err
			}
			return list.Results, nil
		}
		return &syncView[models.RecordedCourse]{
			store:      store,
			reconciler: liststore.NewReconciler(store, fetch, schedule, logger),
		}
	})
	return svc
}

// Start binds the lifecycle context used for background reconciliation.
func (s *RecordedCourseService) Start(ctx context.Context) {
	s.bg = ctx
}

// List returns the mirrored library entries ("" = whole library).
func (s *RecordedCourseService) List(ctx context.Context, courseID string) ([]models.RecordedCourse, error) {
	view := s.views.get(courseID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

// SetHidden toggles library visibility with local-trust semantics.
func (s *RecordedCourseService) SetHidden(ctx context.Context, courseID, id string, hidden bool) (*models.RecordedCourse, error) {
	view := s.views.get(courseID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	updated, err := view.store.Patch(ctx, id,
		func(r *models.RecordedCourse) { r.IsHidden = hidden },
		func(ctx context.Context, _ models.RecordedCourse) (models.RecordedCourse, error) {
			return s.api.Patch(ctx, id, map[string]bool{"is_hidden": hidden})
		})
	if err != nil {
		return nil, mapStoreErr(err, "recorded course")
	}
	return &updated, nil
}

// Delete removes a library entry optimistically.
func (s *RecordedCourseService) Delete(ctx context.Context, courseID, id string) error {
	view := s.views.get(courseID)
	if err := view.ensureLoaded(ctx); err != nil {
		return err
	}
	err := view.store.Delete(ctx, id, func(ctx context.Context) error {
		return s.api.Delete(ctx, id)
	})
	if err != nil {
		return mapStoreErr(err, "recorded course")
	}
	view.reconciler.Kick(s.bg)
	return nil
}

// Reconcile forces a synchronous authoritative refresh.
func (s *RecordedCourseService) Reconcile(ctx context.Context, courseID string) ([]models.RecordedCourse, error) {
	view := s.views.get(courseID)
	if err := view.reconciler.Now(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}
