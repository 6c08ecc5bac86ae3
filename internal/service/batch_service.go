package service

import (
	"context"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/internal/liststore"
	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	"github.com/belalwws/noor-academy-sub008/pkg/config"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/retry"
)

type batchAPI interface {
	List(ctx context.Context, filters url.Values) (upstream.List[models.Batch], error)
	Create(ctx context.Context, payload interface{}) (models.Batch, error)
	Delete(ctx context.Context, id string) error
}

// BatchService mirrors the batches of each course and applies create and
// delete actions optimistically.
type BatchService struct {
	api       batchAPI
	views     *syncViews[models.Batch]
	validator *validator.Validate
	logger    *zap.Logger

	bg context.Context
}

// NewBatchService constructs the service.
func NewBatchService(api batchAPI, validate *validator.Validate, cfg config.ReconcileConfig, metrics *MetricsService, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schedule := retry.NewSchedule(cfg.Delays...)
	svc := &BatchService{api: api, validator: validate, logger: logger, bg: context.Background()}
	svc.views = newSyncViews(func(courseID string) *syncView[models.Batch] {
		store := liststore.New(liststore.Options[models.Batch]{
			Less:            func(a, b models.Batch) bool { return a.CreatedAt.After(b.CreatedAt) },
			FreshnessWindow: cfg.FreshnessWindow,
			Logger:          logger,
			Observer:        metrics,
		})
		fetch := func(ctx context.Context) ([]models.Batch, error) {
			filters := url.Values{}
			filters.Set("course", courseID)
			filters.Set("ordering", "-created_at")
			list, err := api.List(ctx, filters)
			if err != nil {
				return nil, err
			}
			return list.Results, nil
		}
		return &syncView[models.Batch]{
			store:      store,
			reconciler: liststore.NewReconciler(store, fetch, schedule, logger),
		}
	})
	return svc
}

// Start binds the lifecycle context used for background reconciliation.
func (s *BatchService) Start(ctx context.Context) {
	s.bg = ctx
}

// CreateBatchRequest describes the create payload.
type CreateBatchRequest struct {
	CourseID string     `json:"course" validate:"required"`
	Name     string     `json:"name" validate:"required"`
	Type     string     `json:"type" validate:"required,oneof=group private"`
	Capacity int        `json:"capacity" validate:"gte=0"`
	StartsAt *time.Time `json:"starts_at"`
}

// List returns the mirrored batches for a course, loading the view on first
// use.
func (s *BatchService) List(ctx context.Context, courseID string) ([]models.Batch, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	view := s.views.get(courseID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

// Create registers a batch upstream, inserts the confirmed row, and kicks
// the reconcile schedule to absorb backend indexing lag.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	view := s.views.get(req.CourseID)
	created, err := view.store.Create(ctx, func(ctx context.Context) (models.Batch, error) {
		return s.api.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	view.reconciler.Kick(s.bg)
	return &created, nil
}

// Delete removes a batch optimistically. The store restores it when the
// upstream delete fails.
func (s *BatchService) Delete(ctx context.Context, courseID, id string) error {
	view := s.views.get(courseID)
	if err := view.ensureLoaded(ctx); err != nil {
		return err
	}
	err := view.store.Delete(ctx, id, func(ctx context.Context) error {
		return s.api.Delete(ctx, id)
	})
	if err != nil {
		return mapStoreErr(err, "batch")
	}
	view.reconciler.Kick(s.bg)
	return nil
}

// Reconcile forces a synchronous authoritative refresh of one course view.
func (s *BatchService) Reconcile(ctx context.Context, courseID string) ([]models.Batch, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	view := s.views.get(courseID)
	if err := view.reconciler.Now(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}
