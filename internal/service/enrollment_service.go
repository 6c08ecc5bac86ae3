package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/internal/liststore"
	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	"github.com/belalwws/noor-academy-sub008/pkg/config"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/retry"
)

type enrollmentAPI interface {
	List(ctx context.Context, filters url.Values) (upstream.List[models.Enrollment], error)
	Create(ctx context.Context, payload interface{}) (models.Enrollment, error)
	Patch(ctx context.Context, id string, payload interface{}) (models.Enrollment, error)
	Delete(ctx context.Context, id string) error
}

// EnrollmentService mirrors course enrollments: the registration wizard's
// final submit lands here, and supervisors move entries through review.
type EnrollmentService struct {
	api       enrollmentAPI
	views     *syncViews[models.Enrollment]
	validator *validator.Validate
	logger    *zap.Logger

	bg context.Context
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(api enrollmentAPI, validate *validator.Validate, cfg config.ReconcileConfig, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schedule := retry.NewSchedule(cfg.Delays...)
	svc := &EnrollmentService{api: api, validator: validate, logger: logger, bg: context.Background()}
	svc.views = newSyncViews(func(courseID string) *syncView[models.Enrollment] {
		store := liststore.New(liststore.Options[models.Enrollment]{
			Less:            func(a, b models.Enrollment) bool { return a.CreatedAt.After(b.CreatedAt) },
			FreshnessWindow: cfg.FreshnessWindow,
			Logger:          logger,
			Observer:        metrics,
		})
		fetch := func(ctx context.Context) ([]models.Enrollment, error) {
			filters := url.Values{}
			filters.Set("course", courseID)
			filters.Set("ordering", "-created_at")
			list, err := api.List(ctx, filters)
			if err != nil {
				return nil, err
			}
			return list.Results, nil
		}
		return &syncView[models.Enrollment]{
			store:      store,
			reconciler: liststore.NewReconciler(store, fetch, schedule, logger),
		}
	})
	return svc
}

// Start binds the lifecycle context used for background reconciliation.
func (s *EnrollmentService) Start(ctx context.Context) {
	s.bg = ctx
}

// CreateEnrollmentRequest is the wizard's final submission.
type CreateEnrollmentRequest struct {
	StudentID string `json:"student" validate:"required"`
	CourseID  string `json:"course" validate:"required"`
	BatchID   string `json:"batch" validate:"required"`
	Note      string `json:"note"`
}

// List returns the mirrored enrollments for a course.
func (s *EnrollmentService) List(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	view := s.views.get(courseID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

// Create submits a registration.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	view := s.views.get(req.CourseID)
	created, err := view.store.Create(ctx, func(ctx context.Context) (models.Enrollment, error) {
		return s.api.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	view.reconciler.Kick(s.bg)
	return &created, nil
}

// SetStatus moves an enrollment through review.
func (s *EnrollmentService) SetStatus(ctx context.Context, courseID, id, status string) (*models.Enrollment, error) {
	desired := models.EnrollmentStatus(strings.ToLower(status))
	switch desired {
	case models.EnrollmentStatusPending, models.EnrollmentStatusApproved, models.EnrollmentStatusRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown enrollment status")
	}
	view := s.views.get(courseID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	updated, err := view.store.Patch(ctx, id,
		func(e *models.Enrollment) { e.Status = desired },
		func(ctx context.Context, _ models.Enrollment) (models.Enrollment, error) {
			return s.api.Patch(ctx, id, map[string]string{"status": string(desired)})
		})
	if err != nil {
		return nil, mapStoreErr(err, "enrollment")
	}
	return &updated, nil
}

// Delete withdraws a registration optimistically.
func (s *EnrollmentService) Delete(ctx context.Context, courseID, id string) error {
	view := s.views.get(courseID)
	if err := view.ensureLoaded(ctx); err != nil {
		return err
	}
	err := view.store.Delete(ctx, id, func(ctx context.Context) error {
		return s.api.Delete(ctx, id)
	})
	if err != nil {
		return mapStoreErr(err, "enrollment")
	}
	view.reconciler.Kick(s.bg)
	return nil
}

// Reconcile forces a synchronous authoritative refresh.
func (s *EnrollmentService) Reconcile(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	view := s.views.get(courseID)
	if err := view.reconciler.Now(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}
