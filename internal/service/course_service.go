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

type courseAPI interface {
	List(ctx context.Context, filters url.Values) (upstream.List[models.Course], error)
	Create(ctx context.Context, payload interface{}) (models.Course, error)
	Patch(ctx context.Context, id string, payload interface{}) (models.Course, error)
}

// allCoursesView keys the unfiltered supervisor view.
const allCoursesView = ""

// CourseService mirrors course listings for teachers and supervisors.
// Status changes and toggles are applied optimistically with the local value
// treated as authoritative over the upstream echo.
type CourseService struct {
	api       courseAPI
	views     *syncViews[models.Course]
	validator *validator.Validate
	logger    *zap.Logger

	bg context.Context
}

// NewCourseService constructs the service.
func NewCourseService(api courseAPI, validate *validator.Validate, cfg config.ReconcileConfig, metrics *MetricsService, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schedule := retry.NewSchedule(cfg.Delays...)
	svc := &CourseService{api: api, validator: validate, logger: logger, bg: context.Background()}
	svc.views = newSyncViews(func(teacherID string) *syncView[models.Course] {
		store := liststore.New(liststore.Options[models.Course]{
			Less:            func(a, b models.Course) bool { return a.CreatedAt.After(b.CreatedAt) },
			FreshnessWindow: cfg.FreshnessWindow,
			Logger:          logger,
			Observer:        metrics,
		})
		fetch := func(ctx context.Context) ([]models.Course, error) {
			filters := url.Values{}
			if teacherID != allCoursesView {
				filters.Set("teacher", teacherID)
			}
			filters.Set("ordering", "-created_at")
			list, err := api.List(ctx, filters)
			if err != nil {
				return nil, err
			}
			return list.Results, nil
		}
		return &syncView[models.Course]{
			store:      store,
			reconciler: liststore.NewReconciler(store, fetch, schedule, logger),
		}
	})
	return svc
}

// Start binds the lifecycle context used for background reconciliation.
func (s *CourseService) Start(ctx context.Context) {
	s.bg = ctx
}

// CreateCourseRequest describes the create payload.
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	TeacherID   string  `json:"teacher" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// List returns the mirrored courses, optionally scoped to one teacher.
func (s *CourseService) List(ctx context.Context, teacherID string) ([]models.Course, error) {
	view := s.views.get(teacherID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

// Create submits a new course draft.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	view := s.views.get(req.TeacherID)
	created, err := view.store.Create(ctx, func(ctx context.Context) (models.Course, error) {
		return s.api.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	view.reconciler.Kick(s.bg)
	return &created, nil
}

// SetStatus moves a course through the approval flow.
func (s *CourseService) SetStatus(ctx context.Context, teacherID, id, status string) (*models.Course, error) {
	desired := models.CourseStatus(strings.ToLower(status))
	switch desired {
	case models.CourseStatusPending, models.CourseStatusApproved, models.CourseStatusRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown course status")
	}
	view := s.views.get(teacherID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	updated, err := view.store.Patch(ctx, id,
		func(c *models.Course) { c.Status = desired },
		func(ctx context.Context, _ models.Course) (models.Course, error) {
			return s.api.Patch(ctx, id, map[string]string{"status": string(desired)})
		})
	if err != nil {
		return nil, mapStoreErr(err, "course")
	}
	return &updated, nil
}

// SetAcceptingApplications flips whether students can apply. The local value
// wins over the upstream echo, which is known to lag right after a write.
func (s *CourseService) SetAcceptingApplications(ctx context.Context, teacherID, id string, accepting bool) (*models.Course, error) {
	return s.toggle(ctx, teacherID, id, "accepting_applications", accepting, func(c *models.Course) {
		c.AcceptingApplications = accepting
	})
}

// SetHidden flips listing visibility.
func (s *CourseService) SetHidden(ctx context.Context, teacherID, id string, hidden bool) (*models.Course, error) {
	return s.toggle(ctx, teacherID, id, "is_hidden", hidden, func(c *models.Course) {
		c.IsHidden = hidden
	})
}

func (s *CourseService) toggle(ctx context.Context, teacherID, id, field string, value bool, apply func(*models.Course)) (*models.Course, error) {
	view := s.views.get(teacherID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	updated, err := view.store.Patch(ctx, id, apply,
		func(ctx context.Context, _ models.Course) (models.Course, error) {
			return s.api.Patch(ctx, id, map[string]bool{field: value})
		})
	if err != nil {
		return nil, mapStoreErr(err, "course")
	}
	return &updated, nil
}

// Reconcile forces a synchronous authoritative refresh.
func (s *CourseService) Reconcile(ctx context.Context, teacherID string) ([]models.Course, error) {
	view := s.views.get(teacherID)
	if err := view.reconciler.Now(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}
