package service

import (
	"context"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/internal/liststore"
	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	"github.com/belalwws/noor-academy-sub008/pkg/config"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/retry"
)

type knowledgeLabAPI interface {
	List(ctx context.Context, filters url.Values) (upstream.List[models.KnowledgeLab], error)
	Create(ctx context.Context, payload interface{}) (models.KnowledgeLab, error)
	Delete(ctx context.Context, id string) error
}

// KnowledgeLabService mirrors knowledge lab listings per subject area.
type KnowledgeLabService struct {
	api       knowledgeLabAPI
	views     *syncViews[models.KnowledgeLab]
	validator *validator.Validate
	logger    *zap.Logger

	bg context.Context
}

// NewKnowledgeLabService constructs the service.
func NewKnowledgeLabService(api knowledgeLabAPI, validate *validator.Validate, cfg config.ReconcileConfig, metrics *MetricsService, logger *zap.Logger) *KnowledgeLabService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schedule := retry.NewSchedule(cfg.Delays...)
	svc := &KnowledgeLabService{api: api, validator: validate, logger: logger, bg: context.Background()}
	svc.views = newSyncViews(func(subjectArea string) *syncView[models.KnowledgeLab] {
		store := liststore.New(liststore.Options[models.KnowledgeLab]{
			Less:            func(a, b models.KnowledgeLab) bool { return a.CreatedAt.After(b.CreatedAt) },
			FreshnessWindow: cfg.FreshnessWindow,
			Logger:          logger,
			Observer:        metrics,
		})
		fetch := func(ctx context.Context) ([]models.KnowledgeLab, error) {
			filters := url.Values{}
			if subjectArea != "" {
				filters.Set("subject_area", subjectArea)
			}
			filters.Set("ordering", "-created_at")
			list, err := api.List(ctx, filters)
			if err != nil {
				return nil, err
			}
			return list.Results, nil
		}
		return &syncView[models.KnowledgeLab]{
			store:      store,
			reconciler: liststore.NewReconciler(store, fetch, schedule, logger),
		}
	})
	return svc
}

// Start binds the lifecycle context used for background reconciliation.
func (s *KnowledgeLabService) Start(ctx context.Context) {
	s.bg = ctx
}

// CreateKnowledgeLabRequest describes the create payload.
type CreateKnowledgeLabRequest struct {
	Title       string `json:"title" validate:"required"`
	SubjectArea string `json:"subject_area" validate:"required"`
	OwnerID     string `json:"owner" validate:"required"`
}

// List returns the mirrored labs ("" = all subject areas).
func (s *KnowledgeLabService) List(ctx context.Context, subjectArea string) ([]models.KnowledgeLab, error) {
	view := s.views.get(subjectArea)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

// Create opens a lab.
func (s *KnowledgeLabService) Create(ctx context.Context, req CreateKnowledgeLabRequest) (*models.KnowledgeLab, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid knowledge lab payload")
	}
	view := s.views.get(req.SubjectArea)
	created, err := view.store.Create(ctx, func(ctx context.Context) (models.KnowledgeLab, error) {
		return s.api.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	view.reconciler.Kick(s.bg)
	return &created, nil
}

// Delete removes a lab optimistically.
func (s *KnowledgeLabService) Delete(ctx context.Context, subjectArea, id string) error {
	view := s.views.get(subjectArea)
	if err := view.ensureLoaded(ctx); err != nil {
		return err
	}
	err := view.store.Delete(ctx, id, func(ctx context.Context) error {
		return s.api.Delete(ctx, id)
	})
	if err != nil {
		return mapStoreErr(err, "knowledge lab")
	}
	view.reconciler.Kick(s.bg)
	return nil
}

// Reconcile forces a synchronous authoritative refresh.
func (s *KnowledgeLabService) Reconcile(ctx context.Context, subjectArea string) ([]models.KnowledgeLab, error) {
	view := s.views.get(subjectArea)
	if err := view.reconciler.Now(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}
