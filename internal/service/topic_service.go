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

type topicAPI interface {
	List(ctx context.Context, filters url.Values) (upstream.List[models.Topic], error)
	Create(ctx context.Context, payload interface{}) (models.Topic, error)
	Patch(ctx context.Context, id string, payload interface{}) (models.Topic, error)
	Delete(ctx context.Context, id string) error
}

// TopicService mirrors community forum threads per forum, pinned first.
type TopicService struct {
	api       topicAPI
	views     *syncViews[models.Topic]
	validator *validator.Validate
	logger    *zap.Logger

	bg context.Context
}

// NewTopicService constructs the service.
func NewTopicService(api topicAPI, validate *validator.Validate, cfg config.ReconcileConfig, metrics *MetricsService, logger *zap.Logger) *TopicService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schedule := retry.NewSchedule(cfg.Delays...)
	svc := &TopicService{api: api, validator: validate, logger: logger, bg: context.Background()}
	svc.views = newSyncViews(func(forumID string) *syncView[models.Topic] {
		store := liststore.New(liststore.Options[models.Topic]{
			Less:            topicOrder,
			FreshnessWindow: cfg.FreshnessWindow,
			Logger:          logger,
			Observer:        metrics,
		})
		fetch := func(ctx context.Context) ([]models.Topic, error) {
			filters := url.Values{}
			filters.Set("forum", forumID)
			filters.Set("ordering", "-is_pinned,-created_at")
			list, err := api.List(ctx, filters)
			if err != nil {
				return nil, err
			}
			return list.Results, nil
		}
		return &syncView[models.Topic]{
			store:      store,
			reconciler: liststore.NewReconciler(store, fetch, schedule, logger),
		}
	})
	return svc
}

func topicOrder(a, b models.Topic) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// Start binds the lifecycle context used for background reconciliation.
func (s *TopicService) Start(ctx context.Context) {
	s.bg = ctx
}

// CreateTopicRequest describes the create payload.
type CreateTopicRequest struct {
	ForumID  string `json:"forum" validate:"required"`
	Title    string `json:"title" validate:"required"`
	AuthorID string `json:"author" validate:"required"`
}

// List returns the mirrored topics for a forum.
func (s *TopicService) List(ctx context.Context, forumID string) ([]models.Topic, error) {
	if forumID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "forum is required")
	}
	view := s.views.get(forumID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

// Create opens a thread.
func (s *TopicService) Create(ctx context.Context, req CreateTopicRequest) (*models.Topic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}
	view := s.views.get(req.ForumID)
	created, err := view.store.Create(ctx, func(ctx context.Context) (models.Topic, error) {
		return s.api.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	view.reconciler.Kick(s.bg)
	return &created, nil
}

// Delete removes a thread optimistically.
func (s *TopicService) Delete(ctx context.Context, forumID, id string) error {
	view := s.views.get(forumID)
	if err := view.ensureLoaded(ctx); err != nil {
		return err
	}
	err := view.store.Delete(ctx, id, func(ctx context.Context) error {
		return s.api.Delete(ctx, id)
	})
	if err != nil {
		return mapStoreErr(err, "topic")
	}
	view.reconciler.Kick(s.bg)
	return nil
}

// SetPinned toggles is_pinned with local-trust semantics.
func (s *TopicService) SetPinned(ctx context.Context, forumID, id string, pinned bool) (*models.Topic, error) {
	return s.toggle(ctx, forumID, id, "is_pinned", pinned, func(t *models.Topic) { t.IsPinned = pinned })
}

// SetHidden toggles moderation visibility.
func (s *TopicService) SetHidden(ctx context.Context, forumID, id string, hidden bool) (*models.Topic, error) {
	return s.toggle(ctx, forumID, id, "is_hidden", hidden, func(t *models.Topic) { t.IsHidden = hidden })
}

func (s *TopicService) toggle(ctx context.Context, forumID, id, field string, value bool, apply func(*models.Topic)) (*models.Topic, error) {
	view := s.views.get(forumID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	updated, err := view.store.Patch(ctx, id, apply,
		func(ctx context.Context, _ models.Topic) (models.Topic, error) {
			return s.api.Patch(ctx, id, map[string]bool{field: value})
		})
	if err != nil {
		return nil, mapStoreErr(err, "topic")
	}
	return &updated, nil
}

// Reconcile forces a synchronous authoritative refresh.
func (s *TopicService) Reconcile(ctx context.Context, forumID string) ([]models.Topic, error) {
	if forumID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "forum is required")
	}
	view := s.views.get(forumID)
	if err := view.reconciler.Now(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}
