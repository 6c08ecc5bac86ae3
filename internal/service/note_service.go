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

type noteAPI interface {
	List(ctx context.Context, filters url.Values) (upstream.List[models.AnnouncementNote], error)
	Create(ctx context.Context, payload interface{}) (models.AnnouncementNote, error)
	Patch(ctx context.Context, id string, payload interface{}) (models.AnnouncementNote, error)
	Delete(ctx context.Context, id string) error
}

// NoteService mirrors each group's announcement feed. Pinned notes sort
// first, newest first within each band.
type NoteService struct {
	api       noteAPI
	views     *syncViews[models.AnnouncementNote]
	validator *validator.Validate
	logger    *zap.Logger

	bg context.Context
}

// NewNoteService constructs the service.
func NewNoteService(api noteAPI, validate *validator.Validate, cfg config.ReconcileConfig, metrics *MetricsService, logger *zap.Logger) *NoteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schedule := retry.NewSchedule(cfg.Delays...)
	svc := &NoteService{api: api, validator: validate, logger: logger, bg: context.Background()}
	svc.views = newSyncViews(func(groupID string) *syncView[models.AnnouncementNote] {
		store := liststore.New(liststore.Options[models.AnnouncementNote]{
			Less:            noteOrder,
			FreshnessWindow: cfg.FreshnessWindow,
			Logger:          logger,
			Observer:        metrics,
		})
		fetch := func(ctx context.Context) ([]models.AnnouncementNote, error) {
			filters := url.Values{}
			filters.Set("group", groupID)
			filters.Set("ordering", "-is_pinned,-created_at")
			list, err := api.List(ctx, filters)
			if err != nil {
				return nil, err
			}
			return list.Results, nil
		}
		return &syncView[models.AnnouncementNote]{
			store:      store,
			reconciler: liststore.NewReconciler(store, fetch, schedule, logger),
		}
	})
	return svc
}

func noteOrder(a, b models.AnnouncementNote) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// Start binds the lifecycle context used for background reconciliation.
func (s *NoteService) Start(ctx context.Context) {
	s.bg = ctx
}

// CreateNoteRequest describes the create payload.
type CreateNoteRequest struct {
	GroupID string `json:"group" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// List returns the mirrored notes for a group.
func (s *NoteService) List(ctx context.Context, groupID string) ([]models.AnnouncementNote, error) {
	if groupID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group is required")
	}
	view := s.views.get(groupID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

// Create posts a note and mirrors the confirmed row.
func (s *NoteService) Create(ctx context.Context, req CreateNoteRequest) (*models.AnnouncementNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	view := s.views.get(req.GroupID)
	created, err := view.store.Create(ctx, func(ctx context.Context) (models.AnnouncementNote, error) {
		return s.api.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	view.reconciler.Kick(s.bg)
	return &created, nil
}

// Delete removes a note optimistically.
func (s *NoteService) Delete(ctx context.Context, groupID, id string) error {
	view := s.views.get(groupID)
	if err := view.ensureLoaded(ctx); err != nil {
		return err
	}
	err := view.store.Delete(ctx, id, func(ctx context.Context) error {
		return s.api.Delete(ctx, id)
	})
	if err != nil {
		return mapStoreErr(err, "note")
	}
	view.reconciler.Kick(s.bg)
	return nil
}

// SetPinned toggles is_pinned, trusting the local value over the upstream
// echo. The feed re-sorts immediately so the pin is visible without waiting
// on the network.
func (s *NoteService) SetPinned(ctx context.Context, groupID, id string, pinned bool) (*models.AnnouncementNote, error) {
	view := s.views.get(groupID)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	updated, err := view.store.Patch(ctx, id,
		func(n *models.AnnouncementNote) { n.IsPinned = pinned },
		func(ctx context.Context, _ models.AnnouncementNote) (models.AnnouncementNote, error) {
			return s.api.Patch(ctx, id, map[string]bool{"is_pinned": pinned})
		})
	if err != nil {
		return nil, mapStoreErr(err, "note")
	}
	return &updated, nil
}

// Reconcile forces a synchronous authoritative refresh of one group view.
func (s *NoteService) Reconcile(ctx context.Context, groupID string) ([]models.AnnouncementNote, error) {
	if groupID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group is required")
	}
	view := s.views.get(groupID)
	if err := view.reconciler.Now(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}
