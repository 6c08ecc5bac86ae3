package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

const reminderPrefName = "reminder_settings"

type reminderAPI interface {
	Fetch(ctx context.Context, userID string) (models.ReminderSettings, error)
	Update(ctx context.Context, userID string, settings models.ReminderSettings) (models.ReminderSettings, error)
}

type reminderPrefs interface {
	Get(ctx context.Context, userID, name string, dest interface{}) error
	Set(ctx context.Context, userID, name string, value interface{}, ttl time.Duration) error
}

// ReminderService manages the per-user reminder-interval preference blob.
// Redis is the read path; every change is pushed to the backend profile and
// the desired values cached back, not the backend's echo.
type ReminderService struct {
	api       reminderAPI
	prefs     reminderPrefs
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReminderService constructs the service.
func NewReminderService(api reminderAPI, prefs reminderPrefs, validate *validator.Validate, logger *zap.Logger) *ReminderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{api: api, prefs: prefs, validator: validate, logger: logger}
}

// UpdateReminderRequest describes the settings payload.
type UpdateReminderRequest struct {
	Enabled         bool     `json:"enabled"`
	IntervalMinutes int      `json:"interval_minutes" validate:"required,gte=5,lte=1440"`
	QuietHoursStart int      `json:"quiet_hours_start" validate:"gte=0,lte=23"`
	QuietHoursEnd   int      `json:"quiet_hours_end" validate:"gte=0,lte=23"`
	Channels        []string `json:"channels" validate:"dive,oneof=email sms push"`
}

// Get returns the user's settings: from the preference cache when present,
// from the backend otherwise, defaults when the backend has none yet.
func (s *ReminderService) Get(ctx context.Context, userID string) (*models.ReminderSettings, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is required")
	}

	var cached models.ReminderSettings
	err := s.prefs.Get(ctx, userID, reminderPrefName, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("preference read failed, falling back to backend", zap.Error(err))
	}

	settings, err := s.api.Fetch(ctx, userID)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			defaults := defaultReminderSettings(userID)
			return &defaults, nil
		}
		return nil, err
	}
	settings.UserID = userID
	if err := s.prefs.Set(ctx, userID, reminderPrefName, settings, 0); err != nil {
		s.logger.Warn("caching reminder settings failed", zap.Error(err))
	}
	return &settings, nil
}

// Update validates and pushes the desired settings, then caches the desired
// values locally.
func (s *ReminderService) Update(ctx context.Context, userID string, req UpdateReminderRequest) (*models.ReminderSettings, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reminder settings")
	}

	desired := models.ReminderSettings{
		UserID:          userID,
		Enabled:         req.Enabled,
		IntervalMinutes: req.IntervalMinutes,
		QuietHoursStart: req.QuietHoursStart,
		QuietHoursEnd:   req.QuietHoursEnd,
		Channels:        req.Channels,
		UpdatedAt:       time.Now().UTC(),
	}

	if _, err := s.api.Update(ctx, userID, desired); err != nil {
		return nil, err
	}
	if err := s.prefs.Set(ctx, userID, reminderPrefName, desired, 0); err != nil {
		s.logger.Warn("caching reminder settings failed", zap.Error(err))
	}
	return &desired, nil
}

func defaultReminderSettings(userID string) models.ReminderSettings {
	return models.ReminderSettings{
		UserID:          userID,
		Enabled:         true,
		IntervalMinutes: 60,
		QuietHoursStart: 22,
		QuietHoursEnd:   7,
		Channels:        []string{"email"},
	}
}
