// Package session owns the upstream session: one process-wide token pair
// with an explicit accessor, instead of ad hoc token reads scattered per
// screen. Lifecycle: Start loads any persisted pair, Token refreshes on
// demand when the access token nears expiry, Logout tears the session down.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

// TokenStore persists the token pair across restarts.
type TokenStore interface {
	Load(ctx context.Context) (models.TokenPair, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}

// Refresher exchanges a refresh token for a fresh pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

// Manager is the process-wide session context.
type Manager struct {
	mu        sync.Mutex
	store     TokenStore
	refresher Refresher
	leeway    time.Duration
	logger    *zap.Logger
	current   models.TokenPair

	now func() time.Time
}

// NewManager constructs a manager.
func NewManager(store TokenStore, refresher Refresher, leeway time.Duration, logger *zap.Logger) *Manager {
	if leeway <= 0 {
		leeway = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, refresher: refresher, leeway: leeway, logger: logger, now: time.Now}
}

// Start loads a previously persisted session, if any.
func (m *Manager) Start(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	pair, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil
		}
		return err
	}
	m.mu.Lock()
	m.current = normalize(pair)
	m.mu.Unlock()
	m.logger.Info("session restored from store")
	return nil
}

// SetPair installs a freshly issued token pair and persists it.
func (m *Manager) SetPair(ctx context.Context, pair models.TokenPair) error {
	pair = normalize(pair)
	m.mu.Lock()
	m.current = pair
	m.mu.Unlock()
	if m.store != nil {
		return m.store.Save(ctx, pair)
	}
	return nil
}

// Token returns a valid access token, refreshing through the backend when
// the current one is within the leeway of its expiry. It implements
// upstream.TokenSource.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Valid(m.now(), m.leeway) {
		return m.current.AccessToken, nil
	}
	if m.refresher == nil || m.current.RefreshToken == "" {
		return "", appErrors.Clone(appErrors.ErrSessionGone, "")
	}

	pair, err := m.refresher.Refresh(ctx, m.current.RefreshToken)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrSessionGone.Code, appErrors.ErrSessionGone.Status, appErrors.ErrSessionGone.Message)
	}
	pair = normalize(pair)
	if pair.RefreshToken == "" {
		pair.RefreshToken = m.current.RefreshToken
	}
	m.current = pair
	if m.store != nil {
		if err := m.store.Save(ctx, pair); err != nil {
			m.logger.Warn("persisting refreshed session failed", zap.Error(err))
		}
	}
	m.logger.Info("session refreshed", zap.Time("expires_at", pair.ExpiresAt))
	return pair.AccessToken, nil
}

// Logout drops the session locally and from the store.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = models.TokenPair{}
	m.mu.Unlock()
	if m.store != nil {
		return m.store.Clear(ctx)
	}
	return nil
}

// normalize derives ExpiresAt from the access token's exp claim when the
// caller did not set it. The token is not verified here — the backend owns
// the signing secret, only the expiry is read.
func normalize(pair models.TokenPair) models.TokenPair {
	if !pair.ExpiresAt.IsZero() || pair.AccessToken == "" {
		return pair
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, claims); err != nil {
		return pair
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		pair.ExpiresAt = exp.Time
	}
	return pair
}
