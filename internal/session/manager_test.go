package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

type memStore struct {
	pair   *models.TokenPair
	failed error
}

func (m *memStore) Load(context.Context) (models.TokenPair, error) {
	if m.failed != nil {
		return models.TokenPair{}, m.failed
	}
	if m.pair == nil {
		return models.TokenPair{}, appErrors.ErrCacheMiss
	}
	return *m.pair, nil
}

func (m *memStore) Save(_ context.Context, pair models.TokenPair) error {
	m.pair = &pair
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.pair = nil
	return nil
}

type stubRefresher struct {
	pair  models.TokenPair
	err   error
	calls int
	got   string
}

func (s *stubRefresher) Refresh(_ context.Context, refreshToken string) (models.TokenPair, error) {
	s.calls++
	s.got = refreshToken
	if s.err != nil {
		return models.TokenPair{}, s.err
	}
	return s.pair, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenReturnsCurrentWhileValid(t *testing.T) {
	m := NewManager(&memStore{}, &stubRefresher{}, time.Second, nil)
	require.NoError(t, m.SetPair(context.Background(), models.TokenPair{
		AccessToken: "abc",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestTokenRefreshesNearExpiry(t *testing.T) {
	refresher := &stubRefresher{pair: models.TokenPair{
		AccessToken: "fresh",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	store := &memStore{}
	m := NewManager(store, refresher, 30*time.Second, nil)
	require.NoError(t, m.SetPair(context.Background(), models.TokenPair{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(5 * time.Second),
	}))

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, "refresh-1", refresher.got)
	require.NotNil(t, store.pair)
	assert.Equal(t, "fresh", store.pair.AccessToken)
}

func TestTokenKeepsRefreshTokenWhenNotRotated(t *testing.T) {
	refresher := &stubRefresher{pair: models.TokenPair{
		AccessToken: "fresh",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	m := NewManager(nil, refresher, 30*time.Second, nil)
	require.NoError(t, m.SetPair(context.Background(), models.TokenPair{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	_, err := m.Token(context.Background())
	require.NoError(t, err)

	// Drop validity again and make sure the old refresh token is reused.
	m.mu.Lock()
	m.current.ExpiresAt = time.Now().Add(-time.Minute)
	m.mu.Unlock()
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", refresher.got)
	assert.Equal(t, 2, refresher.calls)
}

func TestTokenWithoutRefreshTokenFails(t *testing.T) {
	m := NewManager(nil, &stubRefresher{}, time.Second, nil)
	_, err := m.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionGone.Code, appErrors.FromError(err).Code)
}

func TestTokenRefreshFailureMapsToSessionExpired(t *testing.T) {
	refresher := &stubRefresher{err: errors.New("refresh rejected")}
	m := NewManager(nil, refresher, time.Second, nil)
	require.NoError(t, m.SetPair(context.Background(), models.TokenPair{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	_, err := m.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionGone.Code, appErrors.FromError(err).Code)
}

func TestSetPairDerivesExpiryFromJWT(t *testing.T) {
	exp := time.Now().Add(45 * time.Minute).Truncate(time.Second)
	store := &memStore{}
	m := NewManager(store, nil, time.Second, nil)
	require.NoError(t, m.SetPair(context.Background(), models.TokenPair{
		AccessToken: signedToken(t, exp),
	}))

	require.NotNil(t, store.pair)
	assert.WithinDuration(t, exp, store.pair.ExpiresAt, time.Second)
}

func TestStartRestoresPersistedSession(t *testing.T) {
	store := &memStore{pair: &models.TokenPair{
		AccessToken: "persisted",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	m := NewManager(store, nil, time.Second, nil)
	require.NoError(t, m.Start(context.Background()))

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestStartToleratesEmptyStore(t *testing.T) {
	m := NewManager(&memStore{}, nil, time.Second, nil)
	require.NoError(t, m.Start(context.Background()))
}

func TestLogoutClearsSession(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, nil, time.Second, nil)
	require.NoError(t, m.SetPair(context.Background(), models.TokenPair{
		AccessToken: "abc",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	require.NoError(t, m.Logout(context.Background()))

	assert.Nil(t, store.pair)
	_, err := m.Token(context.Background())
	require.Error(t, err)
}
