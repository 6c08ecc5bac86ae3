// Package prefs stores per-user preference blobs in Redis. Preferences are
// a cache of what the backend profile holds: the reminder service writes
// here after every successful upstream push so the UI reads settings without
// a round trip.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

// Store wraps Redis access for preference blobs.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStore constructs a preference store.
func NewStore(client *redis.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, logger: logger}
}

func key(userID, name string) string {
	return fmt.Sprintf("prefs:%s:%s", userID, name)
}

// Get unmarshals the named blob into dest. ErrCacheMiss when absent.
func (s *Store) Get(ctx context.Context, userID, name string, dest interface{}) error {
	if s.client == nil {
		return appErrors.ErrCacheMiss
	}
	raw, err := s.client.Get(ctx, key(userID, name)).Bytes()
	if err != nil {
		return wrapGetErr(key(userID, name), err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal preference %s: %w", name, err)
	}
	return nil
}

// wrapGetErr maps an absent key onto the shared cache-miss sentinel; every
// other Redis failure keeps its context.
func wrapGetErr(k string, err error) error {
	if err == redis.Nil {
		return appErrors.ErrCacheMiss
	}
	return fmt.Errorf("redis get %s: %w", k, err)
}

// Set stores the named blob. A zero ttl keeps it indefinitely.
func (s *Store) Set(ctx context.Context, userID, name string, value interface{}, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal preference %s: %w", name, err)
	}
	if err := s.client.Set(ctx, key(userID, name), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key(userID, name), err)
	}
	return nil
}

// Delete removes the named blob.
func (s *Store) Delete(ctx context.Context, userID, name string) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Del(ctx, key(userID, name)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key(userID, name), err)
	}
	return nil
}
