package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

// RedisStore persists the token pair in Redis so a gateway restart does not
// force a re-login.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore builds a store writing under the given key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "session:upstream"
	}
	return &RedisStore{client: client, key: key}
}

// Load implements TokenStore.
func (s *RedisStore) Load(ctx context.Context) (models.TokenPair, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.TokenPair{}, appErrors.ErrCacheMiss
		}
		return models.TokenPair{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var pair models.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return pair, nil
}

// Save implements TokenStore.
func (s *RedisStore) Save(ctx context.Context, pair models.TokenPair) error {
	payload, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Clear implements TokenStore.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
