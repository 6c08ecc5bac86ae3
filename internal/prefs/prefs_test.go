package prefs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

func TestKeyShape(t *testing.T) {
	assert.Equal(t, "prefs:u1:reminder_settings", key("u1", "reminder_settings"))
}

func TestWrapGetErrMapsAbsentKeyToCacheMiss(t *testing.T) {
	err := wrapGetErr(key("u1", "x"), redis.Nil)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestWrapGetErrKeepsOtherFailures(t *testing.T) {
	cause := errors.New("connection reset")
	err := wrapGetErr(key("u1", "x"), cause)
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "prefs:u1:x")
}

func TestStoreWithoutClientDegradesGracefully(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	var dest map[string]string
	err := s.Get(ctx, "u1", "x", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, s.Set(ctx, "u1", "x", map[string]string{"k": "v"}, time.Minute))
	require.NoError(t, s.Delete(ctx, "u1", "x"))
}
