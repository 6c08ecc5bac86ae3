package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRunsOncePerDelay(t *testing.T) {
	schedule := NewSchedule(time.Millisecond, time.Millisecond, time.Millisecond)
	var attempts []int
	err := schedule.RunAll(context.Background(), func(ctx context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, attempts)
}

func TestScheduleStopsWhenDone(t *testing.T) {
	schedule := NewSchedule(0, 0, 0)
	calls := 0
	err := schedule.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		calls++
		return attempt == 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestScheduleReturnsLastError(t *testing.T) {
	schedule := NewSchedule(0, 0)
	first := errors.New("first")
	second := errors.New("second")
	err := schedule.RunAll(context.Background(), func(ctx context.Context, attempt int) error {
		if attempt == 1 {
			return first
		}
		return second
	})
	require.ErrorIs(t, err, second)
}

func TestScheduleEmptyMakesSingleAttempt(t *testing.T) {
	var schedule Schedule
	calls := 0
	err := schedule.RunAll(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, schedule.Attempts())
}

func TestScheduleHonorsCancellation(t *testing.T) {
	schedule := NewSchedule(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := schedule.RunAll(ctx, func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
