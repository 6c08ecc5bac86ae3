// Package retry provides a fixed-count, fixed-delay schedule. It exists so
// delayed follow-up work (notably post-mutation reconciliation) is driven by
// an explicit, testable policy instead of inline timers.
package retry

import (
	"context"
	"time"
)

// Schedule is an ordered list of delays. Each delay is waited before the next
// attempt; a nil or empty schedule performs a single immediate attempt.
type Schedule struct {
	Delays []time.Duration
}

// NewSchedule builds a schedule from the given delays.
func NewSchedule(delays ...time.Duration) Schedule {
	return Schedule{Delays: delays}
}

// Attempts returns the number of attempts the schedule will make.
func (s Schedule) Attempts() int {
	if len(s.Delays) == 0 {
		return 1
	}
	return len(s.Delays)
}

// Run invokes fn once per delay, waiting the delay first. It stops early when
// fn reports done, or when the context is cancelled. The last error from fn
// is returned when no attempt reported done. There is no backoff growth: the
// schedule is deliberately fixed, the caller tolerates transient staleness
// rather than hammering the backend.
func (s Schedule) Run(ctx context.Context, fn func(ctx context.Context, attempt int) (done bool, err error)) error {
	delays := s.Delays
	if len(delays) == 0 {
		delays = []time.Duration{0}
	}

	var lastErr error
	for i, delay := range delays {
		if err := wait(ctx, delay); err != nil {
			return err
		}
		done, err := fn(ctx, i+1)
		if done {
			return err
		}
		if err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// RunAll invokes fn once per delay unconditionally, collecting the last
// error. Used for reconciliation passes that should all fire regardless of
// individual outcomes.
func (s Schedule) RunAll(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	return s.Run(ctx, func(ctx context.Context, attempt int) (bool, error) {
		return false, fn(ctx, attempt)
	})
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
