// Package retry re-runs operations that fail transiently.
package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Func is a function that can be retried.
type Func func(ctx context.Context) error

// UnretryableError marks an error as not suitable for retry.
type UnretryableError struct {
	Err error
}

func (e *UnretryableError) Error() string { return e.Err.Error() }

func (e *UnretryableError) Unwrap() error { return e.Err }

// Unretryable wraps err so that Do stops immediately.
func Unretryable(err error) error {
	if err == nil {
		return nil
	}
	return &UnretryableError{Err: err}
}

// Do runs fn up to attempts times, sleeping delay between attempts.  It
// stops early when fn returns an UnretryableError (whose inner error is
// returned) or when ctx is done.
func Do(ctx context.Context, log *zap.Logger, attempts int, delay time.Duration, fn Func) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		var ue *UnretryableError
		if errors.As(err, &ue) {
			log.Warn("attempt failed with unretryable error",
				zap.Int("attempt", i+1), zap.Int("attempts", attempts), zap.Error(err))
			return ue.Unwrap()
		}
		if i == attempts-1 {
			break
		}
		log.Warn("attempt failed, retrying",
			zap.Int("attempt", i+1), zap.Int("attempts", attempts), zap.Duration("delay", delay), zap.Error(err))
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return errors.Join(err, ctx.Err())
		case <-t.C:
		}
	}
	return err
}
