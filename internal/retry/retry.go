// Package retry wraps flaky upstream calls with bounded retries, a
// per-attempt deadline, and exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"hotel-assistant-api/internal/metrics"
)

var ErrTimedOut = errors.New("retry: attempt timed out")

// Options controls Do. Zero values take the defaults below.
type Options struct {
	// MaxRetries is the total attempt count (not additional attempts).
	MaxRetries int
	// Timeout is the per-attempt deadline.
	Timeout time.Duration
	// BackoffBase is the first backoff delay; it doubles per attempt.
	BackoffBase time.Duration

	// Sleep is injectable for tests. It must respect ctx cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o Options) withDefaults() Options {
	out := o
	if out.MaxRetries <= 0 {
		out.MaxRetries = 3
	}
	if out.Timeout <= 0 {
		out.Timeout = 10 * time.Second
	}
	if out.BackoffBase <= 0 {
		out.BackoffBase = time.Second
	}
	if out.Sleep == nil {
		out.Sleep = sleep
	}
	return out
}

// Do runs op up to MaxRetries times. Each attempt races op against the
// per-attempt deadline; an op that ignores its context still counts as failed
// once the deadline passes (its eventual result is discarded). Between failed
// attempts Do backs off BackoffBase*2^attempt. After the last attempt the
// last observed error is returned.
//
// Worst-case latency is bounded by MaxRetries*Timeout plus the backoff sum.
func Do[T any](ctx context.Context, opts Options, op func(ctx context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()

	var zero T
	var lastErr error

	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		v, err := runAttempt(ctx, opts.Timeout, op)
		if err == nil {
			return v, nil
		}
		lastErr = err
		metrics.UpstreamRetry()

		if attempt < opts.MaxRetries-1 {
			delay := opts.BackoffBase << attempt
			if err := opts.Sleep(ctx, delay); err != nil {
				return zero, err
			}
		}
	}
	return zero, lastErr
}

type result[T any] struct {
	v   T
	err error
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		v, err := op(attemptCtx)
		done <- result[T]{v: v, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		return r.v, r.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, ErrTimedOut
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
