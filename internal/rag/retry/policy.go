// Package retry runs fallible operations under a bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration

	// Retryable decides whether a failed attempt is tried again. Nil means DefaultRetryable.
	Retryable func(error) bool
	// OnRetry runs before each backoff sleep.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Result records how an operation finished.
type Result struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func FromConfig(cfg config.RetryConfig) Policy {
	return Policy{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.BaseDelay,
		Multiplier:  cfg.Multiplier,
		MaxDelay:    cfg.MaxDelay,
	}
}

// DefaultRetryable retries everything except validation, not-found and caller cancellation.
func DefaultRetryable(err error) bool {
	switch {
	case errors.Is(err, commonModels.ErrValidation),
		errors.Is(err, commonModels.ErrNotFound),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// Delay is min(BaseDelay * Multiplier^attempt, MaxDelay) for a zero-based attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt))
	if math.IsInf(d, 0) || math.IsNaN(d) || d > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// Budget is the wall-clock bound of one Do call, MaxAttempts * MaxDelay. Zero means unbounded.
func (p Policy) Budget() time.Duration {
	return time.Duration(max(p.MaxAttempts, 1)) * p.MaxDelay
}

// Do calls op until it succeeds, returns a non-retryable error, runs out of attempts or ctx ends.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, Result) {
	var zero T
	start := time.Now()
	retryable := p.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}
	maxAttempts := max(p.MaxAttempts, 1)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		value, err := op(ctx)
		if err == nil {
			return value, Result{Attempts: attempt + 1, Elapsed: time.Since(start)}
		}
		lastErr = err

		if !retryable(err) || attempt == maxAttempts-1 {
			return zero, Result{Attempts: attempt + 1, Elapsed: time.Since(start), Err: err}
		}

		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, Result{Attempts: attempt + 1, Elapsed: time.Since(start), Err: errors.Join(err, ctx.Err())}
		case <-timer.C:
		}
	}
	return zero, Result{Attempts: maxAttempts, Elapsed: time.Since(start), Err: lastErr}
}
