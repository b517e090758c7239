package resilience

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillsenselab/notifykit/failure"
	"github.com/skillsenselab/notifykit/logger"
)

// Work is a zero-argument unit of work: a channel adapter invocation or
// any other call worth protecting.
type Work[T any] func() (T, error)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the total attempt ceiling, including the first try.
	// Values below 1 still run the work once.
	MaxAttempts int
	// BackoffFactor multiplies the delay after each failed attempt.
	BackoffFactor float64
	// MinDelay is the delay before the first retry.
	MinDelay time.Duration
	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration
	// RetryIf decides whether an error is worth retrying. Defaults to
	// failure.IsRetryable: permanent failures stop immediately, everything
	// else retries.
	RetryIf func(error) bool
	// OnRetry, if set, is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
	// LogLevel is the severity for per-attempt log events.
	LogLevel zerolog.Level
}

// StandardRetry is the policy for typical provider calls:
// 3 attempts, factor 2, delays between 1s and 30s.
func StandardRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		BackoffFactor: 2,
		MinDelay:      time.Second,
		MaxDelay:      30 * time.Second,
		LogLevel:      zerolog.WarnLevel,
	}
}

// AggressiveRetry is the policy for critical operations:
// 5 attempts with faster escalation and a higher delay cap.
func AggressiveRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:   5,
		BackoffFactor: 1.5,
		MinDelay:      time.Second,
		MaxDelay:      60 * time.Second,
		LogLevel:      zerolog.WarnLevel,
	}
}

// GentleRetry is the policy for less critical operations:
// 2 attempts with slower escalation.
func GentleRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:   2,
		BackoffFactor: 3,
		MinDelay:      2 * time.Second,
		MaxDelay:      15 * time.Second,
		LogLevel:      zerolog.WarnLevel,
	}
}

// Retry runs fn, re-attempting transient failures with exponential
// backoff. A permanent failure propagates immediately and unchanged. When
// every allowed attempt has failed, the returned error is a
// failure.Exhausted carrying the attempt count and the most recent cause.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn Work[T]) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 2
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = failure.IsRetryable
	}

	log := logger.WithComponent("retry")
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.RetryIf(err) {
			return zero, err
		}

		if attempt == attempts {
			break
		}

		delay := backoffDelay(attempt, cfg)
		log.WithLevel(cfg.LogLevel).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Float64("backoff_factor", cfg.BackoffFactor).
			Dur("delay", delay).
			Err(err).
			Msg("attempt failed, backing off")

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	log.WithLevel(cfg.LogLevel).
		Int("attempts", attempts).
		Err(lastErr).
		Msg("all attempts exhausted")

	return zero, failure.Exhausted(attempts, lastErr)
}

// RetryFunc retries a unit of work that returns only an error.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Wrap returns fn with the retry policy applied, preserving the
// zero-argument unit-of-work shape so the result can be submitted to a
// bulkhead partition.
func Wrap[T any](ctx context.Context, cfg RetryConfig, fn Work[T]) Work[T] {
	return func() (T, error) {
		return Retry(ctx, cfg, fn)
	}
}

// backoffDelay computes min * factor^(attempt-1), capped at max. Delays
// are non-decreasing for factors of at least 1; smaller factors are passed
// through as configured.
func backoffDelay(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.MinDelay) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if delay > float64(cfg.MaxDelay) || math.IsInf(delay, 1) {
		return cfg.MaxDelay
	}
	if delay < 0 {
		return cfg.MinDelay
	}
	return time.Duration(delay)
}
