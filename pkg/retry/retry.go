package retry

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Config defines retry behavior with exponential backoff.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64 // 0.0-1.0, fraction of the delay added or removed at random

	// Retryable decides whether an error is worth another attempt.
	// Nil retries every error.
	Retryable func(error) bool

	// OnRetry is called before each wait with the failed attempt number (1-based).
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultConfig returns the backoff used for the start-up database connection:
// 5 retries starting at 500ms, doubling, capped at 10s, with 10% jitter.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   5,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
		Retryable:    IsTransient,
	}
}

func applyJitter(delay time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return delay
	}
	jitter := float64(delay) * jitterFactor * (rand.Float64()*2 - 1)
	return time.Duration(float64(delay) + jitter)
}

// Do executes fn with exponential backoff.
// Returns nil on success, or the last error once retries are exhausted.
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes fn with exponential backoff and returns its result.
// Context cancellation during a wait returns ctx.Err().
func DoWithResult[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var (
		result  T
		lastErr error
	)
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		r, err := fn()
		if err == nil {
			return r, nil
		}
		result, lastErr = r, err

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return result, err
		}
		if attempt == cfg.MaxRetries {
			break
		}

		wait := applyJitter(delay, cfg.JitterFactor)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		}
	}

	return result, lastErr
}

// IsTransient reports whether an error looks like a connectivity problem that
// may clear up, such as the database still starting.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"timeout",
		"timed out",
		"temporary failure",
		"too many connections",
		"network is unreachable",
		"the database system is starting up",
		"the database system is shutting down",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
