// Package retry provides a bounded exponential-backoff executor for calls to
// external HTTP APIs.
package retry

import (
	"context"
	"math"
	"time"
)

// Config holds the configuration for retry logic
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultConfig returns a sensible default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		BaseDelay:       200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffMultiple: 2.0,
	}
}

// calculateDelay computes the delay for the given attempt using exponential backoff
func (c Config) calculateDelay(attempt int) time.Duration {
	delay := time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffMultiple, float64(attempt)))
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// ErrorChecker decides whether a failed attempt should be retried.
type ErrorChecker func(err error, statusCode int, responseBody []byte) bool

// AttemptFunc performs one attempt of the retried call.
type AttemptFunc func(attempt int) (result []byte, statusCode int, err error)

// Logger receives retry progress messages.
type Logger func(message string, args ...any)

// Options configures retry behavior
type Options struct {
	Config       Config
	ErrorChecker ErrorChecker
	Logger       Logger
	APIName      string
}

// Execute runs fn until it succeeds, fails non-retryably, the retry budget is
// exhausted, or the context is cancelled.
func Execute(ctx context.Context, opts Options, fn AttemptFunc) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= opts.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := opts.Config.calculateDelay(attempt - 1)
			if opts.Logger != nil {
				opts.Logger("%s retry attempt %d/%d after %v delay", opts.APIName, attempt+1, opts.Config.MaxRetries+1, delay)
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, statusCode, err := fn(attempt)
		lastErr = err

		if opts.ErrorChecker != nil && opts.ErrorChecker(err, statusCode, result) && attempt < opts.Config.MaxRetries {
			if opts.Logger != nil {
				if err != nil {
					opts.Logger("%s network error (attempt %d/%d): %v", opts.APIName, attempt+1, opts.Config.MaxRetries+1, err)
				} else {
					opts.Logger("%s retryable error (attempt %d/%d): status %d", opts.APIName, attempt+1, opts.Config.MaxRetries+1, statusCode)
				}
			}
			continue
		}

		if err == nil {
			return result, nil
		}
		return nil, err
	}

	return nil, lastErr
}
