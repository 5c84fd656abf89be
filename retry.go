package bilingo

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Retries after the first attempt
	Timeout    time.Duration // Per-attempt timeout (0 = none)
	BaseDelay  time.Duration // Backoff step; attempt i waits (i+1)*BaseDelay
	Jitter     time.Duration // Random extra delay in [0, Jitter)
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: DefaultMaxRetries,
		Timeout:    DefaultSingleTimeout,
		BaseDelay:  2 * time.Second,
		Jitter:     1 * time.Second,
	}
}

// Backoff returns the delay between attempt and attempt+1 (0-indexed).
func (c RetryConfig) Backoff(attempt int) time.Duration {
	delay := time.Duration(attempt+1) * c.BaseDelay
	if c.Jitter > 0 {
		delay += rand.N(c.Jitter)
	}
	return delay
}

// RetryFunc is a function that can be retried. It receives a context bounded
// by the per-attempt timeout.
type RetryFunc[T any] func(ctx context.Context) (T, error)

// WithRetry executes fn with per-attempt timeouts and linear backoff plus
// jitter. Every failure is retried; only the final failure is returned,
// wrapped in a TransportError.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, log zerolog.Logger, fn RetryFunc[T]) (T, error) {
	var zero T
	var lastErr error

	attempts := 0
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				return zero, err
			}
			break
		}

		attempts++
		result, err := runAttempt(ctx, cfg.Timeout, fn)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Parent cancellation is not a transport failure
		if ctx.Err() != nil {
			break
		}

		if attempt < cfg.MaxRetries {
			delay := cfg.Backoff(attempt)
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Int("max_attempts", cfg.MaxRetries+1).
				Dur("backoff", delay).
				Msg("backend request failed, retrying")

			select {
			case <-ctx.Done():
				return zero, &TransportError{Attempts: attempts, Cause: lastErr}
			case <-time.After(delay):
			}
		}
	}

	return zero, &TransportError{Attempts: attempts, Cause: lastErr}
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, fn RetryFunc[T]) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}

// RetryingTransport wraps a Transport with timeout and retry logic.
type RetryingTransport struct {
	transport Transport
	config    RetryConfig
	log       zerolog.Logger
}

// RetryOption configures a RetryingTransport.
type RetryOption func(*RetryingTransport)

// WithRetryLogger sets the logger used to report failed attempts.
func WithRetryLogger(log zerolog.Logger) RetryOption {
	return func(t *RetryingTransport) {
		t.log = log
	}
}

// NewRetryingTransport creates a new transport with retry logic.
func NewRetryingTransport(transport Transport, cfg RetryConfig, opts ...RetryOption) *RetryingTransport {
	t := &RetryingTransport{
		transport: transport,
		config:    cfg,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Complete implements Transport with retry logic.
func (t *RetryingTransport) Complete(ctx context.Context, req ChatRequest) (string, error) {
	return WithRetry(ctx, t.config, t.log, func(ctx context.Context) (string, error) {
		return t.transport.Complete(ctx, req)
	})
}

// Config returns the retry configuration.
func (t *RetryingTransport) Config() RetryConfig {
	return t.config
}

var _ Transport = (*RetryingTransport)(nil)
