package bilingo

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures request pacing.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: 1)
}

// NewRateLimiter creates a token-bucket limiter from cfg.
// A non-positive RequestsPerMinute yields an unlimited limiter.
func NewRateLimiter(cfg RateLimitConfig) *rate.Limiter {
	if cfg.RequestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}

	perSecond := float64(cfg.RequestsPerMinute) / 60.0
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// RateLimitedTransport paces calls to the wrapped transport.
type RateLimitedTransport struct {
	transport Transport
	limiter   *rate.Limiter
}

// NewRateLimitedTransport creates a new rate-limited transport.
func NewRateLimitedTransport(transport Transport, cfg RateLimitConfig) *RateLimitedTransport {
	return &RateLimitedTransport{
		transport: transport,
		limiter:   NewRateLimiter(cfg),
	}
}

// Complete implements Transport with rate limiting.
func (t *RateLimitedTransport) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{
			Message: "rate limit wait cancelled",
			Cause:   err,
		}
	}

	return t.transport.Complete(ctx, req)
}

// Limiter returns the underlying rate limiter for inspection.
func (t *RateLimitedTransport) Limiter() *rate.Limiter {
	return t.limiter
}

var _ Transport = (*RateLimitedTransport)(nil)
