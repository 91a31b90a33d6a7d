package gorelay

import (
	"context"
	"sync"
	"time"
)

// RateLimitConfig caps the request rate sent to one provider.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained rate (default: 60)
	BurstSize         int // Bucket capacity (default: RequestsPerMinute)

	// OnThrottle, if set, is called when a call has to wait for a slot.
	OnThrottle func(provider ProviderID, wait time.Duration)
}

// RateLimiter is a token bucket refilled continuously at a fixed rate.
type RateLimiter struct {
	mu        sync.Mutex
	tokens    float64
	capacity  float64
	perSecond float64
	updated   time.Time
}

// NewRateLimiter creates a limiter that starts with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}
	capacity := float64(cfg.BurstSize)
	if capacity <= 0 {
		capacity = rpm
	}

	return &RateLimiter{
		tokens:    capacity,
		capacity:  capacity,
		perSecond: rpm / 60,
		updated:   time.Now(),
	}
}

// refill credits tokens for the time since the last update. Callers hold r.mu.
func (r *RateLimiter) refill(now time.Time) {
	r.tokens += now.Sub(r.updated).Seconds() * r.perSecond
	if r.tokens > r.capacity {
		r.tokens = r.capacity
	}
	r.updated = now
}

// deficit is the time until the bucket holds a whole token. Callers hold r.mu.
func (r *RateLimiter) deficit() time.Duration {
	if r.tokens >= 1 {
		return 0
	}
	wait := time.Duration((1 - r.tokens) / r.perSecond * float64(time.Second))
	if wait <= 0 {
		wait = time.Nanosecond
	}
	return wait
}

// reserve takes a token when one is available and otherwise reports how long
// until the bucket holds one. Callers hold r.mu.
func (r *RateLimiter) reserve(now time.Time) time.Duration {
	r.refill(now)
	if wait := r.deficit(); wait > 0 {
		return wait
	}
	r.tokens--
	return 0
}

// Delay reports how long a call arriving now would wait, without taking a token.
func (r *RateLimiter) Delay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill(time.Now())
	return r.deficit()
}

// Wait blocks until a token is taken or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		wait := r.reserve(time.Now())
		r.mu.Unlock()

		if wait == 0 {
			return nil
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
}

// TryAcquire takes a token if one is available right now.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reserve(time.Now()) == 0
}

// Available returns the current, possibly fractional, token count.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill(time.Now())
	return r.tokens
}

// RateLimitedProvider delays calls so the wrapped provider never sees more
// than the configured rate.
type RateLimitedProvider struct {
	provider   Provider
	limiter    *RateLimiter
	onThrottle func(ProviderID, time.Duration)
}

// NewRateLimitedProvider wraps provider with its own token bucket.
func NewRateLimitedProvider(provider Provider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider:   provider,
		limiter:    NewRateLimiter(cfg),
		onThrottle: cfg.OnThrottle,
	}
}

// Name returns the name of the wrapped provider.
func (p *RateLimitedProvider) Name() ProviderID {
	return p.provider.Name()
}

// Unwrap returns the wrapped provider.
func (p *RateLimitedProvider) Unwrap() Provider {
	return p.provider
}

// Translate waits for a slot and then calls the wrapped provider. A wait cut
// short by ctx is reported as a non-retryable provider error.
func (p *RateLimitedProvider) Translate(ctx context.Context, prompt string) (string, error) {
	if p.onThrottle != nil {
		if wait := p.limiter.Delay(); wait > 0 {
			p.onThrottle(p.provider.Name(), wait)
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{
			Provider: p.provider.Name(),
			Message:  "rate limit wait cancelled",
			Cause:    err,
		}
	}

	return p.provider.Translate(ctx, prompt)
}

// Limiter returns the underlying bucket.
func (p *RateLimitedProvider) Limiter() *RateLimiter {
	return p.limiter
}

var _ Provider = (*RateLimitedProvider)(nil)
