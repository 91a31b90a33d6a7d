package gorelay

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls how often a single provider is re-asked before the
// failover moves on.
type RetryConfig struct {
	MaxRetries int           // Retries after the first call
	BaseDelay  time.Duration // Delay before the first retry, doubled per retry
	MaxDelay   time.Duration // Upper bound for a single delay

	// OnRetry, if set, is called before each sleep.
	OnRetry func(RetryEvent)
}

// RetryEvent describes a failed provider call that is about to be retried.
type RetryEvent struct {
	Provider ProviderID
	Attempt  int // 1 for the first retry
	Delay    time.Duration
	Err      error
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// Backoff returns the delay before retry n (1-based).
func (c RetryConfig) Backoff(n int) time.Duration {
	if n < 1 || c.BaseDelay <= 0 {
		return 0
	}
	delay := c.BaseDelay
	for i := 1; i < n; i++ {
		delay *= 2
		if c.MaxDelay > 0 && delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// IsRetryable reports whether err is a provider failure marked as transient.
// Cancellation and deadlines are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryableProvider re-asks the same provider on transient failures.
// Retries happen before the failover hop: the secondary provider is only
// tried once the primary has exhausted its retries.
type RetryableProvider struct {
	provider Provider
	config   RetryConfig
}

// NewRetryableProvider wraps provider with the given retry policy.
func NewRetryableProvider(provider Provider, cfg RetryConfig) *RetryableProvider {
	return &RetryableProvider{
		provider: provider,
		config:   cfg,
	}
}

// Name returns the name of the wrapped provider.
func (p *RetryableProvider) Name() ProviderID {
	return p.provider.Name()
}

// Unwrap returns the wrapped provider.
func (p *RetryableProvider) Unwrap() Provider {
	return p.provider
}

// Translate calls the wrapped provider until it succeeds, fails permanently
// or runs out of retries. The last provider error is returned unchanged.
func (p *RetryableProvider) Translate(ctx context.Context, prompt string) (string, error) {
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		result, err := p.provider.Translate(ctx, prompt)
		if err == nil {
			return result, nil
		}
		if n >= p.config.MaxRetries || !IsRetryable(err) {
			return "", err
		}

		delay := p.config.Backoff(n + 1)
		if p.config.OnRetry != nil {
			p.config.OnRetry(RetryEvent{
				Provider: p.provider.Name(),
				Attempt:  n + 1,
				Delay:    delay,
				Err:      err,
			})
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return "", err
		}
	}
}

var _ Provider = (*RetryableProvider)(nil)
