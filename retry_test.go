package gorelay

import (
	"context"
	"errors"
	"testing"
	"time"
)

// failingProvider fails with a retryable error for the first failCount calls.
type failingProvider struct {
	failCount int
	callCount int
	err       error // returned instead of the retryable error when set
}

func (p *failingProvider) Name() ProviderID {
	return ProviderOpenAI
}

func (p *failingProvider) Translate(ctx context.Context, prompt string) (string, error) {
	p.callCount++
	if p.err != nil {
		return "", p.err
	}
	if p.callCount <= p.failCount {
		return "", &ProviderError{Provider: ProviderOpenAI, Message: "temporary failure", Retryable: true}
	}
	return "translated", nil
}

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestRetryableProvider(t *testing.T) {
	inner := &failingProvider{failCount: 2}
	provider := NewRetryableProvider(inner, fastRetry(3))

	if provider.Name() != ProviderOpenAI {
		t.Errorf("Expected wrapped name, got %s", provider.Name())
	}

	result, err := provider.Translate(context.Background(), BuildPrompt("halo", "English"))
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if result != "translated" {
		t.Errorf("Unexpected result: %q", result)
	}
	if inner.callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.callCount)
	}
}

func TestRetryableProvider_FirstCallSucceeds(t *testing.T) {
	inner := &failingProvider{}

	if _, err := NewRetryableProvider(inner, fastRetry(3)).Translate(context.Background(), "prompt"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if inner.callCount != 1 {
		t.Errorf("Expected 1 call, got %d", inner.callCount)
	}
}

func TestRetryableProvider_GivesUp(t *testing.T) {
	inner := &failingProvider{failCount: 10}

	_, err := NewRetryableProvider(inner, fastRetry(1)).Translate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error after retries are exhausted")
	}

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Errorf("Expected ProviderError, got %T", err)
	}

	// Initial call + 1 retry
	if inner.callCount != 2 {
		t.Errorf("Expected 2 calls, got %d", inner.callCount)
	}
}

func TestRetryableProvider_PermanentError(t *testing.T) {
	inner := &failingProvider{err: &ProviderError{Provider: ProviderOpenAI, Message: "invalid API key"}}

	_, err := NewRetryableProvider(inner, fastRetry(3)).Translate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for non-retryable failure")
	}
	if inner.callCount != 1 {
		t.Errorf("Expected 1 call for non-retryable error, got %d", inner.callCount)
	}
}

func TestRetryableProvider_OnRetry(t *testing.T) {
	inner := &failingProvider{failCount: 2}
	cfg := fastRetry(3)

	var events []RetryEvent
	cfg.OnRetry = func(ev RetryEvent) {
		events = append(events, ev)
	}

	if _, err := NewRetryableProvider(inner, cfg).Translate(context.Background(), "prompt"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 retry events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Attempt != i+1 {
			t.Errorf("event %d: Attempt = %d", i, ev.Attempt)
		}
		if ev.Provider != ProviderOpenAI {
			t.Errorf("event %d: Provider = %s", i, ev.Provider)
		}
		if !IsRetryable(ev.Err) {
			t.Errorf("event %d: unexpected error %v", i, ev.Err)
		}
	}
	if events[0].Delay != time.Millisecond || events[1].Delay != 2*time.Millisecond {
		t.Errorf("Unexpected delays: %v, %v", events[0].Delay, events[1].Delay)
	}
}

func TestRetryableProvider_ContextCanceled(t *testing.T) {
	inner := &failingProvider{failCount: 10}
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewRetryableProvider(inner, cfg).Translate(ctx, "prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Backoff should stop on cancellation, took %v", elapsed)
	}
	if inner.callCount != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", inner.callCount)
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	tests := []struct {
		retry    int
		expected time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{100, time.Second},
	}

	for _, tt := range tests {
		if got := cfg.Backoff(tt.retry); got != tt.expected {
			t.Errorf("Backoff(%d) = %v, want %v", tt.retry, got, tt.expected)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable provider error", &ProviderError{Retryable: true}, true},
		{"non-retryable provider error", &ProviderError{Retryable: false}, false},
		{"generic error", errors.New("some error"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryable(tt.err)
			if result != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries 3, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelay != 1*time.Second {
		t.Errorf("Expected BaseDelay 1s, got %v", cfg.BaseDelay)
	}
	if cfg.MaxDelay != 30*time.Second {
		t.Errorf("Expected MaxDelay 30s, got %v", cfg.MaxDelay)
	}
}
