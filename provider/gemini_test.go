package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZaguanLabs/gorelay"
	"google.golang.org/genai"
)

func newGeminiTestProvider(t *testing.T, status int, body string, gotBody *string) *GeminiProvider {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if gotBody != nil {
			data, _ := io.ReadAll(r.Body)
			*gotBody = string(data)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test",
		Model:   "gemini-test",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewGeminiProvider failed: %v", err)
	}
	return p
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{})
	if err == nil {
		t.Error("Expected error without API key")
	}
}

func TestGeminiProvider_Translate(t *testing.T) {
	var body string
	p := newGeminiTestProvider(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "Great\n"}]}, "finishReason": "STOP"}]
	}`, &body)

	if p.Name() != gorelay.ProviderGemini {
		t.Errorf("Expected gemini, got %s", p.Name())
	}

	prompt := gorelay.BuildPrompt("hebat", "English")
	result, err := p.Translate(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	// Gemini output is returned as-is; the relay trims it
	if result != "Great\n" {
		t.Errorf("Expected untrimmed text, got %q", result)
	}

	if !strings.Contains(body, "hebat") || !strings.Contains(body, "English") {
		t.Errorf("Request should carry the prompt, got: %s", body)
	}
}

func TestGeminiProvider_APIError(t *testing.T) {
	p := newGeminiTestProvider(t, http.StatusBadRequest,
		`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`, nil)

	_, err := p.Translate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for API failure")
	}

	var providerErr *gorelay.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
	if providerErr.Provider != gorelay.ProviderGemini {
		t.Errorf("Expected gemini provider, got %s", providerErr.Provider)
	}
}

func TestGeminiProvider_EmptyResponse(t *testing.T) {
	p := newGeminiTestProvider(t, http.StatusOK, `{"candidates": []}`, nil)

	if _, err := p.Translate(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for empty response")
	}
}

func TestGeminiProvider_RetryClassification(t *testing.T) {
	tests := []struct {
		status    int
		body      string
		retryable bool
	}{
		{http.StatusTooManyRequests, `{"error": {"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"}}`, true},
		{http.StatusServiceUnavailable, `{"error": {"code": 503, "message": "The model is overloaded", "status": "UNAVAILABLE"}}`, true},
		{http.StatusBadRequest, `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`, false},
		{http.StatusNotFound, `{"error": {"code": 404, "message": "model not found", "status": "NOT_FOUND"}}`, false},
	}

	for _, tt := range tests {
		p := newGeminiTestProvider(t, tt.status, tt.body, nil)

		_, err := p.Translate(context.Background(), "prompt")
		var providerErr *gorelay.ProviderError
		if !errors.As(err, &providerErr) {
			t.Fatalf("status %d: expected ProviderError, got %T", tt.status, err)
		}
		if providerErr.Retryable != tt.retryable {
			t.Errorf("status %d: Retryable = %v, want %v", tt.status, providerErr.Retryable, tt.retryable)
		}
	}
}

func TestIsGeminiRetryable(t *testing.T) {
	if !isGeminiRetryable(genai.APIError{Code: 500}) {
		t.Error("500 should be retryable")
	}
	if isGeminiRetryable(fmt.Errorf("wrapped: %w", genai.APIError{Code: 403})) {
		t.Error("403 should not be retryable")
	}
	if isGeminiRetryable(context.DeadlineExceeded) {
		t.Error("Deadline should not be retryable")
	}
	if !isGeminiRetryable(errors.New("dial tcp: connection refused")) {
		t.Error("Connection refused should be retryable")
	}
}
