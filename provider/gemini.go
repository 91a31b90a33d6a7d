package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ZaguanLabs/gorelay"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider using Google's Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey  string // Gemini API key
	Model   string // Model to use (default: "gemini-2.0-flash")
	BaseURL string // Custom base URL (optional)
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Name returns gorelay.ProviderGemini.
func (p *GeminiProvider) Name() ProviderID {
	return gorelay.ProviderGemini
}

// Model returns the configured model name.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Translate sends the prompt as a single-turn generation request.
// The returned text is not trimmed.
func (p *GeminiProvider) Translate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &gorelay.ProviderError{
			Provider:  gorelay.ProviderGemini,
			Message:   "Gemini API call failed",
			Cause:     err,
			Retryable: isGeminiRetryable(err),
		}
	}

	text := resp.Text()
	if text == "" {
		return "", &gorelay.ProviderError{
			Provider: gorelay.ProviderGemini,
			Message:  "empty response from Gemini",
		}
	}

	return text, nil
}

// isGeminiRetryable classifies genai errors by HTTP status and falls back to
// the shared message heuristics for transport failures.
func isGeminiRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}
	return isRetryableError(err)
}

// Verify GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)
