package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockProvider is a mock AI provider for testing and dry runs.
// It is safe for concurrent use.
type MockProvider struct {
	ID           ProviderID        // Name reported by the provider
	Translations map[string]string // Map of target language name to translation
	Failures     map[string]error  // Map of target language name to error
	Err          error             // Returned for every call when set

	mu    sync.Mutex
	calls []string
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider(id ProviderID) *MockProvider {
	return &MockProvider{
		ID: id,
		Translations: map[string]string{
			"English":  "I am a great person",
			"Chinese":  "我是一个伟大的人",
			"Japanese": "私は素晴らしい人です",
			"Korean":   "나는 훌륭한 사람입니다",
		},
		Failures: make(map[string]error),
	}
}

// Name returns the configured provider ID.
func (m *MockProvider) Name() ProviderID {
	return m.ID
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if m.Err != nil {
		return "", m.Err
	}

	for name, err := range m.Failures {
		if targetsLanguage(prompt, name) {
			return "", err
		}
	}

	for name, translation := range m.Translations {
		if targetsLanguage(prompt, name) {
			return translation, nil
		}
	}

	// Return bracketed text for unknown translations
	return fmt.Sprintf("[%s]", sourceText(prompt)), nil
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns the prompts received, in call order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Reset clears the recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// targetsLanguage reports whether a prompt built by gorelay.BuildPrompt asks for name.
func targetsLanguage(prompt, name string) bool {
	return strings.Contains(prompt, " text to "+name+".")
}

// sourceText extracts the text to translate from a prompt.
func sourceText(prompt string) string {
	const marker = "Text to translate: "
	if i := strings.LastIndex(prompt, marker); i >= 0 {
		return prompt[i+len(marker):]
	}
	return prompt
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
