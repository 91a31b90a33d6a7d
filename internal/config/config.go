package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ZaguanLabs/gorelay"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	PreferredProvider    string        `envconfig:"PREFERRED_PROVIDER" default:"openai"`
	TranslateOrder       string        `envconfig:"TRANSLATE_PROVIDER_ORDER" default:"gemini,openai"`
	TranslateConcurrency int           `envconfig:"TRANSLATE_CONCURRENCY" default:"0"`
	ProviderTimeout      time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"60s"`
	ProviderMaxRetries   int           `envconfig:"PROVIDER_MAX_RETRIES" default:"0"`
	ProviderRPM          int           `envconfig:"PROVIDER_RPM" default:"0"`

	CacheTTL        int    `envconfig:"CACHE_TTL" default:"0"`
	CacheMaxEntries int    `envconfig:"CACHE_MAX_ENTRIES" default:"10000"`
	RedisURL        string `envconfig:"REDIS_URL"`
	CacheSnapshot   string `envconfig:"CACHE_SNAPSHOT"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" && strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY or GEMINI_API_KEY is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !isProvider(c.PreferredProvider) {
		return fmt.Errorf("PREFERRED_PROVIDER must be openai or gemini, got %q", c.PreferredProvider)
	}
	order := c.TranslateProviderOrder()
	if len(order) == 0 {
		return fmt.Errorf("TRANSLATE_PROVIDER_ORDER is required")
	}
	for _, id := range order {
		if !isProvider(string(id)) {
			return fmt.Errorf("TRANSLATE_PROVIDER_ORDER contains unknown provider %q", id)
		}
	}
	if c.TranslateConcurrency < 0 {
		return fmt.Errorf("TRANSLATE_CONCURRENCY must be >= 0")
	}
	if c.ProviderTimeout < 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be >= 0")
	}
	if c.ProviderMaxRetries < 0 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must be >= 0")
	}
	if c.ProviderRPM < 0 {
		return fmt.Errorf("PROVIDER_RPM must be >= 0")
	}
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be >= 0")
	}
	return nil
}

// Preferred returns the provider tried first by batch translations.
func (c *Config) Preferred() gorelay.ProviderID {
	return gorelay.ProviderID(strings.ToLower(strings.TrimSpace(c.PreferredProvider)))
}

// TranslateProviderOrder returns the attempt order for POST /translate.
func (c *Config) TranslateProviderOrder() []gorelay.ProviderID {
	parts := strings.Split(c.TranslateOrder, ",")
	order := make([]gorelay.ProviderID, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		id := strings.ToLower(strings.TrimSpace(part))
		if id == "" {
			continue
		}
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, gorelay.ProviderID(id))
	}
	return order
}

// CacheEnabled reports whether provider responses should be cached.
func (c *Config) CacheEnabled() bool {
	return c.CacheTTL > 0 || strings.TrimSpace(c.RedisURL) != ""
}

func isProvider(id string) bool {
	switch gorelay.ProviderID(strings.ToLower(strings.TrimSpace(id))) {
	case gorelay.ProviderOpenAI, gorelay.ProviderGemini:
		return true
	}
	return false
}
