package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/gorelay"
	"github.com/ZaguanLabs/gorelay/cache"
	"github.com/ZaguanLabs/gorelay/internal/config"
	"github.com/ZaguanLabs/gorelay/provider"
)

// responseCache is the provider response cache shared by both providers.
type responseCache struct {
	store    gorelay.TranslationCache
	snapshot string
	logger   zerolog.Logger
}

// openCache returns nil when caching is disabled.
func openCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*responseCache, error) {
	if !cfg.CacheEnabled() {
		return nil, nil
	}

	rc := &responseCache{snapshot: cfg.CacheSnapshot, logger: logger}

	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL: cfg.RedisURL,
			TTL: cfg.CacheTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		rc.store = redisCache
		logger.Info().Msg("using redis response cache")
	} else {
		rc.store = cache.NewInMemoryCacheWithLimit(cfg.CacheTTL, cfg.CacheMaxEntries)
		logger.Info().Int("ttl_seconds", cfg.CacheTTL).Msg("using in-memory response cache")
	}

	if rc.snapshot != "" {
		result, err := cache.NewImporter(rc.store).ImportFromFile(rc.snapshot)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug().Str("path", rc.snapshot).Msg("no cache snapshot to import")
		case err != nil:
			logger.Warn().Err(err).Str("path", rc.snapshot).Msg("cache snapshot import failed")
		default:
			logger.Info().Int("imported", result.Imported).Int("failed", result.Failed).Msg("cache snapshot imported")
		}
	}

	return rc, nil
}

// Close writes the snapshot, when configured, and releases the store.
func (rc *responseCache) Close(ctx context.Context) error {
	if rc == nil {
		return nil
	}

	if rc.snapshot != "" {
		n, err := cache.NewExporter(rc.store).ExportToFile(ctx, rc.snapshot, map[string]string{"version": gorelay.FullVersion()})
		if err != nil {
			rc.logger.Error().Err(err).Str("path", rc.snapshot).Msg("cache snapshot export failed")
		} else {
			rc.logger.Info().Int("entries", n).Str("path", rc.snapshot).Msg("cache snapshot exported")
		}
	}

	if closer, ok := rc.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// buildProviders creates the configured providers, wrapped as
// cache -> retry -> rate limit -> client.
func buildProviders(ctx context.Context, cfg *config.Config, rc *responseCache, logger zerolog.Logger) ([]gorelay.Provider, error) {
	var providers []gorelay.Provider

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}))
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := provider.NewGeminiProvider(ctx, provider.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, gemini)
	}

	for i, p := range providers {
		providers[i] = decorate(p, cfg, rc, logger)
	}
	return providers, nil
}

func decorate(p gorelay.Provider, cfg *config.Config, rc *responseCache, logger zerolog.Logger) gorelay.Provider {
	if cfg.ProviderRPM > 0 {
		p = gorelay.NewRateLimitedProvider(p, gorelay.RateLimitConfig{
			RequestsPerMinute: cfg.ProviderRPM,
			OnThrottle: func(id gorelay.ProviderID, wait time.Duration) {
				logger.Debug().Str("provider", string(id)).Dur("wait", wait).Msg("provider rate limited")
			},
		})
	}
	if cfg.ProviderMaxRetries > 0 {
		retry := gorelay.DefaultRetryConfig()
		retry.MaxRetries = cfg.ProviderMaxRetries
		retry.OnRetry = func(ev gorelay.RetryEvent) {
			logger.Warn().
				Err(ev.Err).
				Str("provider", string(ev.Provider)).
				Int("attempt", ev.Attempt).
				Dur("delay", ev.Delay).
				Msg("retrying provider call")
		}
		p = gorelay.NewRetryableProvider(p, retry)
	}
	if rc != nil {
		p = gorelay.NewCachedProvider(p, rc.store)
	}
	return p
}

// newRelay puts preferred first so it also becomes the library default order.
func newRelay(providers []gorelay.Provider, preferred gorelay.ProviderID, concurrency int, cfg *config.Config, logger zerolog.Logger) (*gorelay.Relay, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("no translation provider configured")
	}

	var primary, secondary gorelay.Provider
	for _, p := range providers {
		switch {
		case p.Name() == preferred && primary == nil:
			primary = p
		case secondary == nil:
			secondary = p
		}
	}
	if primary == nil {
		primary, secondary = secondary, nil
	}

	opts := []gorelay.RelayOption{
		gorelay.WithLogger(logger),
		gorelay.WithConcurrency(concurrency),
	}
	if cfg != nil && cfg.ProviderTimeout > 0 {
		opts = append(opts, gorelay.WithProviderTimeout(cfg.ProviderTimeout))
	}

	return gorelay.NewRelay(primary, secondary, opts...), nil
}
