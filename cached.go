package gorelay

import "context"

// TranslationCache is the interface for caching provider responses.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// CachedProvider wraps a Provider with a response cache.
// Responses are keyed by prompt hash and provider; errors are never cached.
type CachedProvider struct {
	provider Provider
	cache    TranslationCache
}

// NewCachedProvider creates a provider that consults cache before calling provider.
func NewCachedProvider(provider Provider, cache TranslationCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
	}
}

// Name returns the name of the wrapped provider.
func (p *CachedProvider) Name() ProviderID {
	return p.provider.Name()
}

// Translate implements Provider, serving repeated prompts from the cache.
func (p *CachedProvider) Translate(ctx context.Context, prompt string) (string, error) {
	key := p.key(prompt)

	if cached, ok := p.cache.Get(key); ok {
		return cached, nil
	}

	result, err := p.provider.Translate(ctx, prompt)
	if err != nil {
		return "", err
	}

	_ = p.cache.Set(key, result) // Ignore cache set errors
	return result, nil
}

// Unwrap returns the wrapped provider.
func (p *CachedProvider) Unwrap() Provider {
	return p.provider
}

func (p *CachedProvider) key(prompt string) string {
	hash := HashText(prompt)
	if model := modelOf(p.provider); model != "" {
		return CacheKeyExtended(hash, p.provider.Name(), model)
	}
	return CacheKey(hash, p.provider.Name())
}

// modelOf returns the model name of the innermost provider, looking through
// decorators that expose Unwrap.
func modelOf(p Provider) string {
	for p != nil {
		if m, ok := p.(interface{ Model() string }); ok {
			return m.Model()
		}
		u, ok := p.(interface{ Unwrap() Provider })
		if !ok {
			return ""
		}
		p = u.Unwrap()
	}
	return ""
}

var _ Provider = (*CachedProvider)(nil)
