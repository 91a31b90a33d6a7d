package gorelay

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a prompt hash and the provider that answered it.
func CacheKey(hash string, provider ProviderID) string {
	return hash + ":" + string(provider)
}

// CacheKeyExtended generates a cache key that also includes the model name.
// Use this when one provider is configured with several models.
func CacheKeyExtended(hash string, provider ProviderID, model string) string {
	return hash + ":" + string(provider) + ":" + model
}
