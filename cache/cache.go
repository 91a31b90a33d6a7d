// Package cache provides provider response caching implementations.
package cache

import "github.com/ZaguanLabs/gorelay"

// TranslationCache is the interface for provider response caching.
// This is an alias to the main package interface for convenience.
type TranslationCache = gorelay.TranslationCache

// DefaultKeyPrefix namespaces shared cache keys.
const DefaultKeyPrefix = "gorelay:"
