// Package provider defines the AI provider interface and implementations.
package provider

import "github.com/ZaguanLabs/gorelay"

// Provider is the interface for AI translation backends.
// This is an alias to the main package interface for convenience.
type Provider = gorelay.Provider

// ProviderID is an alias to the main package type.
type ProviderID = gorelay.ProviderID
