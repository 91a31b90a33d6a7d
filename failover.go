package gorelay

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// genericFailure is reported when no provider produced an error message.
const genericFailure = "translation failed"

// Failover translates one language at a time, trying providers in an explicit
// order. Every call ends in exactly one Outcome; provider failures are never
// returned as errors.
type Failover struct {
	providers map[ProviderID]Provider
	order     []ProviderID // Default attempt order
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewFailover creates an orchestrator whose default order is the order of providers.
// Nil providers are skipped.
func NewFailover(providers ...Provider) *Failover {
	f := &Failover{
		providers: make(map[ProviderID]Provider, len(providers)),
		logger:    zerolog.Nop(),
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		if _, exists := f.providers[p.Name()]; exists {
			continue
		}
		f.providers[p.Name()] = p
		f.order = append(f.order, p.Name())
	}
	return f
}

// Order returns the providers to attempt, preferred first.
// An empty or unknown preference keeps the default order.
func (f *Failover) Order(preferred ProviderID) []ProviderID {
	order := make([]ProviderID, 0, len(f.order))
	if _, ok := f.providers[preferred]; ok {
		order = append(order, preferred)
	}
	for _, id := range f.order {
		if id != preferred {
			order = append(order, id)
		}
	}
	return order
}

// Providers returns the configured provider names in default order.
func (f *Failover) Providers() []ProviderID {
	return append([]ProviderID(nil), f.order...)
}

// Translate resolves one target language to an Outcome.
//
// Unsupported codes fail without calling any provider. Otherwise each
// provider in Order(preferred) is attempted once; the first success wins and
// the last error becomes the failure message when all of them fail.
func (f *Failover) Translate(ctx context.Context, text, code string, preferred ProviderID) Outcome {
	lang := Language(NormalizeCode(code))

	name, err := ResolveLanguage(code)
	if err != nil {
		f.logger.Debug().Str("lang", code).Msg("skipping unsupported language")
		return Outcome{Language: lang, Error: err.Error()}
	}

	prompt := BuildPrompt(text, name)

	var attempts []error
	for _, id := range f.Order(preferred) {
		translated, err := f.attempt(ctx, f.providers[id], prompt)
		if err == nil {
			if len(attempts) > 0 {
				f.logger.Info().Str("lang", string(lang)).Str("provider", string(id)).Msg("fallback provider succeeded")
			}
			return Outcome{Language: lang, Text: translated, Provider: id}
		}

		attempts = append(attempts, err)
		f.logger.Warn().Err(err).Str("lang", string(lang)).Str("provider", string(id)).Msg("provider failed")
	}

	failure := &FailoverError{Language: lang, Attempts: attempts}
	f.logger.Error().Err(failure).Str("lang", string(lang)).Msg("all providers failed")

	return Outcome{Language: lang, Error: failureMessage(failure)}
}

// attempt performs a single provider call. A panicking provider counts as a
// failed attempt.
func (f *Failover) attempt(ctx context.Context, p Provider, prompt string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().
				Str("provider", string(p.Name())).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("provider panicked")
			result, err = "", &ProviderError{
				Provider: p.Name(),
				Message:  "provider panicked",
				Cause:    fmt.Errorf("%v", r),
			}
		}
	}()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	result, err = p.Translate(ctx, prompt)
	if err != nil {
		return "", err
	}

	// Providers are not required to trim
	return strings.TrimSpace(result), nil
}

// failureMessage returns the message of the last attempt.
func failureMessage(err *FailoverError) string {
	last := err.Last()
	if last == nil || strings.TrimSpace(last.Error()) == "" {
		return genericFailure
	}
	return last.Error()
}
