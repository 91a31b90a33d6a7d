package gorelay

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Provider is the interface for AI translation backends.
type Provider interface {
	// Name identifies the backend in outcomes and statistics.
	Name() ProviderID
	// Translate sends a complete prompt and returns the model's answer.
	Translate(ctx context.Context, prompt string) (string, error)
}

// Relay fans a text out to several target languages.
type Relay struct {
	failover    *Failover
	preferred   ProviderID
	concurrency int
	logger      zerolog.Logger
}

// RelayOption is a functional option for configuring the Relay.
type RelayOption func(*Relay)

// WithLogger sets the logger used for batch and failover events.
func WithLogger(logger zerolog.Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
		r.failover.logger = logger
	}
}

// WithConcurrency bounds the number of languages translated at once.
// 0 translates every language in parallel, 1 translates sequentially.
func WithConcurrency(n int) RelayOption {
	return func(r *Relay) {
		if n < 0 {
			n = 0
		}
		r.concurrency = n
	}
}

// WithProviderTimeout bounds every single provider call.
func WithProviderTimeout(d time.Duration) RelayOption {
	return func(r *Relay) {
		r.failover.timeout = d
	}
}

// WithDefaultProvider sets the provider tried first when a request has no preference.
func WithDefaultProvider(id ProviderID) RelayOption {
	return func(r *Relay) {
		r.preferred = id
	}
}

// NewRelay creates a Relay. By default primary is tried before secondary.
func NewRelay(primary, secondary Provider, opts ...RelayOption) *Relay {
	r := &Relay{
		failover: NewFailover(primary, secondary),
		logger:   zerolog.Nop(),
	}

	if primary != nil {
		r.preferred = primary.Name()
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// TranslateAll translates text into every supported target language.
func (r *Relay) TranslateAll(ctx context.Context, text string, preferred ProviderID) (*AggregateResult, error) {
	return r.Translate(ctx, Request{Text: text, Preferred: preferred})
}

// Translate translates text into the requested languages.
// The only error returned is a ValidationError; per-language failures are
// reported in the result.
func (r *Relay) Translate(ctx context.Context, req Request) (*AggregateResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Field: "text", Message: "is required"}
	}

	targets := r.targets(req.Targets)
	preferred := req.Preferred
	if preferred == "" {
		preferred = r.preferred
	}

	batchID := uuid.NewString()
	logger := r.logger.With().Str("batch_id", batchID).Logger()
	logger.Info().
		Int("languages", len(targets)).
		Str("preferred", string(preferred)).
		Msg("starting translation batch")

	start := time.Now()
	outcomes := r.dispatch(ctx, req.Text, targets, preferred)

	result := newAggregateResult(req.Text)
	for _, o := range outcomes {
		result.add(o)
	}

	logger.Info().
		Int("successful", result.Stats.Successful).
		Int("failed", result.Stats.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("translation batch finished")

	return result, nil
}

// TranslateOne translates text into a single language.
func (r *Relay) TranslateOne(ctx context.Context, text, code string, preferred ProviderID) Outcome {
	if preferred == "" {
		preferred = r.preferred
	}
	return r.failover.Translate(ctx, text, code, preferred)
}

// Providers returns the configured provider names in default order.
func (r *Relay) Providers() []ProviderID {
	return r.failover.Providers()
}

// targets normalizes the requested codes. Codes that normalize to the same
// language are translated once.
func (r *Relay) targets(requested []string) []string {
	if len(requested) == 0 {
		all := TargetLanguages()
		codes := make([]string, len(all))
		for i, lang := range all {
			codes[i] = string(lang)
		}
		return codes
	}

	codes := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, code := range requested {
		normalized := NormalizeCode(code)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		codes = append(codes, code)
	}
	return codes
}

// dispatch runs the failover for every code and returns outcomes in code order.
func (r *Relay) dispatch(ctx context.Context, text string, codes []string, preferred ProviderID) []Outcome {
	outcomes := make([]Outcome, len(codes))

	if r.concurrency == 1 || len(codes) <= 1 {
		for i, code := range codes {
			outcomes[i] = r.failover.Translate(ctx, text, code, preferred)
		}
		return outcomes
	}

	limit := r.concurrency
	if limit == 0 || limit > len(codes) {
		limit = len(codes)
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// Each goroutine owns a distinct slot
			outcomes[i] = r.failover.Translate(ctx, text, code, preferred)
		}(i, code)
	}
	wg.Wait()

	return outcomes
}
