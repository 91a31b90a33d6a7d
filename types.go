package gorelay

// Language is a language code known to the registry (e.g., "en", "zh").
type Language string

const (
	// LangIndonesian is the source language of every translation.
	LangIndonesian Language = "id"
	// LangEnglish is English.
	LangEnglish Language = "en"
	// LangChinese is Chinese.
	LangChinese Language = "zh"
	// LangJapanese is Japanese.
	LangJapanese Language = "ja"
	// LangKorean is Korean.
	LangKorean Language = "ko"
)

// SourceLanguage is the fixed language of all input text.
const SourceLanguage = LangIndonesian

// ProviderID identifies an AI translation backend.
type ProviderID string

const (
	// ProviderOpenAI is the chat-completion backend.
	ProviderOpenAI ProviderID = "openai"
	// ProviderGemini is the Google generative backend.
	ProviderGemini ProviderID = "gemini"
)

// DefaultProvider is tried first when a request does not name a provider.
const DefaultProvider = ProviderOpenAI

// Request describes one fan-out translation call.
type Request struct {
	Text      string     // Indonesian source text
	Targets   []string   // Target language codes; empty means all supported targets
	Preferred ProviderID // Provider tried first (default: DefaultProvider)
}

// Outcome is the result of translating to a single language.
// Exactly one of Text or Error is set.
type Outcome struct {
	Language Language   `json:"-"`
	Text     string     `json:"text,omitempty"`
	Provider ProviderID `json:"service,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Succeeded reports whether the outcome carries a translation.
func (o Outcome) Succeeded() bool {
	return o.Error == ""
}

// Original is the untranslated input of a batch.
type Original struct {
	Language Language `json:"lang"`
	Text     string   `json:"text"`
}

// Stats summarizes a batch.
type Stats struct {
	Successful    int                `json:"successful"`
	Failed        int                `json:"failed"`
	ProviderUsage map[ProviderID]int `json:"provider_usage"`
}

// AggregateResult is the outcome of a fan-out translation call.
type AggregateResult struct {
	Original     Original             `json:"original"`
	Translations map[Language]Outcome `json:"translations"`
	Stats        Stats                `json:"stats"`
}

// add folds one outcome into the result.
func (r *AggregateResult) add(o Outcome) {
	r.Translations[o.Language] = o
	if !o.Succeeded() {
		r.Stats.Failed++
		return
	}
	r.Stats.Successful++
	r.Stats.ProviderUsage[o.Provider]++
}

func newAggregateResult(text string) *AggregateResult {
	return &AggregateResult{
		Original:     Original{Language: SourceLanguage, Text: text},
		Translations: make(map[Language]Outcome),
		Stats:        Stats{ProviderUsage: make(map[ProviderID]int)},
	}
}
