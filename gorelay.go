// Package gorelay provides an AI-powered translation relay for Indonesian text.
//
// Gorelay builds a translation prompt for each requested target language,
// sends it to a primary AI provider (OpenAI, Gemini) and falls back to a
// secondary provider when the primary call fails. Per-language failures are
// reported inline in the result and never abort the rest of the batch.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/gorelay"
//	    "github.com/ZaguanLabs/gorelay/provider"
//	)
//
//	func main() {
//	    // Create providers
//	    openai := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//	    gemini, err := provider.NewGeminiProvider(ctx, provider.GeminiConfig{
//	        APIKey: os.Getenv("GEMINI_API_KEY"),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Create relay
//	    r := gorelay.NewRelay(openai, gemini)
//
//	    // Translate to every supported language
//	    result, err := r.TranslateAll(ctx, "saya adalah seorang yang hebat", gorelay.ProviderOpenAI)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Translations[gorelay.LangEnglish].Text) // I am a great person
//	}
package gorelay
