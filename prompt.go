package gorelay

import "fmt"

// SystemPrompt is the persona given to chat-style providers.
const SystemPrompt = "You are a professional translator with expertise in Indonesian, English, Chinese, Japanese, and Korean languages."

// BuildPrompt returns the instruction sent to a provider for one target language.
// The source text and target name are embedded verbatim.
func BuildPrompt(sourceText, targetName string) string {
	return fmt.Sprintf(`Translate the following Indonesian text to %s.
Maintain the original context, meaning, and formatting.
Only provide the translation without any additional explanations.

Text to translate: %s`, targetName, sourceText)
}
