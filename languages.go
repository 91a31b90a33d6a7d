package gorelay

import "strings"

// LanguageNames maps registry codes to the names used in AI prompts.
var LanguageNames = map[Language]string{
	LangIndonesian: "Indonesian",
	LangEnglish:    "English",
	LangChinese:    "Chinese",
	LangJapanese:   "Japanese",
	LangKorean:     "Korean",
}

// languageOrder fixes the iteration order of the registry.
var languageOrder = []Language{LangIndonesian, LangEnglish, LangChinese, LangJapanese, LangKorean}

// NormalizeCode trims and lower-cases a language code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ParseLanguage validates a code against the registry.
func ParseLanguage(code string) (Language, error) {
	lang := Language(NormalizeCode(code))
	if _, ok := LanguageNames[lang]; !ok {
		return "", &UnsupportedLanguageError{Code: code}
	}
	return lang, nil
}

// ParseTargetLanguage validates a code that is to be translated into.
// The source language is rejected.
func ParseTargetLanguage(code string) (Language, error) {
	lang, err := ParseLanguage(code)
	if err != nil {
		return "", err
	}
	if lang == SourceLanguage {
		return "", &UnsupportedLanguageError{Code: code}
	}
	return lang, nil
}

// ResolveLanguage returns the display name of a target language.
func ResolveLanguage(code string) (string, error) {
	lang, err := ParseTargetLanguage(code)
	if err != nil {
		return "", err
	}
	return LanguageNames[lang], nil
}

// LanguageName returns the display name for a language.
// Falls back to the code itself if not found.
func LanguageName(lang Language) string {
	if name, ok := LanguageNames[lang]; ok {
		return name
	}
	return string(lang)
}

// IsSupported reports whether the code is a valid translation target.
func IsSupported(code string) bool {
	_, err := ParseTargetLanguage(code)
	return err == nil
}

// TargetLanguages returns every registry language except the source language.
func TargetLanguages() []Language {
	targets := make([]Language, 0, len(languageOrder)-1)
	for _, lang := range languageOrder {
		if lang != SourceLanguage {
			targets = append(targets, lang)
		}
	}
	return targets
}

// SplitLanguageList splits a comma-separated list of codes (e.g., "en, zh,ja").
// Empty entries are dropped and duplicates keep their first position.
func SplitLanguageList(list string) []string {
	parts := strings.Split(list, ",")
	codes := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		code := strings.TrimSpace(part)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
