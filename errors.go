package gorelay

import (
	"errors"
	"fmt"
	"strings"
)

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an AI provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Provider  ProviderID
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	prefix := "provider error"
	if e.Provider != "" {
		prefix = fmt.Sprintf("provider error (%s)", e.Provider)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// UnsupportedLanguageError indicates a code missing from the language registry.
type UnsupportedLanguageError struct {
	Code string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %s", e.Code)
}

// FailoverError indicates every provider failed for one language.
type FailoverError struct {
	Language Language
	Attempts []error // One entry per provider tried, in order
}

func (e *FailoverError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("translation to %s failed: no providers configured", e.Language)
	}
	msgs := make([]string, len(e.Attempts))
	for i, err := range e.Attempts {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("translation to %s failed: %s", e.Language, strings.Join(msgs, "; "))
}

// Unwrap returns the provider errors so errors.As can reach any of them.
func (e *FailoverError) Unwrap() []error {
	return e.Attempts
}

// Last returns the error of the final provider attempt.
func (e *FailoverError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}

// ValidationError indicates a structurally invalid request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
