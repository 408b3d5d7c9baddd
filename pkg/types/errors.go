package types

import "fmt"

// LanguageError reports that a translation unit could not be stored because
// neither the unit nor the caller supplied a language for one side of the
// pair. Nothing is written when it is returned.
type LanguageError struct {
	Side string // "source" or "target"
}

func (e *LanguageError) Error() string {
	return fmt.Sprintf("undefined %s language", e.Side)
}

var (
	// ErrNoSourceLanguage is returned when the source language cannot be resolved.
	ErrNoSourceLanguage = &LanguageError{Side: "source"}
	// ErrNoTargetLanguage is returned when the target language cannot be resolved.
	ErrNoTargetLanguage = &LanguageError{Side: "target"}
)
