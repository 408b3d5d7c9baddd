package types

// Unit is the read surface of a single translation unit. Implementations are
// typically provided by file-format parsers; the store only ever reads from
// them.
type Unit interface {
	// Source returns the sentence in the original language.
	Source() string
	// Target returns the translation of the source sentence.
	Target() string
	// Context returns an optional disambiguating tag (for example a UI
	// string identifier). Empty means no context.
	Context() string
	// SourceLanguage returns the unit's declared source language, or empty
	// if the unit does not declare one.
	SourceLanguage() string
	// TargetLanguage returns the unit's declared target language, or empty
	// if the unit does not declare one.
	TargetLanguage() string
	// IsTranslatable reports whether the unit carries translatable text.
	IsTranslatable() bool
	// IsTranslated reports whether the unit has been translated.
	IsTranslated() bool
}

// Document is an ordered sequence of translation units.
type Document interface {
	Units() []Unit
}

// SimpleUnit is a plain value implementation of Unit.
type SimpleUnit struct {
	SourceText string
	TargetText string
	ContextTag string
	SrcLang    string
	TgtLang    string
}

func (u SimpleUnit) Source() string         { return u.SourceText }
func (u SimpleUnit) Target() string         { return u.TargetText }
func (u SimpleUnit) Context() string        { return u.ContextTag }
func (u SimpleUnit) SourceLanguage() string { return u.SrcLang }
func (u SimpleUnit) TargetLanguage() string { return u.TgtLang }
func (u SimpleUnit) IsTranslatable() bool   { return u.SourceText != "" }
func (u SimpleUnit) IsTranslated() bool     { return u.TargetText != "" }

// UnitSlice adapts a slice of units into a Document.
type UnitSlice []Unit

func (s UnitSlice) Units() []Unit { return s }
