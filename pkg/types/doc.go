// Package types provides the shared domain types of the translation-memory
// store.
//
// A Unit is one source sentence together with its translation and the
// metadata needed to persist the pair (language tags, optional disambiguating
// context, translatable/translated status). A Document is an ordered sequence
// of units, typically one parsed translation file.
//
// Match is a single TM suggestion returned by a fuzzy lookup: the stored
// source text, its translation, the context it was recorded under, and a
// 0-100 quality score.
//
// LanguageError is returned when a unit cannot be stored because neither the
// unit nor the caller supplied a language for one side of the pair:
//
//	err := tm.AddUnit(ctx, unit, "", "fr")
//	var lerr *types.LanguageError
//	if errors.As(err, &lerr) {
//	    // lerr.Side names the missing side ("source" or "target")
//	}
package types
