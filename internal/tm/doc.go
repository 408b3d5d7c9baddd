// Package tm implements the translation-memory core: the deduplicating unit
// insertion protocol and the fuzzy-retrieval engine.
//
// Writes go through AddUnit (one unit, one transaction) or AddStore (one
// document, one transaction). Reads go through TranslateUnit, which prunes
// candidates with an indexed length window before scoring them with the
// configured comparer, then ranks by quality and truncates to the configured
// candidate cap.
package tm
