package storage

import "context"

// Source is a stored source-language sentence. A source row is unique on
// (text, context, lang); absent context is stored as the empty string so the
// uniqueness constraint covers context-less rows too (SQLite treats NULLs in
// a unique index as distinct).
type Source struct {
	SID     int64
	Text    string
	Context string
	Lang    string
	Length  int // rune count of Text, denormalized for the indexed pre-filter
}

// Target is a stored translation of a Source. A target row is unique on
// (sid, text, lang).
type Target struct {
	TID    int64
	SID    int64
	Text   string
	Lang   string
	Length int
	Time   int64 // seconds since epoch, recorded at insertion
}

// Pair is a Source joined with one of its Targets, as returned by a
// candidate scan.
type Pair struct {
	SourceText string
	TargetText string
	Context    string
	SourceLang string
	TargetLang string
}

// ScanWindow bounds a candidate scan: language filters on both sides plus an
// inclusive source-length range served by the length index.
type ScanWindow struct {
	SourceLangs []string
	TargetLangs []string
	MinLength   int
	MaxLength   int
}

// Status contains row counts and the on-disk size of a store.
type Status struct {
	SourceCount int
	TargetCount int
	SizeMB      float64
}

// Querier is the read/write surface shared by a Store and its transactions.
type Querier interface {
	// InsertOrGetSource inserts src, or resolves the identity of the
	// existing row with the same (text, context, lang). It reports whether
	// a new row was written and fills src.SID either way.
	InsertOrGetSource(ctx context.Context, src *Source) (inserted bool, err error)
	// InsertTarget inserts tgt unless an identical (sid, text, lang) row
	// already exists, in which case it reports false without writing.
	InsertTarget(ctx context.Context, tgt *Target) (inserted bool, err error)
	// ScanPairs returns every Source-Target pair inside the window.
	ScanPairs(ctx context.Context, w ScanWindow) ([]Pair, error)
}

// Tx is a store transaction.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}
