package tm

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okanora/tmstore/internal/compare"
	"github.com/okanora/tmstore/internal/storage"
	"github.com/okanora/tmstore/pkg/types"
)

// Defaults applied by New when an Options field is zero.
const (
	DefaultMaxCandidates = 3
	DefaultMinSimilarity = 75
	DefaultMaxLength     = 1000
)

// matchCacheSize bounds the LRU of recent lookup results.
const matchCacheSize = 1000

// matchCacheTTL expires cached lookups that outlive writes made through
// other processes sharing the database file.
const matchCacheTTL = time.Minute

// Options configures a TM instance.
type Options struct {
	// MaxCandidates caps the number of matches a lookup returns.
	MaxCandidates int
	// MinSimilarity is the inclusive quality floor, as a 0-100 percentage.
	MinSimilarity int
	// MaxLength is the hard ceiling on comparison length, bounding
	// pathological scans.
	MaxLength int
}

// TM is a translation-memory instance bound to one store.
type TM struct {
	store    *storage.Store
	comparer compare.Comparer
	opts     Options

	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// New creates a TM over store using cmp for similarity scoring. Zero Options
// fields take the package defaults.
func New(store *storage.Store, cmp compare.Comparer, opts Options) (*TM, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cmp == nil {
		return nil, fmt.Errorf("comparer is required")
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}
	if opts.MinSimilarity > 100 {
		return nil, fmt.Errorf("min similarity must be at most 100, got %d", opts.MinSimilarity)
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}

	cache, err := lru.New[[32]byte, *cacheEntry](matchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create match cache: %w", err)
	}

	return &TM{
		store:    store,
		comparer: cmp,
		opts:     opts,
		cache:    cache,
	}, nil
}

// AddUnit stores one translation unit in its own transaction. The unit's own
// declared languages take precedence over the overrides; if either side
// remains unresolved the call fails with *types.LanguageError and writes
// nothing. At most one new source row and one new target row are added.
func (t *TM) AddUnit(ctx context.Context, unit types.Unit, sourceLang, targetLang string) error {
	tx, err := t.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := addUnit(ctx, tx, unit, sourceLang, targetLang); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit: %w", err)
	}

	t.invalidateMatches()
	return nil
}

// AddStore stores every translatable, translated unit of doc in one
// transaction. Units that are not translatable or not yet translated are
// skipped. A failure partway rolls the whole document back.
func (t *TM) AddStore(ctx context.Context, doc types.Document, sourceLang, targetLang string) error {
	tx, err := t.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, unit := range doc.Units() {
		if !unit.IsTranslatable() || !unit.IsTranslated() {
			continue
		}
		if err := addUnit(ctx, tx, unit, sourceLang, targetLang); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit document: %w", err)
	}

	t.invalidateMatches()
	return nil
}

// addUnit runs the insertion protocol against q: resolve languages, insert or
// reuse the source row, insert the target row unless the identical pair is
// already recorded.
func addUnit(ctx context.Context, q storage.Querier, unit types.Unit, sourceLang, targetLang string) error {
	if lang := unit.SourceLanguage(); lang != "" {
		sourceLang = lang
	}
	if lang := unit.TargetLanguage(); lang != "" {
		targetLang = lang
	}
	if sourceLang == "" {
		return types.ErrNoSourceLanguage
	}
	if targetLang == "" {
		return types.ErrNoTargetLanguage
	}

	src := &storage.Source{
		Text:    unit.Source(),
		Context: unit.Context(),
		Lang:    sourceLang,
		Length:  utf8.RuneCountInString(unit.Source()),
	}
	if _, err := q.InsertOrGetSource(ctx, src); err != nil {
		return err
	}

	tgt := &storage.Target{
		SID:    src.SID,
		Text:   unit.Target(),
		Lang:   targetLang,
		Length: utf8.RuneCountInString(unit.Target()),
		Time:   time.Now().Unix(),
	}
	if _, err := q.InsertTarget(ctx, tgt); err != nil {
		return err
	}
	return nil
}
