package tm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanora/tmstore/internal/compare"
	"github.com/okanora/tmstore/internal/storage"
	"github.com/okanora/tmstore/pkg/types"
)

func newTestTM(t *testing.T, opts Options) (*TM, *storage.Store) {
	t.Helper()
	store, err := storage.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	maxLength := opts.MaxLength
	if maxLength == 0 {
		maxLength = DefaultMaxLength
	}
	memory, err := New(store, compare.NewLevenshtein(maxLength), opts)
	require.NoError(t, err)
	return memory, store
}

func rowCounts(t *testing.T, store *storage.Store) (int, int) {
	t.Helper()
	status, err := store.Status(context.Background())
	require.NoError(t, err)
	return status.SourceCount, status.TargetCount
}

func TestNew_Defaults(t *testing.T) {
	store, err := storage.NewStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	memory, err := New(store, compare.NewLevenshtein(0), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxCandidates, memory.opts.MaxCandidates)
	assert.Equal(t, DefaultMinSimilarity, memory.opts.MinSimilarity)
	assert.Equal(t, DefaultMaxLength, memory.opts.MaxLength)
}

func TestNew_Invalid(t *testing.T) {
	store, err := storage.NewStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = New(nil, compare.NewLevenshtein(0), Options{})
	assert.Error(t, err)

	_, err = New(store, nil, Options{})
	assert.Error(t, err)

	_, err = New(store, compare.NewLevenshtein(0), Options{MinSimilarity: 150})
	assert.Error(t, err)
}

func TestAddUnit_IdempotentSource(t *testing.T) {
	memory, store := newTestTM(t, Options{})
	ctx := context.Background()

	unit := types.SimpleUnit{SourceText: "Hello world", TargetText: "Bonjour le monde"}
	require.NoError(t, memory.AddUnit(ctx, unit, "en", "fr"))
	require.NoError(t, memory.AddUnit(ctx, unit, "en", "fr"))

	sources, targets := rowCounts(t, store)
	assert.Equal(t, 1, sources)
	assert.Equal(t, 1, targets)
}

func TestAddUnit_IdempotentTarget(t *testing.T) {
	memory, store := newTestTM(t, Options{})
	ctx := context.Background()

	first := types.SimpleUnit{SourceText: "Hello world", TargetText: "Bonjour le monde"}
	second := types.SimpleUnit{SourceText: "Hello world", TargetText: "Bonjour tout le monde"}
	require.NoError(t, memory.AddUnit(ctx, first, "en", "fr"))
	require.NoError(t, memory.AddUnit(ctx, second, "en", "fr"))
	require.NoError(t, memory.AddUnit(ctx, second, "en", "fr"))

	sources, targets := rowCounts(t, store)
	assert.Equal(t, 1, sources)
	assert.Equal(t, 2, targets)
}

func TestAddUnit_MissingLanguage(t *testing.T) {
	memory, store := newTestTM(t, Options{})
	ctx := context.Background()

	unit := types.SimpleUnit{SourceText: "Hello world", TargetText: "Bonjour le monde"}

	err := memory.AddUnit(ctx, unit, "", "fr")
	var lerr *types.LanguageError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "source", lerr.Side)

	err = memory.AddUnit(ctx, unit, "en", "")
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "target", lerr.Side)

	// Nothing was written
	sources, targets := rowCounts(t, store)
	assert.Equal(t, 0, sources)
	assert.Equal(t, 0, targets)
}

func TestAddUnit_UnitLanguagePrecedence(t *testing.T) {
	memory, store := newTestTM(t, Options{})
	ctx := context.Background()

	// The unit's declared languages win over the overrides.
	unit := types.SimpleUnit{
		SourceText: "Hello world",
		TargetText: "Hallo Welt",
		SrcLang:    "en-GB",
		TgtLang:    "de",
	}
	require.NoError(t, memory.AddUnit(ctx, unit, "en", "fr"))

	pairs, err := store.ScanPairs(ctx, storage.ScanWindow{
		SourceLangs: []string{"en-GB"},
		TargetLangs: []string{"de"},
		MinLength:   2,
		MaxLength:   100,
	})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "en-GB", pairs[0].SourceLang)
	assert.Equal(t, "de", pairs[0].TargetLang)
}

func TestAddStore_SkipsUntranslated(t *testing.T) {
	memory, store := newTestTM(t, Options{})
	ctx := context.Background()

	doc := types.UnitSlice{
		types.SimpleUnit{SourceText: "Hello world", TargetText: "Bonjour le monde"},
		types.SimpleUnit{SourceText: "Untranslated entry"}, // not translated
		types.SimpleUnit{TargetText: "Orphan translation"}, // not translatable
		types.SimpleUnit{SourceText: "Goodbye world", TargetText: "Au revoir le monde"},
	}
	require.NoError(t, memory.AddStore(ctx, doc, "en", "fr"))

	sources, targets := rowCounts(t, store)
	assert.Equal(t, 2, sources)
	assert.Equal(t, 2, targets)
}

func TestAddStore_BatchAtomicity(t *testing.T) {
	memory, store := newTestTM(t, Options{})
	ctx := context.Background()

	// The first two units resolve their target language themselves and are
	// inserted before the last unit fails resolution; the failure must roll
	// them back with the rest of the batch.
	doc := types.UnitSlice{
		types.SimpleUnit{SourceText: "Hello world", TargetText: "Bonjour le monde", TgtLang: "fr"},
		types.SimpleUnit{SourceText: "Goodbye world", TargetText: "Au revoir le monde", TgtLang: "fr"},
		types.SimpleUnit{SourceText: "Broken entry", TargetText: "Entrée cassée"},
	}
	err := memory.AddStore(ctx, doc, "en", "")
	var lerr *types.LanguageError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "target", lerr.Side)

	sources, targets := rowCounts(t, store)
	assert.Equal(t, 0, sources)
	assert.Equal(t, 0, targets)
}

// cancelingUnit cancels a context when the document iteration reaches it,
// failing the statements that follow mid-transaction.
type cancelingUnit struct {
	types.SimpleUnit
	cancel context.CancelFunc
}

func (u cancelingUnit) IsTranslated() bool {
	u.cancel()
	return u.SimpleUnit.IsTranslated()
}

func TestAddStore_StorageFailureRollsBack(t *testing.T) {
	memory, store := newTestTM(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doc := types.UnitSlice{
		types.SimpleUnit{SourceText: "Hello world", TargetText: "Bonjour le monde"},
		types.SimpleUnit{SourceText: "Goodbye world", TargetText: "Au revoir le monde"},
		cancelingUnit{
			SimpleUnit: types.SimpleUnit{SourceText: "Broken entry", TargetText: "Entrée cassée"},
			cancel:     cancel,
		},
	}
	err := memory.AddStore(ctx, doc, "en", "fr")
	require.Error(t, err)
	var lerr *types.LanguageError
	assert.False(t, errors.As(err, &lerr), "a storage failure is not a language error")

	sources, targets := rowCounts(t, store)
	assert.Equal(t, 0, sources)
	assert.Equal(t, 0, targets)
}

type failingComparer struct{}

func (failingComparer) Similarity(a, b string, stopAt int) (int, error) {
	return 0, errors.New("comparer exploded")
}

func TestTranslateUnit_ComparerFailure(t *testing.T) {
	store, err := storage.NewStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	memory, err := New(store, failingComparer{}, Options{})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, memory.AddUnit(ctx,
		types.SimpleUnit{SourceText: "Hello world", TargetText: "Bonjour le monde"}, "en", "fr"))

	_, err = memory.TranslateUnit(ctx, "Hello world", []string{"en"}, []string{"fr"})
	assert.ErrorContains(t, err, "comparer exploded")
}
