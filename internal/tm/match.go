package tm

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/okanora/tmstore/internal/storage"
	"github.com/okanora/tmstore/pkg/types"
)

// TranslateUnit returns TM suggestions for text, best first. Candidates are
// restricted to pairs whose source language is in sourceLangs and target
// language in targetLangs, pruned by the length window, scored with the
// comparer, filtered at the MinSimilarity floor, sorted by quality descending
// and truncated to MaxCandidates. Tie order between equal qualities is
// unspecified. An empty result is a valid outcome, not an error.
func (t *TM) TranslateUnit(ctx context.Context, text string, sourceLangs, targetLangs []string) ([]types.Match, error) {
	if len(sourceLangs) == 0 {
		return nil, fmt.Errorf("at least one source language is required")
	}
	if len(targetLangs) == 0 {
		return nil, fmt.Errorf("at least one target language is required")
	}

	// A query beyond the comparable length cap can never score; every stored
	// candidate inside its window would fail the comparer the same way.
	length := utf8.RuneCountInString(text)
	if length > t.opts.MaxLength {
		return []types.Match{}, nil
	}

	key := matchKey(text, sourceLangs, targetLangs)
	if matches, ok := t.cachedMatches(key); ok {
		return matches, nil
	}

	window := storage.ScanWindow{
		SourceLangs: sourceLangs,
		TargetLangs: targetLangs,
		MinLength:   minWindowLength(length, t.opts.MinSimilarity),
		MaxLength:   maxWindowLength(length, t.opts.MinSimilarity, t.opts.MaxLength),
	}

	pairs, err := t.store.ScanPairs(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to scan candidates: %w", err)
	}

	matches := make([]types.Match, 0, len(pairs))
	for _, p := range pairs {
		quality, err := t.comparer.Similarity(text, p.SourceText, t.opts.MinSimilarity)
		if err != nil {
			// A bad candidate must not corrupt the ranking.
			return nil, fmt.Errorf("failed to score candidate: %w", err)
		}
		// The length window is necessary but not sufficient.
		if quality < t.opts.MinSimilarity {
			continue
		}
		matches = append(matches, types.Match{
			Source:  p.SourceText,
			Target:  p.TargetText,
			Context: p.Context,
			Quality: quality,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Quality > matches[j].Quality
	})
	if len(matches) > t.opts.MaxCandidates {
		matches = matches[:t.opts.MaxCandidates]
	}

	t.storeMatches(key, matches)
	return matches, nil
}

// minWindowLength is the shortest candidate length that can still reach
// minSimilarity under length-normalized edit distance.
func minWindowLength(length, minSimilarity int) int {
	return int(math.Ceil(math.Max(float64(length)*float64(minSimilarity)/100, 2)))
}

// maxWindowLength is the longest candidate length that can still reach
// minSimilarity, capped by the engine's hard length ceiling.
func maxWindowLength(length, minSimilarity, maxLength int) int {
	return int(math.Floor(math.Min(float64(length)/(float64(minSimilarity)/100), float64(maxLength))))
}

// cacheEntry is one cached lookup result with its expiry.
type cacheEntry struct {
	matches   []types.Match
	expiresAt time.Time
}

// matchKey hashes a lookup's parameters into a cache key. Elements are
// NUL-separated; a NUL cannot appear in a language tag, so distinct lists
// never collide.
func matchKey(text string, sourceLangs, targetLangs []string) [32]byte {
	var data strings.Builder
	data.WriteString(text)
	for _, lang := range sourceLangs {
		data.WriteByte(0)
		data.WriteString(lang)
	}
	data.WriteByte(1)
	for _, lang := range targetLangs {
		data.WriteByte(0)
		data.WriteString(lang)
	}
	return sha256.Sum256([]byte(data.String()))
}

// cachedMatches returns a copy of an unexpired cached result.
func (t *TM) cachedMatches(key [32]byte) ([]types.Match, bool) {
	t.cacheMu.RLock()
	entry, ok := t.cache.Get(key)
	if !ok {
		t.cacheMu.RUnlock()
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		t.cacheMu.RUnlock()
		t.cacheMu.Lock()
		t.cache.Remove(key)
		t.cacheMu.Unlock()
		return nil, false
	}
	matches := make([]types.Match, len(entry.matches))
	copy(matches, entry.matches)
	t.cacheMu.RUnlock()
	return matches, true
}

// storeMatches caches a lookup result.
func (t *TM) storeMatches(key [32]byte, matches []types.Match) {
	copied := make([]types.Match, len(matches))
	copy(copied, matches)
	entry := &cacheEntry{
		matches:   copied,
		expiresAt: time.Now().Add(matchCacheTTL),
	}
	t.cacheMu.Lock()
	t.cache.Add(key, entry)
	t.cacheMu.Unlock()
}

// invalidateMatches drops every cached lookup. Called after any write; the
// cache cannot tell which queries a new pair would affect.
func (t *TM) invalidateMatches() {
	t.cacheMu.Lock()
	t.cache.Purge()
	t.cacheMu.Unlock()
}
