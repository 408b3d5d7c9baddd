// Package compare scores string similarity for translation-memory matching.
package compare

import (
	"errors"
	"fmt"
)

// ErrTooLong is returned when an input exceeds the comparer's length cap.
var ErrTooLong = errors.New("input exceeds comparable length")

// Comparer scores how similar two strings are on a 0-100 scale. stopAt is the
// caller's minimum useful similarity: once a pair provably cannot reach it,
// implementations may stop early and return any score below stopAt.
type Comparer interface {
	Similarity(a, b string, stopAt int) (int, error)
}

// Levenshtein scores string pairs by edit distance normalized over the longer
// input. The distance computation is bounded: it aborts as soon as the
// remaining candidates cannot reach stopAt.
type Levenshtein struct {
	maxLength int // hard cap on comparable input length, in runes
}

// NewLevenshtein returns a comparer that refuses inputs longer than maxLength
// runes. maxLength <= 0 disables the cap.
func NewLevenshtein(maxLength int) *Levenshtein {
	return &Levenshtein{maxLength: maxLength}
}

// Similarity returns 100 for identical strings and 0 for entirely dissimilar
// ones. Scores at or above stopAt are exact; scores below it may be
// approximate because the computation stops once the threshold is out of
// reach.
func (l *Levenshtein) Similarity(a, b string, stopAt int) (int, error) {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if l.maxLength > 0 && (la > l.maxLength || lb > l.maxLength) {
		n := la
		if lb > n {
			n = lb
		}
		return 0, fmt.Errorf("%w: %d runes, cap %d", ErrTooLong, n, l.maxLength)
	}
	if la == 0 && lb == 0 {
		return 100, nil
	}
	if la == 0 || lb == 0 {
		return 0, nil
	}

	longer, shorter := la, lb
	if lb > la {
		longer, shorter = lb, la
	}

	// The pair needs distance <= budget to score at least stopAt, and the
	// length difference alone is a lower bound on the distance.
	budget := longer * (100 - stopAt) / 100
	if longer-shorter > budget {
		return belowStop(longer-shorter, longer, stopAt), nil
	}

	dist, aborted := boundedDistance(ra, rb, budget)
	if aborted {
		return belowStop(dist, longer, stopAt), nil
	}
	score := 100 - (100*dist+longer-1)/longer
	if score < 0 {
		score = 0
	}
	return score, nil
}

// belowStop converts a lower-bound distance into a score guaranteed to fall
// under stopAt, so callers filtering at stopAt never admit an aborted
// comparison.
func belowStop(dist, longer, stopAt int) int {
	score := 100 - (100*dist+longer-1)/longer
	if score >= stopAt {
		score = stopAt - 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// boundedDistance computes the Levenshtein distance between a and b with
// single-row dynamic programming, aborting once every cell in the current row
// exceeds budget. The second return value reports an abort, in which case the
// distance is the row minimum (a lower bound on the true distance).
func boundedDistance(a, b []rune, budget int) (int, bool) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := prev[j-1] + cost
			if v := prev[j] + 1; v < d {
				d = v
			}
			if v := curr[j-1] + 1; v < d {
				d = v
			}
			curr[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > budget {
			return rowMin, true
		}
		prev, curr = curr, prev
	}
	return prev[len(b)], false
}
