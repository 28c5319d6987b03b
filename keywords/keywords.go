// Package keywords ranks the terms of an English document for word-cloud
// display.
//
// Two strategies are provided:
//
//   - TF-IDF: the document is split into sentence segments which serve as
//     the corpus. Unigrams and bigrams are weighted by segment-level TF-IDF
//     and ranked by their mean weight. Best for multi-sentence articles.
//   - Frequency: words are ranked by raw occurrence count. Used when the
//     document has fewer than 2 segments or TF-IDF produces nothing.
//
// Extract chooses between them: the segment count is checked first, then
// TF-IDF runs and any failure, including a recovered panic, selects the
// frequency strategy. ExtractTFIDF and ExtractFrequency run one strategy
// each.
//
// Weights are scaled so the top keyword has weight 1 and rounded to 3
// decimals. Ties keep first-occurrence order, so equal input always gives
// equal output.
//
// All functions are safe for concurrent use by multiple goroutines. The
// stop-word set is built once at package initialization and never modified.
//
// Known limitations:
//
//   - English only. TF-IDF vocabulary is restricted to ASCII letters;
//     accented words can still rank through the frequency strategy.
//   - Bigrams are formed after stop words are removed, so "state of the
//     art" contributes the bigram "state_art".
//   - IDF is computed from the document's own segments, not from a
//     reference corpus.
package keywords

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/normalize"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/tokenizer"
)

const (
	DefaultMaxTerms = 50 // number of keywords returned when maxTerms <= 0

	minSegments    = 2    // TF-IDF needs at least this many segments
	minTermRunes   = 3    // minimum word length for frequency counting
	roundingFactor = 1000 // weights are rounded to 3 decimals
	bigramJoiner   = "_"  // joins the words of a bigram in Keyword.Term
)

// ErrInternal reports an unexpected failure inside a scoring strategy.
// Extract returns it only when the frequency strategy fails as well.
var ErrInternal = errors.New("keywords: internal error")

// Strategy names the ranking method that produced a result.
type Strategy string

const (
	StrategyTFIDF     Strategy = "tfidf"
	StrategyFrequency Strategy = "frequency"
)

// Keyword is a ranked term. Bigram terms join their words with '_'.
type Keyword struct {
	Term      string  `json:"word"      yaml:"word"`
	Weight    float64 `json:"weight"    yaml:"weight"`
	Frequency int     `json:"frequency" yaml:"frequency"`
}

// Extraction is the outcome of Extract.
type Extraction struct {
	Keywords []Keyword
	Strategy Strategy
	// Fallback is the reason TF-IDF was not used; nil for StrategyTFIDF.
	Fallback error
}

// Extract ranks the terms of the raw document text and returns at most
// maxTerms keywords; maxTerms <= 0 means DefaultMaxTerms.
//
// Segmentation runs on text as given, so sentence punctuation is visible;
// segments and whole-document counts are then normalized. With fewer than
// 2 segments the frequency strategy is used directly. Otherwise TF-IDF runs
// and any error from it selects the frequency strategy.
//
// An empty Keywords slice is not an error. The returned error is non-nil
// only if the frequency strategy itself fails, and then wraps ErrInternal.
func Extract(text string, maxTerms int) (*Extraction, error) {
	maxTerms = clampMaxTerms(maxTerms)
	freqs := WordFrequencies(normalize.Normalize(text))

	var reason error
	if segments := tokenizer.Segments(text); len(segments) < minSegments {
		reason = errInsufficientSegments
	} else {
		kws, err := guard(func() ([]Keyword, error) {
			return scoreTFIDF(segments, freqs, maxTerms)
		})
		if err == nil {
			return &Extraction{Keywords: kws, Strategy: StrategyTFIDF}, nil
		}
		reason = err
	}

	kws, err := guard(func() ([]Keyword, error) {
		return rankFrequencies(freqs, maxTerms), nil
	})
	if err != nil {
		return nil, fmt.Errorf("frequency fallback after %v: %w", reason, err)
	}
	return &Extraction{Keywords: kws, Strategy: StrategyFrequency, Fallback: reason}, nil
}

// guard runs a strategy and converts a panic into an error wrapping
// ErrInternal.
func guard(fn func() ([]Keyword, error)) (kws []Keyword, err error) {
	defer func() {
		if r := recover(); r != nil {
			kws = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	return fn()
}

// candidate is a term with its unscaled score.
type candidate struct {
	term      string // words separated by a space
	score     float64
	frequency int
}

// cmpCandidate orders by score descending. Equal scores compare as equal so
// a stable sort keeps enumeration order.
func cmpCandidate(a, b candidate) int {
	return cmp.Compare(b.score, a.score)
}

// scaleScores divides every score by the largest one, rounds to 3 decimals
// and truncates to maxTerms. candidates must be sorted by cmpCandidate.
// Returns nil when there is nothing positive to scale.
func scaleScores(candidates []candidate, maxTerms int) []Keyword {
	if len(candidates) == 0 {
		return nil
	}
	top := candidates[0].score
	if top <= 0 || math.IsNaN(top) || math.IsInf(top, 0) {
		return nil
	}

	n := min(len(candidates), maxTerms)
	result := make([]Keyword, n)
	for i, c := range candidates[:n] {
		result[i] = Keyword{
			Term:      strings.ReplaceAll(c.term, termSeparator, bigramJoiner),
			Weight:    roundWeight(c.score / top),
			Frequency: c.frequency,
		}
	}
	return result
}

func roundWeight(w float64) float64 {
	return math.Round(w*roundingFactor) / roundingFactor
}

func clampMaxTerms(n int) int {
	if n <= 0 {
		return DefaultMaxTerms
	}
	return n
}

func isBigram(term string) bool {
	return strings.Contains(term, termSeparator)
}
