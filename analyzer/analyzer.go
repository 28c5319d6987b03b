// Package analyzer turns one article's raw text into a weighted keyword list
// and a word count for word-cloud rendering.
//
// Analyze is the single entry point. It normalizes the text, counts its
// words, and ranks keywords with package keywords, which prefers segment
// TF-IDF and falls back to frequency ranking. Failures are reported with
// the sentinel errors below and matched with errors.Is.
//
// Analyze performs no I/O and keeps no state between calls, so it is safe
// for concurrent use by multiple goroutines.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/keywords"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/normalize"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/tokenizer"
)

// DefaultMaxTerms is the number of keywords returned when maxTerms <= 0.
const DefaultMaxTerms = keywords.DefaultMaxTerms

var (
	// ErrEmptyContent is returned when nothing is left after normalization.
	ErrEmptyContent = errors.New("analyzer: no content after normalization")

	// ErrNoKeywordsExtracted is returned when neither strategy finds a term,
	// e.g. for text made only of stop words and short tokens.
	ErrNoKeywordsExtracted = errors.New("analyzer: no keywords extracted")

	// ErrInternal is returned when both ranking strategies fail unexpectedly.
	ErrInternal = keywords.ErrInternal
)

// Result is the analysis of one document.
type Result struct {
	Keywords  []keywords.Keyword `json:"words"`
	WordCount int                `json:"word_count"`
	Strategy  keywords.Strategy  `json:"strategy"`

	// FallbackReason explains why the frequency strategy was used.
	FallbackReason error `json:"-"`
}

// Analyze extracts at most maxTerms keywords from text.
//
// WordCount is the number of word tokens in the normalized text, before
// stop-word and length filtering. The returned weights are sorted
// descending and the first is exactly 1.
func Analyze(text string, maxTerms int) (*Result, error) {
	normalized := normalize.Normalize(text)
	if normalized == "" {
		return nil, ErrEmptyContent
	}

	ext, err := keywords.Extract(text, maxTerms)
	if err != nil {
		return nil, fmt.Errorf("extract keywords: %w", err)
	}
	if len(ext.Keywords) == 0 {
		return nil, ErrNoKeywordsExtracted
	}

	return &Result{
		Keywords:       ext.Keywords,
		WordCount:      len(tokenizer.Words(normalized)),
		Strategy:       ext.Strategy,
		FallbackReason: ext.Fallback,
	}, nil
}
