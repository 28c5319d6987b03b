package keywords

import (
	"slices"
	"unicode/utf8"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/normalize"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/tokenizer"
)

// Frequencies counts candidate words of one document.
// Terms are kept in first-occurrence order.
type Frequencies struct {
	terms  []string
	counts map[string]int
}

// WordFrequencies counts the words of text that are at least 3 runes long
// and not stop words. text is expected to be the output of
// normalize.Normalize; no case folding happens here.
func WordFrequencies(text string) *Frequencies {
	words := tokenizer.Words(text)
	f := &Frequencies{
		terms:  make([]string, 0, len(words)/2),
		counts: make(map[string]int, len(words)/2),
	}
	for _, w := range words {
		if !isCandidateWord(w) {
			continue
		}
		if _, seen := f.counts[w]; !seen {
			f.terms = append(f.terms, w)
		}
		f.counts[w]++
	}
	return f
}

// Terms returns the counted words in first-occurrence order.
func (f *Frequencies) Terms() []string {
	return slices.Clone(f.terms)
}

// Count returns the number of occurrences of term, or 0.
func (f *Frequencies) Count(term string) int {
	return f.counts[term]
}

// Len returns the number of distinct counted words.
func (f *Frequencies) Len() int {
	return len(f.terms)
}

// ExtractFrequency ranks the words of text by raw occurrence count.
// Ties keep first-occurrence order. Weights are count/maxCount rounded to
// 3 decimals, so the first keyword always has weight 1.
// Returns nil when text has no candidate words.
func ExtractFrequency(text string, maxTerms int) []Keyword {
	return rankFrequencies(WordFrequencies(normalize.Normalize(text)), clampMaxTerms(maxTerms))
}

func rankFrequencies(f *Frequencies, maxTerms int) []Keyword {
	if f.Len() == 0 {
		return nil
	}
	candidates := make([]candidate, len(f.terms))
	for i, term := range f.terms {
		n := f.counts[term]
		candidates[i] = candidate{term: term, score: float64(n), frequency: n}
	}
	slices.SortStableFunc(candidates, cmpCandidate)
	return scaleScores(candidates, maxTerms)
}

func isCandidateWord(w string) bool {
	return utf8.RuneCountInString(w) >= minTermRunes && !IsStopword(w)
}
