package tokenizer

import (
	"strings"
	"unicode/utf8"
)

const (
	minSentenceSegments = 3  // fewer sentences than this triggers the period split
	minFragmentRunes    = 21 // period-split fragments must be longer than 20 runes
)

// Segments splits text into trimmed sentence-level segments.
//
// Sentences are found with the SentenceTokens heuristics. When that yields
// fewer than 3 non-empty sentences, the text is re-split on every literal
// '.' and only fragments longer than 20 runes after trimming are kept; this
// may return fewer segments than the sentence split did, including none.
//
// The result depends only on the input, so equal text always segments the
// same way.
func Segments(s string) []string {
	if s == "" {
		return nil
	}

	sentences := make([]string, 0, len(s)/40+1)
	for _, tok := range sentenceTokens(s) {
		if text := strings.TrimSpace(tok.Text); text != "" {
			sentences = append(sentences, text)
		}
	}
	if len(sentences) >= minSentenceSegments {
		return sentences
	}

	var fragments []string
	for part := range strings.SplitSeq(s, ".") {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) >= minFragmentRunes {
			fragments = append(fragments, part)
		}
	}
	return fragments
}
