// Package normalize cleans English article text before keyword extraction.
//
// Normalize applies a fixed sequence of steps. Order matters: later steps
// operate on the output of earlier ones.
//
//  1. Unicode NFC composition.
//  2. Lowercasing.
//  3. URL removal: substrings starting with "http" or "www" up to whitespace.
//  4. Email removal: non-space runs around an "@".
//  5. Standalone number removal: a run of word characters made only of
//     digits is dropped. Digits inside words ("5g", "covid19") are kept.
//  6. Every rune that is not a letter, digit or whitespace becomes a space.
//  7. Whitespace runs collapse to a single space; the result is trimmed.
//
// The output contains only letters, digits and single ASCII spaces.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - Step 5 runs before step 6, so "a_12" becomes "a 12" and the number
//     survives. Applying Normalize twice is therefore not always a no-op.
//   - URL detection is purely lexical. Words beginning with "www" or "http"
//     followed by more non-space characters ("httpd") are removed as well.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern   = regexp.MustCompile(`http\S+|www\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+`)
)

// Normalize returns the cleaned, lowercase form of text.
// Returns "" for empty input or input with no letters or digits left.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := norm.NFC.String(text)
	// A Caser keeps internal state and must not be shared between goroutines.
	s = cases.Lower(language.Und).String(s)
	s = urlPattern.ReplaceAllString(s, "")
	s = emailPattern.ReplaceAllString(s, "")
	s = stripNumbers(s)
	s = strings.Map(keepRune, s)

	return strings.Join(strings.Fields(s), " ")
}

// keepRune maps every rune that is not a letter, digit or whitespace to a space.
func keepRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return r
	}
	return ' '
}

// isWordRune reports whether r belongs to a word-character run.
// Matches the letters, digits and underscore that bound a standalone number.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// stripNumbers removes every maximal word-character run consisting only of digits.
func stripNumbers(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isWordRune(r) {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}

		start := i
		digitsOnly := true
		for i < len(s) {
			wr, ws := utf8.DecodeRuneInString(s[i:])
			if !isWordRune(wr) {
				break
			}
			if !unicode.IsDigit(wr) {
				digitsOnly = false
			}
			i += ws
		}
		if !digitsOnly {
			b.WriteString(s[start:i])
		}
	}

	return b.String()
}
