package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations maps common English abbreviations (lowercase, with trailing dot)
// to true. Used to suppress false sentence breaks after abbreviated words.
// Multi-part forms ("e.g.", "u.s.") are matched as a whole dotted run.
var abbreviations = map[string]bool{
	// Titles
	"mr.": true, "mrs.": true, "ms.": true, "dr.": true, "prof.": true,
	"sr.": true, "jr.": true, "st.": true, "rev.": true, "hon.": true,
	"gen.": true, "col.": true, "lt.": true, "sgt.": true, "capt.": true,
	"gov.": true, "sen.": true, "rep.": true, "pres.": true,
	// Latin and reference forms
	"e.g.": true, "i.e.": true, "etc.": true, "vs.": true, "cf.": true,
	"al.": true, "approx.": true, "fig.": true, "vol.": true, "pp.": true,
	// Organizations and places
	"inc.": true, "ltd.": true, "co.": true, "corp.": true, "dept.": true,
	"u.s.": true, "u.k.": true, "u.n.": true, "e.u.": true, "mt.": true,
	"ave.": true, "blvd.": true,
	// Months
	"jan.": true, "feb.": true, "mar.": true, "apr.": true, "jun.": true,
	"jul.": true, "aug.": true, "sep.": true, "sept.": true, "oct.": true,
	"nov.": true, "dec.": true,
	// Time
	"a.m.": true, "p.m.": true,
}

// sentenceTokens splits s into sentence-level tokens.
// Adjacent tokens cover the entire input without gaps or overlaps:
// concatenating all Token.Text values reconstructs s exactly.
func sentenceTokens(s string) []Token {
	tokens := make([]Token, 0, len(s)/40+1)
	sentStart := 0 // byte offset where the current sentence begins

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])

		// Double newline forces a sentence break regardless of punctuation.
		if r == '\n' && i+1 < len(s) && s[i+1] == '\n' {
			// Consume all consecutive newlines as part of the current sentence.
			j := i
			for j < len(s) && s[j] == '\n' {
				j++
			}
			tokens = append(tokens, Token{
				Text:  s[sentStart:j],
				Start: sentStart,
				End:   j,
				Type:  Sentence,
			})
			sentStart = j
			i = j
			continue
		}

		// Check for terminal punctuation: . ? !
		if r == '.' || r == '?' || r == '!' {
			// Handle ellipsis: three consecutive dots or the Unicode ellipsis character.
			if r == '.' && i+2 < len(s) && s[i+1] == '.' && s[i+2] == '.' {
				// Consume all consecutive dots (handles "..." and "....")
				j := i
				for j < len(s) && s[j] == '.' {
					j++
				}
				if followedByWhitespaceUppercase(s, j) {
					breakPos := j
					tokens = append(tokens, Token{
						Text:  s[sentStart:breakPos],
						Start: sentStart,
						End:   breakPos,
						Type:  Sentence,
					})
					sentStart = breakPos
				}
				i = j
				continue
			}

			// Single dot: check for abbreviation.
			if r == '.' {
				if isAbbreviation(s, i) {
					i += size
					continue
				}
			}

			// Terminal punctuation: consume the entire cluster (e.g. "?!", "???").
			j := i + size
			for j < len(s) {
				nr, ns := utf8.DecodeRuneInString(s[j:])
				if nr == '.' || nr == '?' || nr == '!' {
					j += ns
				} else {
					break
				}
			}

			if followedByWhitespaceUppercase(s, j) {
				tokens = append(tokens, Token{
					Text:  s[sentStart:j],
					Start: sentStart,
					End:   j,
					Type:  Sentence,
				})
				sentStart = j
			}
			i = j
			continue
		}

		// Unicode ellipsis U+2026.
		if r == '\u2026' {
			j := i + size
			if followedByWhitespaceUppercase(s, j) {
				tokens = append(tokens, Token{
					Text:  s[sentStart:j],
					Start: sentStart,
					End:   j,
					Type:  Sentence,
				})
				sentStart = j
			}
			i = j
			continue
		}

		i += size
	}

	// Emit the final sentence if there is remaining text.
	if sentStart < len(s) {
		tokens = append(tokens, Token{
			Text:  s[sentStart:],
			Start: sentStart,
			End:   len(s),
			Type:  Sentence,
		})
	}

	return tokens
}

// followedByWhitespaceUppercase reports whether position pos in s is followed
// by at least one whitespace character and then an uppercase letter.
func followedByWhitespaceUppercase(s string, pos int) bool {
	i := pos
	foundSpace := false
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			foundSpace = true
			i += size
		} else {
			return foundSpace && unicode.IsUpper(r)
		}
	}
	return false
}

// isAbbreviation checks whether the dot at byte position dotPos is part of
// a known abbreviation rather than a sentence-ending period.
// The candidate is the run of letters and dots ending at dotPos, so both
// "dr." and "e.g." are looked up as a whole.
func isAbbreviation(s string, dotPos int) bool {
	start := dottedRunStart(s, dotPos)
	if start == dotPos {
		return false
	}
	candidate := strings.ToLower(s[start:dotPos]) + "."
	return abbreviations[candidate]
}

// dottedRunStart walks back from pos over letters and dots and returns the
// byte offset where the run begins. Returns pos if no letter precedes it.
func dottedRunStart(s string, pos int) int {
	i := pos
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if unicode.IsLetter(r) || r == '.' {
			i -= size
		} else {
			break
		}
	}
	for i < pos && s[i] == '.' {
		i++
	}
	return i
}
