// Package data embeds the word lists used by the keyword pipeline.
package data

import _ "embed"

// Stopwords is the English stop-word list, one lowercase word per line.
// Lines starting with '#' are comments.
//
//go:embed stopwords.txt
var Stopwords []byte
