package keywords

import (
	"bytes"
	"slices"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/data"
)

// stopwords holds English function words plus news filler that carries no
// topical value. Populated in init, read-only after.
var stopwords map[string]struct{}

func init() {
	lines := bytes.Split(data.Stopwords, []byte("\n"))
	stopwords = make(map[string]struct{}, len(lines))

	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		stopwords[string(line)] = struct{}{}
	}
}

// IsStopword reports whether w is in the stop-word set.
// The lookup is exact; w must already be lowercase.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Stopwords returns the stop-word set as a sorted slice.
// The caller owns the returned slice.
func Stopwords() []string {
	words := make([]string, 0, len(stopwords))
	for w := range stopwords {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
