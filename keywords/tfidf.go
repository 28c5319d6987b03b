package keywords

import (
	"errors"
	"math"
	"slices"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/normalize"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/tokenizer"
)

const (
	vocabularyFactor  = 3  // vocabulary cap is vocabularyFactor * maxTerms
	maxDocFreqPercent = 95 // terms in more than this share of segments are dropped
	minVocabRunes     = 3  // minimum length of a vocabulary token
	termSeparator     = " "
)

var (
	errInsufficientSegments = errors.New("keywords: fewer than 2 segments")
	errEmptyVocabulary      = errors.New("keywords: empty vocabulary")
	errNoPositiveScores     = errors.New("keywords: no term scored above zero")
)

// termStats aggregates one vocabulary term over all segments.
type termStats struct {
	first int // enumeration index of the first occurrence
	df    int // number of segments containing the term
	total int // occurrences across all segments
}

// ExtractTFIDF scores the unigrams and bigrams of text with segment-level
// TF-IDF and returns the top maxTerms keywords.
//
// The weighting is pinned to one formula. With N segments and df(t) the
// number of segments containing t:
//
//	idf(t)   = ln((1+N) / (1+df(t))) + 1
//	w(t,d)   = count(t,d) * idf(t), then each segment vector is L2-normalized
//	score(t) = (1/N) * sum over d of w(t,d)
//
// Unlike Extract, it never falls back: fewer than 2 segments, an empty
// vocabulary, or no positive score is reported as an error.
func ExtractTFIDF(text string, maxTerms int) ([]Keyword, error) {
	segments := tokenizer.Segments(text)
	if len(segments) < minSegments {
		return nil, errInsufficientSegments
	}
	return scoreTFIDF(segments, WordFrequencies(normalize.Normalize(text)), clampMaxTerms(maxTerms))
}

func scoreTFIDF(segments []string, freqs *Frequencies, maxTerms int) ([]Keyword, error) {
	docs := make([][]string, len(segments))
	for i, seg := range segments {
		docs[i] = segmentTerms(normalize.Normalize(seg))
	}

	vocab, stats := buildVocabulary(docs, vocabularyLimit(maxTerms))
	if len(vocab) == 0 {
		return nil, errEmptyVocabulary
	}

	scores := meanTFIDF(docs, vocab, stats)

	candidates := make([]candidate, 0, len(vocab))
	for i, term := range vocab {
		if scores[i] <= 0 || math.IsNaN(scores[i]) {
			continue
		}
		candidates = append(candidates, candidate{
			term:      term,
			score:     scores[i],
			frequency: termFrequency(term, stats[term], freqs),
		})
	}
	if len(candidates) == 0 {
		return nil, errNoPositiveScores
	}

	slices.SortStableFunc(candidates, cmpCandidate)
	return scaleScores(candidates, maxTerms), nil
}

// segmentTerms returns the unigrams and contiguous bigrams of a normalized
// segment in enumeration order: each bigram directly follows its second word.
// Only ASCII-alphabetic tokens of at least 3 letters that are not stop words
// take part, and bigrams are formed after stop words are removed.
func segmentTerms(seg string) []string {
	words := tokenizer.Words(seg)
	terms := make([]string, 0, 2*len(words))
	prev := ""
	for _, w := range words {
		if len(w) < minVocabRunes || !isASCIIAlpha(w) || IsStopword(w) {
			continue
		}
		terms = append(terms, w)
		if prev != "" {
			terms = append(terms, prev+termSeparator+w)
		}
		prev = w
	}
	return terms
}

// buildVocabulary collects term statistics, drops near-universal terms and
// caps the vocabulary at limit terms by total count. The returned terms are
// in enumeration order.
func buildVocabulary(docs [][]string, limit int) ([]string, map[string]termStats) {
	stats := make(map[string]termStats)
	var order []string
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			st, ok := stats[term]
			if !ok {
				st.first = len(order)
				order = append(order, term)
			}
			if _, dup := seen[term]; !dup {
				seen[term] = struct{}{}
				st.df++
			}
			st.total++
			stats[term] = st
		}
	}

	maxDF := maxDocFreq(len(docs))
	vocab := make([]string, 0, len(order))
	for _, term := range order {
		if stats[term].df <= maxDF {
			vocab = append(vocab, term)
		}
	}

	if len(vocab) > limit {
		slices.SortStableFunc(vocab, func(a, b string) int {
			return stats[b].total - stats[a].total
		})
		vocab = vocab[:limit]
		slices.SortFunc(vocab, func(a, b string) int {
			return stats[a].first - stats[b].first
		})
	}
	return vocab, stats
}

// vocabularyLimit returns vocabularyFactor * maxTerms, saturating at MaxInt.
func vocabularyLimit(maxTerms int) int {
	if maxTerms > math.MaxInt/vocabularyFactor {
		return math.MaxInt
	}
	return maxTerms * vocabularyFactor
}

// maxDocFreq returns ceil(0.95 * n), the largest document frequency a term
// may have and still be kept.
func maxDocFreq(n int) int {
	return (maxDocFreqPercent*n + 99) / 100
}

// meanTFIDF returns the mean L2-normalized TF-IDF weight of each vocabulary
// term over all segments. Segments without the term contribute 0.
func meanTFIDF(docs [][]string, vocab []string, stats map[string]termStats) []float64 {
	n := float64(len(docs))
	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(stats[term].df))) + 1
	}

	scores := make([]float64, len(vocab))
	counts := make([]int, len(vocab))
	present := make([]int, 0, len(vocab))
	for _, doc := range docs {
		// Sums run in first-seen order, never map order.
		present = present[:0]
		for _, term := range doc {
			i, ok := index[term]
			if !ok {
				continue
			}
			if counts[i] == 0 {
				present = append(present, i)
			}
			counts[i]++
		}
		if len(present) == 0 {
			continue
		}

		var norm float64
		for _, i := range present {
			w := float64(counts[i]) * idf[i]
			norm += w * w
		}
		norm = math.Sqrt(norm)

		for _, i := range present {
			scores[i] += float64(counts[i]) * idf[i] / norm
			counts[i] = 0
		}
	}

	for i := range scores {
		scores[i] /= n
	}
	return scores
}

// termFrequency returns the document frequency reported for a term.
// Unigrams use the whole-document word counts; bigrams use their contiguous
// occurrence count across segments.
func termFrequency(term string, st termStats, freqs *Frequencies) int {
	if isBigram(term) {
		return max(st.total, 1)
	}
	if n := freqs.Count(term); n > 0 {
		return n
	}
	return 1
}

func isASCIIAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}
