package keywords

import (
	"slices"
	"testing"
)

func FuzzExtract(f *testing.F) {
	f.Add("The cat sat on the mat. The cat was happy. A happy cat purrs.", 5)
	f.Add("Quick brown fox.", 3)
	f.Add("", 0)
	f.Add("a", 1)
	f.Add("the a an is of", 5)
	f.Add("\xff\xfe. \xff\xfe. \xff\xfe.", 2)
	f.Add("\x00", 50)
	f.Add("state-of-the-art. Don't stop. U.S. markets rallied.", -1)

	f.Fuzz(func(t *testing.T, text string, maxTerms int) {
		a, err := Extract(text, maxTerms)
		if err != nil {
			t.Fatalf("Extract error: %v", err)
		}
		b, _ := Extract(text, maxTerms)
		if a.Strategy != b.Strategy || !slices.Equal(a.Keywords, b.Keywords) {
			t.Fatalf("non-deterministic:\n  a = %v\n  b = %v", a, b)
		}

		limit := maxTerms
		if limit <= 0 {
			limit = DefaultMaxTerms
		}
		if len(a.Keywords) > limit {
			t.Errorf("got %d keywords, want <= %d", len(a.Keywords), limit)
		}
		for i, kw := range a.Keywords {
			if kw.Weight < 0 || kw.Weight > 1 {
				t.Errorf("[%d] weight %v out of [0,1]", i, kw.Weight)
			}
			if kw.Frequency < 1 {
				t.Errorf("[%d] frequency %d, want >= 1", i, kw.Frequency)
			}
			if i > 0 && kw.Weight > a.Keywords[i-1].Weight {
				t.Errorf("[%d] weight %v above previous %v", i, kw.Weight, a.Keywords[i-1].Weight)
			}
			if IsStopword(kw.Term) {
				t.Errorf("[%d] stop word %q returned", i, kw.Term)
			}
		}
		if len(a.Keywords) > 0 && a.Keywords[0].Weight != 1 {
			t.Errorf("top weight = %v, want 1", a.Keywords[0].Weight)
		}
	})
}

func FuzzWordFrequencies(f *testing.F) {
	f.Add("the cat sat on the mat")
	f.Add("")
	f.Add("café café 5g 5g 5g")
	f.Add("\xff\xfe")

	f.Fuzz(func(t *testing.T, text string) {
		freqs := WordFrequencies(text)
		terms := freqs.Terms()
		if len(terms) != freqs.Len() {
			t.Fatalf("Terms() has %d entries, Len() = %d", len(terms), freqs.Len())
		}
		for _, term := range terms {
			if freqs.Count(term) < 1 {
				t.Errorf("Count(%q) = %d, want >= 1", term, freqs.Count(term))
			}
			if !isCandidateWord(term) {
				t.Errorf("term %q should have been filtered", term)
			}
		}
	})
}
