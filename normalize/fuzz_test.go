package normalize

import (
	"strings"
	"testing"
	"unicode"
)

func FuzzNormalize(f *testing.F) {
	f.Add("The quick brown fox.")
	f.Add("")
	f.Add("   ")
	f.Add("https://example.com fox")
	f.Add("user@mail.com")
	f.Add("123 fox 5g")
	f.Add("\xff\xfe")
	f.Add("\x00")
	f.Add("state-of-the-art")
	f.Add("İSTANBUL")

	f.Fuzz(func(t *testing.T, s string) {
		result := Normalize(s)

		if again := Normalize(s); again != result {
			t.Errorf("non-deterministic:\ninput:  %q\nfirst:  %q\nsecond: %q", s, result, again)
		}
		if strings.TrimSpace(result) != result {
			t.Errorf("untrimmed output %q for input %q", result, s)
		}
		if strings.Contains(result, "  ") {
			t.Errorf("double space in output %q for input %q", result, s)
		}
		for _, r := range result {
			if r != ' ' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				t.Errorf("unexpected rune %q in output %q for input %q", r, result, s)
				break
			}
		}
	})
}
