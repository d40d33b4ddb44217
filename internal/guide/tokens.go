package guide

import (
	"strings"
	"unicode"
)

// EstimateTokens gives a rough token count for logging prompt size.
// Hangul syllables count as one token each; other words use the
// ~0.75 words per token rule.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	var words, hangul int
	for _, w := range strings.Fields(text) {
		n := 0
		for _, r := range w {
			if unicode.Is(unicode.Hangul, r) {
				n++
			}
		}
		if n > 0 {
			hangul += n
		} else {
			words++
		}
	}
	tokens := hangul + int(float64(words)*1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
