package guard

import (
	"math"
	"strings"
	"unicode"
)

const (
	tokensPerWord = 1.33
	// MaxOutputTokens это лимит на длину сгенерированного письма.
	MaxOutputTokens = 1000
)

// EstimateTokens approximates the token count as words × 1.33.
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(len(strings.Fields(text))) * tokensPerWord))
}

// LimitTokens cuts text at a word boundary so that its estimate stays within
// maxTokens. The second result reports whether anything was cut.
func LimitTokens(text string, maxTokens int) (string, bool) {
	if EstimateTokens(text) <= maxTokens {
		return text, false
	}

	maxWords := int(math.Floor(float64(maxTokens) / tokensPerWord))

	var (
		b      strings.Builder
		words  int
		inWord bool
	)

	for _, r := range text {
		isSpace := unicode.IsSpace(r)

		if !isSpace && !inWord {
			if words == maxWords {
				break
			}

			words++
		}

		inWord = !isSpace

		b.WriteRune(r)
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace), true
}
