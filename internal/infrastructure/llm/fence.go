package llm

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals
var fenced = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n(.*?)```")

// ExtractJSON достаёт JSON из ответа модели: сначала из блока ```json,
// иначе от первой скобки до последней.
func ExtractJSON(text string) string {
	if m := fenced.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return ""
	}

	closing := "]"
	if text[start] == '{' {
		closing = "}"
	}

	end := strings.LastIndex(text, closing)
	if end < start {
		return ""
	}

	return text[start : end+1]
}
