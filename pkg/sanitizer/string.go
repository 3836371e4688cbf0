package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading/trailing whitespace and collapses any
// internal whitespace run into a single space. Display text coming out
// of the document store is user-entered and often carries stray
// newlines and double spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

var statusPipeline = Pipeline{TrimAndNormalize, strings.ToLower}

// NormalizeStatus lowercases a raw status value after whitespace cleanup.
// Status comparison is case-insensitive everywhere in the console.
func NormalizeStatus(status string) string {
	return statusPipeline.Apply(status)
}

// Truncate cuts s to at most n runes. Used for the shortened identifier
// forms shown on court cards.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
