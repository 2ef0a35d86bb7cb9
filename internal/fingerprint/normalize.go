// Package fingerprint turns page text into word shingles and compares them.
package fingerprint

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, replaces every character outside [a-z0-9] with a space,
// collapses runs of spaces, and trims. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(text))
	wasSpace := true
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			wasSpace = false
			continue
		}
		if !wasSpace {
			b.WriteByte(' ')
			wasSpace = true
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// Words returns the normalized word sequence of text.
func Words(text string) []string {
	return strings.Fields(Normalize(text))
}
