// internal/util/util.go
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// FlattenText collapses all whitespace runs (including newlines) into
// single spaces and trims the ends, for one-line display of chunk text.
func FlattenText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
