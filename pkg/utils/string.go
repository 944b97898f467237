package utils

import (
	"strings"
	"unicode/utf8"
)

// NormalizeWhitespace replaces runs of whitespace with a single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateRunes cuts str to at most maxRunes runes and appends "..." when it was cut.
func TruncateRunes(str string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(str) <= maxRunes {
		return str
	}

	runes := []rune(str)

	return string(runes[:maxRunes]) + "..."
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
