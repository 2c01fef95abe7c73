package util

import (
	"regexp"
	"strings"
)

var (
	controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Preview returns the first maxRunes characters followed by "..." regardless of length.
func Preview(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) > maxRunes {
		runes = runes[:maxRunes]
	}
	return string(runes) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeKey collapses whitespace and case so equivalent messages share a cache key.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(Normalize(s)), " ")
}

// ContainsAny reports whether s contains any of the given substrings.
func ContainsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Contains checks if a string slice contains a specific item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// SanitizeInput replaces control characters with spaces, collapses whitespace and
// caps the result at maxRunes characters.
func SanitizeInput(input string, maxRunes int) string {
	withoutControl := controlCharsPattern.ReplaceAllString(input, " ")
	normalized := strings.TrimSpace(whitespacePattern.ReplaceAllString(withoutControl, " "))

	runes := []rune(normalized)
	if len(runes) > maxRunes {
		return string(runes[:maxRunes])
	}
	return normalized
}
