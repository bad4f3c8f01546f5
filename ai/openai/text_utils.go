package openai

import "strings"

// normalizeQuery collapses runs of whitespace and trims the ends.
// Query punctuation is kept since constraints like "25-35" carry meaning.
func normalizeQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
