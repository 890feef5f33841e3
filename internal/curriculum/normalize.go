package curriculum

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, drops apostrophes, turns every other
// punctuation or symbol rune into a space and collapses whitespace.
// "What's a for-loop?" becomes "whats a for loop".
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '\'' || r == '’':
			// "don't" and "dont" must normalize the same way.
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens splits normalized text into words.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// titleWords turns "data_types" into "Data Types".
func titleWords(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
