package grading

import "strings"

// DegenerateRatio is the share of words a single repeated token may cover
// before generated text is treated as degenerate.
const DegenerateRatio = 0.5

const minUsefulChars = 10

// LooksDegenerate reports whether the most frequent whitespace-separated
// token covers more than DegenerateRatio of the words. Texts with fewer
// than three words are never degenerate.
func LooksDegenerate(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 3 {
		return false
	}
	counts := make(map[string]int, len(words))
	top := 0
	for _, w := range words {
		counts[w]++
		top = max(top, counts[w])
	}
	return float64(top) > DegenerateRatio*float64(len(words))
}

// Usable reports whether generated text can be shown: the generation
// succeeded, the text is longer than ten characters and is not degenerate.
func Usable(text string, err error) bool {
	text = strings.TrimSpace(text)
	return err == nil && len(text) > minUsefulChars && !LooksDegenerate(text)
}
