package grading

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/studybuddy/internal/questionbank"
)

// MaxHintLevel is the last escalation step.
const MaxHintLevel = 3

const genericNudge = "Think carefully about the concept this question is testing."

// HintFor returns the hint text for q at level: the authored hint when one
// exists, otherwise FallbackHint over the answer. Multiple-choice fallbacks
// describe the correct option's text rather than its letter.
func HintFor(q *questionbank.Question, level int) string {
	level = clampLevel(level)
	if h := q.Hint(level); h != "" {
		return h
	}
	answer := q.CorrectAnswer
	if q.IsMultipleChoice() {
		if text, ok := q.Options.Text(q.CorrectAnswer); ok {
			answer = text
		}
	}
	return FallbackHint(answer, level)
}

// FallbackHint builds a hint from the answer alone. It is a pure function
// of its inputs and never returns the complete answer.
func FallbackHint(answer string, level int) string {
	answer = strings.TrimSpace(answer)
	level = clampLevel(level)
	n := utf8.RuneCountInString(answer)
	if n == 0 || level == 1 {
		return genericNudge
	}

	if level == 2 {
		words := strings.Fields(answer)
		switch {
		case n <= 3:
			return fmt.Sprintf("The answer is %s long.", plural(n, "character"))
		case len(words) == 1:
			first, _ := utf8.DecodeRuneInString(answer)
			return fmt.Sprintf("The answer starts with **%c** and is %d characters long.", first, n)
		default:
			return fmt.Sprintf("The answer has %d words. The first word is **%s**.", len(words), words[0])
		}
	}

	return fmt.Sprintf("The answer looks like: `%s`", Mask(answer))
}

// Mask hides the interior of answer behind underscores. Answers longer than
// four characters keep their first and last character; shorter ones keep
// only the first; a single character is fully hidden.
func Mask(answer string) string {
	r := []rune(answer)
	switch n := len(r); {
	case n == 0:
		return ""
	case n == 1:
		return "_"
	case n <= 4:
		return string(r[0]) + strings.Repeat("_", n-1)
	default:
		return string(r[0]) + strings.Repeat("_", n-2) + string(r[n-1])
	}
}

func clampLevel(level int) int {
	return max(1, min(level, MaxHintLevel))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
