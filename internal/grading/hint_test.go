package grading

import (
	"strings"
	"testing"

	"github.com/abhisek/studybuddy/internal/questionbank"
)

func TestFallbackHint(t *testing.T) {
	tests := []struct {
		answer string
		level  int
		want   string
	}{
		{"append", 1, "Think carefully about the concept this question is testing."},
		{"append", 0, "Think carefully about the concept this question is testing."},
		{"int", 2, "The answer is 3 characters long."},
		{"3", 2, "The answer is 1 character long."},
		{"append", 2, "The answer starts with **a** and is 6 characters long."},
		{"the def keyword", 2, "The answer has 3 words. The first word is **the**."},
		{"append", 3, "The answer looks like: `a____d`"},
		{"append", 7, "The answer looks like: `a____d`"},
		{"list", 3, "The answer looks like: `l___`"},
		{"3", 3, "The answer looks like: `_`"},
		{"", 3, "Think carefully about the concept this question is testing."},
	}
	for _, tt := range tests {
		if got := FallbackHint(tt.answer, tt.level); got != tt.want {
			t.Errorf("FallbackHint(%q, %d) = %q, want %q", tt.answer, tt.level, got, tt.want)
		}
	}
}

func TestFallbackHint_NeverRevealsAnswer(t *testing.T) {
	answers := []string{"a", "ab", "abc", "list", "tuple", "append", "len()", "x = 5", "for loop", "ñandú"}
	for _, a := range answers {
		for level := 1; level <= MaxHintLevel; level++ {
			h := FallbackHint(a, level)
			// Very short answers occur inside ordinary words of the hint text.
			if len([]rune(a)) >= 4 && strings.Contains(h, a) {
				t.Errorf("FallbackHint(%q, %d) = %q reveals the answer", a, level, h)
			}
			if h == a {
				t.Errorf("FallbackHint(%q, %d) returned the answer", a, level)
			}
		}
		if Mask(a) == a {
			t.Errorf("Mask(%q) returned the answer", a)
		}
	}
}

func TestHintFor(t *testing.T) {
	q := &questionbank.Question{
		ID:            "ls-b-2",
		Type:          questionbank.ShortAnswer,
		CorrectAnswer: "append",
		Hint1:         "Think about ordering",
	}
	if got := HintFor(q, 1); got != "Think about ordering" {
		t.Errorf("level 1 = %q", got)
	}
	if got := HintFor(q, 2); got != "The answer starts with **a** and is 6 characters long." {
		t.Errorf("level 2 = %q", got)
	}

	mc := &questionbank.Question{
		Type:          questionbank.MultipleChoice,
		CorrectAnswer: "B",
		Options:       questionbank.Options{{Letter: "A", Text: "tuple"}, {Letter: "B", Text: "list"}},
	}
	if got := HintFor(mc, 3); got != "The answer looks like: `l___`" {
		t.Errorf("multiple choice level 3 = %q", got)
	}
}
