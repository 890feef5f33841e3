// Package grading decides whether a learner's answer is correct and builds
// hints that never give the answer away.
package grading

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/llm"
)

// Generator produces text for a prompt. Implementations return a non-nil
// error when the text is not a real model reply.
type Generator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// VerdictJudge is an optional Generator capability: a structured
// correct/incorrect decision. When the structured call fails the evaluator
// falls back to a free-text judgment.
type VerdictJudge interface {
	Judge(ctx context.Context, prompt string) (bool, error)
}

// Method names the tier that produced a verdict.
type Method string

const (
	MethodExact    Method = "exact"
	MethodContains Method = "contains"
	MethodJudge    Method = "judge"
	MethodLetter   Method = "letter"
)

// Tier scores.
const (
	ScoreExact    = 1.0
	ScoreContains = 0.9
	ScoreJudge    = 0.8

	judgeMaxTokens  = 16
	maxContextChars = 600
)

// Result is the verdict on one answer.
type Result struct {
	Correct     bool
	Score       float64
	Explanation string
	Method      Method
}

// Evaluator grades free-text answers in tiers: exact match, containment,
// then a yes/no judgment from the generator.
type Evaluator struct {
	gen Generator
}

// NewEvaluator returns an Evaluator. gen may be nil, in which case answers
// that fail the lexical tiers are graded incorrect.
func NewEvaluator(gen Generator) *Evaluator {
	return &Evaluator{gen: gen}
}

// Evaluate grades studentAnswer against correctAnswer. refContext is
// optional reference text included in the judgment prompt.
func (e *Evaluator) Evaluate(ctx context.Context, question, correctAnswer, studentAnswer, refContext string) Result {
	student := strings.ToLower(strings.TrimSpace(studentAnswer))
	expected := strings.ToLower(strings.TrimSpace(correctAnswer))

	if student == "" {
		return incorrect(correctAnswer, MethodExact)
	}
	if student == expected {
		return Result{Correct: true, Score: ScoreExact, Explanation: "Correct!", Method: MethodExact}
	}
	if expected != "" && (strings.Contains(student, expected) || strings.Contains(expected, student)) {
		return Result{Correct: true, Score: ScoreContains, Explanation: "Correct!", Method: MethodContains}
	}

	if e.gen == nil {
		return incorrect(correctAnswer, MethodJudge)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeAnswerJudge)
	prompt := judgePrompt(question, correctAnswer, studentAnswer, refContext)

	if j, ok := e.gen.(VerdictJudge); ok {
		correct, err := j.Judge(ctx, prompt+"\n\nDecide whether the student is correct.")
		if err == nil {
			return judged(correct, correctAnswer)
		}
		slog.Debug("structured judgment failed, asking for text", "error", err)
	}

	reply, err := e.gen.Complete(ctx, prompt+"\n\nReply with only 'yes' or 'no'.", judgeMaxTokens)
	if err != nil {
		slog.Warn("answer judgment failed", "error", err)
		return incorrect(correctAnswer, MethodJudge)
	}
	return judged(IsAffirmative(reply), correctAnswer)
}

// Letter grades a multiple-choice reply that is exactly an option letter.
func Letter(reply, correctLetter, explanation string) Result {
	if strings.EqualFold(strings.TrimSpace(reply), strings.TrimSpace(correctLetter)) {
		return Result{Correct: true, Score: ScoreExact, Explanation: explanation, Method: MethodLetter}
	}
	return Result{Score: 0, Explanation: explanation, Method: MethodLetter}
}

func judged(correct bool, correctAnswer string) Result {
	if correct {
		return Result{Correct: true, Score: ScoreJudge, Explanation: "Correct!", Method: MethodJudge}
	}
	return incorrect(correctAnswer, MethodJudge)
}

func incorrect(correctAnswer string, m Method) Result {
	return Result{
		Score:       0,
		Explanation: fmt.Sprintf("Not quite. The correct answer was: **%s**", correctAnswer),
		Method:      m,
	}
}

func judgePrompt(question, correctAnswer, studentAnswer, refContext string) string {
	var b strings.Builder
	if refContext = strings.TrimSpace(refContext); refContext != "" {
		if len(refContext) > maxContextChars {
			refContext = refContext[:maxContextChars]
		}
		b.WriteString("Reference material:\n")
		b.WriteString(refContext)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Is the student's answer correct?\nQuestion: %s\nCorrect answer: %s\nStudent answer: %s",
		question, correctAnswer, studentAnswer)
	return b.String()
}

// negators flip a following "correct".
var negators = map[string]bool{"not": true, "isnt": true, "never": true, "no": true}

// IsAffirmative reports whether a judgment reply says yes. The reply counts
// as affirmative when it starts with "yes", or when it contains the word
// "correct" not directly preceded by a negation. "incorrect" never counts.
func IsAffirmative(reply string) bool {
	toks := curriculum.Tokens(reply)
	if len(toks) == 0 {
		return false
	}
	switch toks[0] {
	case "yes":
		return true
	case "no":
		return false
	}
	for i, tok := range toks {
		if tok != "correct" {
			continue
		}
		if i > 0 && negators[toks[i-1]] {
			continue
		}
		return true
	}
	return false
}
