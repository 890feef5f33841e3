package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrNoProvider is returned by a Completer with no backing provider.
var ErrNoProvider = errors.New("no LLM provider configured")

const (
	tutorSystemPrompt = "You are Study Buddy, a concise Python tutor. Answer briefly and plainly."
	verdictMaxTokens  = 96
)

// verdictSchema is the structured reply for answer judgments.
var verdictSchema = &Schema{
	Name:        "answer-verdict",
	Description: "Whether a student's answer to a Python question is correct.",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{"type": "boolean"},
			"reason":  map[string]any{"type": "string", "description": "One short sentence."},
		},
		"required":             []string{"correct", "reason"},
		"additionalProperties": false,
	},
}

// Verdict is a structured answer judgment.
type Verdict struct {
	Correct bool   `json:"correct"`
	Reason  string `json:"reason"`
}

// Completer adapts a Provider to the tutor's two needs: short free-text
// completions and yes/no answer verdicts.
type Completer struct {
	provider Provider
	timeout  time.Duration
}

// NewCompleter returns a Completer over p. A nil p yields a Completer whose
// every call fails with ErrNoProvider. timeout bounds each call when > 0.
func NewCompleter(p Provider, timeout time.Duration) *Completer {
	return &Completer{provider: p, timeout: timeout}
}

// Available reports whether a provider backs this Completer.
func (c *Completer) Available() bool {
	return c != nil && c.provider != nil
}

// Complete sends prompt as a single user message and returns the trimmed
// reply. On failure the text describes the failure and err is non-nil;
// callers must check err before trusting the text.
func (c *Completer) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.generate(ctx, Request{
		System:    tutorSystemPrompt,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		if errors.Is(err, ErrNoProvider) {
			return "[generation unavailable: " + err.Error() + "]", err
		}
		return fmt.Sprintf("[generation failed: %v]", err), err
	}
	return strings.TrimSpace(resp.Text), nil
}

// Judge asks for a structured verdict on an answer-judgment prompt.
func (c *Completer) Judge(ctx context.Context, prompt string) (bool, error) {
	resp, err := c.generate(ctx, Request{
		System:    tutorSystemPrompt + " When asked to judge an answer, accept answers that are equivalent in meaning.",
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    verdictSchema,
		MaxTokens: verdictMaxTokens,
	})
	if err != nil {
		return false, err
	}
	var v Verdict
	if err := resp.Decode(&v); err != nil {
		return false, err
	}
	slog.Debug("answer verdict", "correct", v.Correct, "reason", v.Reason)
	return v.Correct, nil
}

func (c *Completer) generate(ctx context.Context, req Request) (*Response, error) {
	if !c.Available() {
		return nil, ErrNoProvider
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.provider.Generate(ctx, req)
}
