// Package questionbank loads and serves the read-only quiz question bank.
package questionbank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/curriculum"
)

// QuestionType is the answer format of a question.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
)

// Question is one quiz record. Questions are shared read-only once loaded.
type Question struct {
	ID            string                `json:"quiz_id"`
	Topic         curriculum.Topic      `json:"topic"`
	Difficulty    curriculum.Difficulty `json:"difficulty"`
	Type          QuestionType          `json:"question_type"`
	Text          string                `json:"question"`
	CorrectAnswer string                `json:"correct_answer"`
	Options       Options               `json:"options,omitempty"`
	Hint1         string                `json:"hint_1,omitempty"`
	Hint2         string                `json:"hint_2,omitempty"`
	Hint3         string                `json:"hint_3,omitempty"`
	Explanation   string                `json:"explanation,omitempty"`
}

// Hint returns the pre-authored hint for an escalation level (1-3),
// or "" when none was written.
func (q *Question) Hint(level int) string {
	switch level {
	case 1:
		return q.Hint1
	case 2:
		return q.Hint2
	case 3:
		return q.Hint3
	default:
		return ""
	}
}

// IsMultipleChoice reports whether the question offers lettered options.
func (q *Question) IsMultipleChoice() bool {
	return q.Type == MultipleChoice
}

// Option is a single lettered choice.
type Option struct {
	Letter string
	Text   string
}

// Options keeps multiple-choice options in the order they were authored.
// It encodes as a JSON object {"A": "...", "B": "..."}.
type Options []Option

// Has reports whether letter (case-insensitive) is one of the option letters.
func (o Options) Has(letter string) bool {
	for _, opt := range o {
		if strings.EqualFold(opt.Letter, letter) {
			return true
		}
	}
	return false
}

// Text returns the text of the option with the given letter (case-insensitive).
func (o Options) Text(letter string) (string, bool) {
	for _, opt := range o {
		if strings.EqualFold(opt.Letter, letter) {
			return opt.Text, true
		}
	}
	return "", false
}

// Letters returns the option letters in authored order.
func (o Options) Letters() []string {
	out := make([]string, len(o))
	for i, opt := range o {
		out[i] = opt.Letter
	}
	return out
}

// UnmarshalJSON decodes an object while preserving key order.
func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("options: expected object, got %v", tok)
	}

	var out Options
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("options: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("options: unexpected key %v", keyTok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("options[%s]: %w", key, err)
		}
		out = append(out, Option{Letter: key, Text: text})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	*o = out
	return nil
}

// MarshalJSON encodes the options as an object in authored order.
func (o Options) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(opt.Letter)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(opt.Text)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
