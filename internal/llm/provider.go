// Package llm talks to hosted language models. The tutor only needs short
// completions and yes/no verdicts, so every vendor is reduced to one
// request/reply call behind Provider.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider sends one request to a model.
type Provider interface {
	// Generate returns the model's reply. When req.Schema is set the reply
	// text has been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider is configured for.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for a JSON reply of this shape, using the vendor's
	// structured output mode.
	Schema *Schema

	// MaxTokens caps the reply. Zero uses defaultMaxTokens.
	MaxTokens int

	// Temperature is sent only when > 0.
	Temperature float64
}

// Message is one conversation entry.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema document.
type Schema struct {
	// Name is a kebab-case identifier, used as the OpenAI schema name and
	// as the compile cache key.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason says why the model stopped.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a model reply.
type Response struct {
	// Text is the reply. It is a JSON document when the request had a Schema.
	Text  string
	Usage Usage

	// Model is the model that served the request, as reported by the vendor.
	Model string
	Stop  StopReason
}

// Decode unmarshals a structured reply into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal([]byte(r.Text), v); err != nil {
		return &ErrInvalidResponse{Content: r.Text, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
