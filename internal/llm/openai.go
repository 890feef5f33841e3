package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openaiBackend speaks the Chat Completions API. OpenRouter is the same
// backend pointed at a different base URL.
type openaiBackend struct {
	client *openai.Client
	id     string
}

// NewOpenAIProvider returns a Provider for OpenAI or any compatible API
// selected by cfg.BaseURL.
func NewOpenAIProvider(cfg OpenAIConfig) (Provider, error) {
	if err := requireKey("openai", cfg.APIKey); err != nil {
		return nil, err
	}
	return &vendorProvider{b: newOpenAIBackend(cfg.APIKey, cfg.BaseURL, cfg.Model)}, nil
}

// NewOpenRouterProvider returns a Provider for OpenRouter. Model IDs such
// as "google/gemini-2.0-flash-001" are used as given.
func NewOpenRouterProvider(cfg OpenRouterConfig) (Provider, error) {
	if err := requireKey("openrouter", cfg.APIKey); err != nil {
		return nil, err
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return &vendorProvider{b: newOpenAIBackend(cfg.APIKey, baseURL, cfg.Model)}, nil
}

func newOpenAIBackend(key, baseURL, model string) *openaiBackend {
	conf := openai.DefaultConfig(key)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &openaiBackend{client: openai.NewClientWithConfig(conf), id: model}
}

func (b *openaiBackend) model() string { return b.id }

func (b *openaiBackend) send(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               b.id,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	out, err := b.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, classifyStatus(apiErr.HTTPStatusCode, nil, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, classifyStatus(reqErr.HTTPStatusCode, nil, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(out.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("openai reply has no choices")}
	}

	choice := out.Choices[0]
	resp := &Response{
		Text:  choice.Message.Content,
		Model: out.Model,
		Stop:  StopEnd,
		Usage: Usage{InputTokens: out.Usage.PromptTokens, OutputTokens: out.Usage.CompletionTokens},
	}
	if choice.FinishReason == openai.FinishReasonLength {
		resp.Stop = StopMaxTokens
	}
	return resp, nil
}
