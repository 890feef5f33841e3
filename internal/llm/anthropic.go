package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicAliases = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-5-20250929",
}

type anthropicBackend struct {
	client anthropic.Client
	id     string
}

// NewAnthropicProvider returns a Provider backed by the Anthropic Messages API.
func NewAnthropicProvider(cfg AnthropicConfig, opts ...option.RequestOption) (Provider, error) {
	if err := requireKey("anthropic", cfg.APIKey); err != nil {
		return nil, err
	}
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &vendorProvider{b: &anthropicBackend{
		client: anthropic.NewClient(opts...),
		id:     resolveModel(cfg.Model, anthropicAliases),
	}}, nil
}

func (b *anthropicBackend) model() string { return b.id }

func (b *anthropicBackend) send(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.id),
		MaxTokens: int64(req.MaxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := b.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			var h http.Header
			if apiErr.Response != nil {
				h = apiErr.Response.Header
			}
			return nil, classifyStatus(apiErr.StatusCode, h, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}

	resp := &Response{
		Model: string(msg.Model),
		Stop:  StopEnd,
		Usage: Usage{InputTokens: int(msg.Usage.InputTokens), OutputTokens: int(msg.Usage.OutputTokens)},
	}
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		resp.Stop = StopMaxTokens
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			resp.Text += block.Text
		}
	}
	if resp.Text == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("anthropic reply has no text content")}
	}
	return resp, nil
}
