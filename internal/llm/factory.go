package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/studybuddy/internal/store"
)

// NewProvider builds the configured provider, wrapped as
// retry → logging → vendor. Logging is skipped when eventRepo is nil. The
// "none" provider yields (nil, nil) and "mock" an empty MockProvider.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "none", "":
		return nil, nil
	case "mock":
		return NewMockProvider(), nil
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		p, err = NewOpenRouterProvider(cfg.OpenRouter)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo)
	}
	return WithRetry(p, cfg.Retry), nil
}
