package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects and configures the model vendor.
type Config struct {
	// Provider is "anthropic", "openai", "gemini", "openrouter", "mock" or
	// "none". With "none" the tutor grades by matching only.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Completer call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string

	// BaseURL points the client at an OpenAI-compatible server.
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is the backoff policy of WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "none",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// vendorKey ties a provider name to its API key field and to the
// conventional environment variable checked by DiscoverConfig.
type vendorKey struct {
	provider string
	env      string
	key      func(*Config) *string
}

// vendorKeys is in discovery order.
var vendorKeys = []vendorKey{
	{"gemini", "GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"openai", "OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"anthropic", "ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"openrouter", "OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// DiscoverConfig selects the first vendor whose conventional API key
// variable is set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	for _, v := range vendorKeys {
		if k := os.Getenv(v.env); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = v.provider
			*v.key(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the provider is known and has an API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "", "none", "mock":
		return nil
	}
	for _, v := range vendorKeys {
		if v.provider != c.Provider {
			continue
		}
		if *v.key(&c) == "" {
			return fmt.Errorf("STUDYBUDDY_LLM_%s_API_KEY is required for the %s provider",
				strings.ToUpper(v.provider), v.provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
