package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_RepliesInOrder(t *testing.T) {
	mock := NewMockProvider(MockText("first"), MockText("second"))

	r1, err := mock.Generate(context.Background(), Request{MaxTokens: 8})
	require.NoError(t, err)
	r2, err := mock.Generate(context.Background(), Request{MaxTokens: 16})
	require.NoError(t, err)

	assert.Equal(t, "first", r1.Text)
	assert.Equal(t, "second", r2.Text)
	assert.Equal(t, "mock", r1.Model)
	assert.Equal(t, StopEnd, r1.Stop)
	require.Equal(t, 2, mock.CallCount())
	assert.Equal(t, 16, mock.Calls[1].MaxTokens)
}

func TestMockProvider_Exhausted(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})

	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)

	mock.AddResponse(MockText("late"))
	resp, err := mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "late", resp.Text)
}

func TestMockProvider_ConfiguredError(t *testing.T) {
	boom := errors.New("boom")
	mock := NewMockProvider(MockResponse{Err: boom})
	_, err := mock.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)
}

func TestResponse_Decode(t *testing.T) {
	var v Verdict
	require.NoError(t, (&Response{Text: `{"correct":true,"reason":"same"}`}).Decode(&v))
	assert.True(t, v.Correct)
	assert.Equal(t, "same", v.Reason)

	err := (&Response{Text: "yes"}).Decode(&v)
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "yes", invalid.Content)
}

func TestUsage_Total(t *testing.T) {
	assert.Equal(t, 15, Usage{InputTokens: 10, OutputTokens: 5}.Total())
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Empty(t, SessionFrom(ctx))

	ctx = WithSession(WithPurpose(ctx, PurposeSummary), "sess-1")
	assert.Equal(t, PurposeSummary, PurposeFrom(ctx))
	assert.Equal(t, "sess-1", SessionFrom(ctx))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, "STUDYBUDDY_LLM_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "k"}}, ""},
		{"openai without key", Config{Provider: "openai"}, "STUDYBUDDY_LLM_OPENAI_API_KEY"},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}, ""},
		{"openrouter without key", Config{Provider: "openrouter"}, "STUDYBUDDY_LLM_OPENROUTER_API_KEY"},
		{"none", Config{Provider: "none"}, ""},
		{"mock", Config{Provider: "mock"}, ""},
		{"unknown", Config{Provider: "llama"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.Equal(t, "claude-haiku", cfg.Anthropic.Model)
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, Config{Provider: "none"}, nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(ctx, Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "sk-test"
	p, err = NewProvider(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())

	_, err = NewProvider(ctx, Config{Provider: "anthropic"}, nil)
	assert.ErrorContains(t, err, "init anthropic provider")

	_, err = NewProvider(ctx, Config{Provider: "llama"}, nil)
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"gpt-4o", &ModelCost{2.5, 10}},
		{"openai/gpt-4.1-mini", &ModelCost{0.4, 1.6}},
		{"google/gemini-2.0-flash-001", &ModelCost{0.1, 0.4}},
		{"mock", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LookupCost(tt.model), tt.model)
	}

	assert.InDelta(t, 0.65, ModelCost{InputPerMTok: 1, OutputPerMTok: 5}.Cost(150_000, 100_000), 1e-9)
}
