package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openaiServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 5, "total_tokens": 35},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestOpenAI_Text(t *testing.T) {
	var got map[string]any
	url := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, chatCompletion("Use a for loop.", "stop"))
	})

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		System:   "You are a Python tutor.",
		Messages: []Message{{Role: RoleUser, Content: "How do I iterate a list?"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Use a for loop.", resp.Text)
	assert.Equal(t, StopEnd, resp.Stop)
	assert.Equal(t, 35, resp.Usage.Total())
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Nil(t, got["response_format"])
}

func TestOpenAI_StructuredRequest(t *testing.T) {
	var got map[string]any
	url := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, chatCompletion(`{"correct": true, "reason": "Same list."}`, "stop"))
	})

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "judge"}},
		Schema:   verdictSchema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"correct": true, "reason": "Same list."}`, resp.Text)

	format, ok := got["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "answer-verdict", schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestOpenAI_InvalidStructuredReply(t *testing.T) {
	url := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, chatCompletion(`{"correct": "maybe"}`, "stop"))
	})
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "judge"}},
		Schema:   verdictSchema,
	})
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, retryOnce, classify(err))
}

func TestOpenAI_LengthWithSchema(t *testing.T) {
	url := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, chatCompletion(`{"correct": tru`, "length"))
	})
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "judge"}},
		Schema:   verdictSchema,
	})
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestOpenAI_LengthWithoutSchema(t *testing.T) {
	url := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, chatCompletion("A list comprehension builds", "length"))
	})
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "explain"}}})
	require.NoError(t, err)
	assert.Equal(t, StopMaxTokens, resp.Stop)
}

func TestOpenAI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"rate limit", http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl *ErrRateLimit
			assert.ErrorAs(t, err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var unavail *ErrProviderUnavailable
			require.ErrorAs(t, err, &unavail)
			assert.Equal(t, http.StatusInternalServerError, unavail.Status)
		}},
		{"bad model", http.StatusNotFound, func(t *testing.T, err error) {
			assert.Equal(t, retryNever, classify(err))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]any{
					"error": map[string]any{"message": tt.name, "type": "error"},
				})
			})
			p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: url})
			require.NoError(t, err)

			_, err = p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestOpenRouter(t *testing.T) {
	var model string
	url := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		model, _ = body["model"].(string)
		writeJSON(w, http.StatusOK, chatCompletion("ok", "stop"))
	})

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.0-flash-001", BaseURL: url})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-001", p.ModelID())

	_, err = p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-001", model)

	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "x"})
	assert.ErrorContains(t, err, "openrouter API key is required")
}

func TestNewOpenAIBackend_DefaultBaseURL(t *testing.T) {
	b := newOpenAIBackend("k", "", "gpt-4o-mini")
	assert.Equal(t, "gpt-4o-mini", b.model())
}
