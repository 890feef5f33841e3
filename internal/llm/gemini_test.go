package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModels(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiAliases))
	assert.Equal(t, "gemini-2.5-pro", resolveModel("gemini-pro", geminiAliases))
	assert.Equal(t, "gemini-2.0-flash-001", resolveModel("gemini-2.0-flash-001", geminiAliases))

	_, err := NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-flash"})
	assert.ErrorContains(t, err, "gemini API key is required")
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(verdictSchema.Definition)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"correct", "reason"}, s.Required)
	require.Contains(t, s.Properties, "correct")
	assert.Equal(t, genai.TypeBoolean, s.Properties["correct"].Type)
	assert.Equal(t, "One short sentence.", s.Properties["reason"].Description)
}

func TestGeminiSchema_ArraysAndEnums(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "string",
			"enum": []any{"lists", "loops"},
		},
	})

	assert.Equal(t, genai.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, []string{"lists", "loops"}, s.Items.Enum)
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"a"}, stringList([]string{"a"}))
	assert.Equal(t, []string{"a", "b"}, stringList([]any{"a", 1, "b"}))
	assert.Nil(t, stringList("a"))
}

func TestGeminiContents(t *testing.T) {
	got := geminiContents([]Message{
		{Role: RoleUser, Content: "what is a tuple?"},
		{Role: RoleAssistant, Content: "An immutable sequence."},
		{Role: RoleUser, Content: "and a list?"},
	})

	require.Len(t, got, 3)
	assert.Equal(t, genai.Role(genai.RoleUser), genai.Role(got[0].Role))
	assert.Equal(t, genai.Role(genai.RoleModel), genai.Role(got[1].Role))
	assert.Equal(t, genai.Role(genai.RoleUser), genai.Role(got[2].Role))
	require.Len(t, got[1].Parts, 1)
	assert.Equal(t, "An immutable sequence.", got[1].Parts[0].Text)

	assert.Empty(t, geminiContents(nil))
}
