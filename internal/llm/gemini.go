package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiAliases = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-lite":  "gemini-2.5-flash-lite",
	"gemini-pro":   "gemini-2.5-pro",
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

type geminiBackend struct {
	client *genai.Client
	id     string
}

// NewGeminiProvider returns a Provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (Provider, error) {
	if err := requireKey("gemini", cfg.APIKey); err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &vendorProvider{b: &geminiBackend{client: client, id: resolveModel(cfg.Model, geminiAliases)}}, nil
}

func (b *geminiBackend) model() string { return b.id }

func (b *geminiBackend) send(ctx context.Context, req Request) (*Response, error) {
	conf := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		conf.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		conf.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		conf.ResponseMIMEType = "application/json"
		conf.ResponseSchema = geminiSchema(req.Schema.Definition)
	}

	out, err := b.client.Models.GenerateContent(ctx, b.id, geminiContents(req.Messages), conf)
	if err != nil {
		if code, ok := geminiStatus(err); ok {
			return nil, classifyStatus(code, nil, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}

	resp := &Response{Text: out.Text(), Model: b.id, Stop: StopEnd}
	if out.ModelVersion != "" {
		resp.Model = out.ModelVersion
	}
	if len(out.Candidates) > 0 && out.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		resp.Stop = StopMaxTokens
	}
	if u := out.UsageMetadata; u != nil {
		resp.Usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: int(u.CandidatesTokenCount)}
	}
	return resp, nil
}

// geminiContents maps chat turns onto genai roles; Gemini calls the
// assistant side "model".
func geminiContents(msgs []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

// geminiStatus extracts the HTTP status from a genai error, which the SDK
// may return by value or by pointer.
func geminiStatus(err error) (int, bool) {
	var val genai.APIError
	if errors.As(err, &val) {
		return val.Code, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) {
		return ptr.Code, true
	}
	return 0, false
}

// geminiSchema converts the JSON Schema subset the tutor uses (type,
// description, properties, required, enum, items) to a genai.Schema.
func geminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeString}
	if t, ok := def["type"].(string); ok {
		if gt, known := geminiTypes[t]; known {
			s.Type = gt
		}
	}
	s.Description, _ = def["description"].(string)

	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pd, ok := p.(map[string]any); ok {
				s.Properties[name] = geminiSchema(pd)
			}
		}
	}
	s.Required = stringList(def["required"])
	s.Enum = stringList(def["enum"])
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = geminiSchema(items)
	}
	return s
}

// stringList accepts both []string and the []any produced by decoding JSON.
func stringList(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, x := range vals {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
