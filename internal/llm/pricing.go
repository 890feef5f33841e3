package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost is the USD price of one request's tokens.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

type priceRule struct {
	prefix string
	cost   ModelCost
}

// priceRules is ordered longest prefix first within each family, so a
// dated ID such as "claude-haiku-4-5-20251001" or an OpenRouter ID such as
// "openai/gpt-4o-mini" finds its base model. Prices as of 2026-02.
var priceRules = []priceRule{
	{"claude-haiku-4-5", ModelCost{1, 5}},
	{"claude-3-5-haiku", ModelCost{0.8, 4}},
	{"claude-sonnet-4", ModelCost{3, 15}},
	{"claude-opus-4-5", ModelCost{5, 25}},
	{"claude-opus-4", ModelCost{15, 75}},

	{"gpt-4o-mini", ModelCost{0.15, 0.6}},
	{"gpt-4o", ModelCost{2.5, 10}},
	{"gpt-4.1-nano", ModelCost{0.1, 0.4}},
	{"gpt-4.1-mini", ModelCost{0.4, 1.6}},
	{"gpt-4.1", ModelCost{2, 8}},
	{"gpt-5-nano", ModelCost{0.05, 0.4}},
	{"gpt-5-mini", ModelCost{0.25, 2}},
	{"gpt-5", ModelCost{1.25, 10}},

	{"gemini-2.0-flash-lite", ModelCost{0.075, 0.3}},
	{"gemini-2.0-flash", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash-lite", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash", ModelCost{0.3, 2.5}},
	{"gemini-2.5-pro", ModelCost{1.25, 10}},
}

// LookupCost returns the pricing for a model ID, or nil when unknown.
// A vendor prefix such as "google/" is ignored.
func LookupCost(modelID string) *ModelCost {
	id := modelID
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	for _, r := range priceRules {
		if strings.HasPrefix(id, r.prefix) {
			c := r.cost
			return &c
		}
	}
	return nil
}
