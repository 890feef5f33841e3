package questionbank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/studybuddy/internal/curriculum"
)

const schemaURL = "schema://quiz-questions.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// bankSchema describes the on-disk question bank: a JSON array of records.
// Topic and difficulty enums come from the curriculum so the schema cannot
// drift from the fixed topic set.
func bankSchema() map[string]any {
	topics := make([]any, 0)
	for _, t := range curriculum.AllTopics() {
		topics = append(topics, string(t))
	}
	levels := make([]any, 0)
	for _, d := range curriculum.AllDifficulties() {
		levels = append(levels, string(d))
	}
	optionalText := map[string]any{"type": "string"}

	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"quiz_id":        map[string]any{"type": "string", "minLength": 1},
				"topic":          map[string]any{"enum": topics},
				"difficulty":     map[string]any{"enum": levels},
				"question_type":  map[string]any{"enum": []any{string(MultipleChoice), string(ShortAnswer)}},
				"question":       map[string]any{"type": "string", "minLength": 1},
				"correct_answer": map[string]any{"type": "string", "minLength": 1},
				"options": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
				"hint_1":      optionalText,
				"hint_2":      optionalText,
				"hint_3":      optionalText,
				"explanation": optionalText,
			},
			"required": []any{"quiz_id", "topic", "difficulty", "question_type", "question", "correct_answer"},
		},
	}
}

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants plain decoded JSON values, not Go ints and slices.
		raw, err := json.Marshal(bankSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateSchema checks a decoded JSON document against the bank schema.
func validateSchema(doc any) error {
	sch, err := compiled()
	if err != nil {
		return fmt.Errorf("compile question bank schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("question bank does not match schema: %w", err)
	}
	return nil
}
