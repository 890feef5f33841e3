package questionbank

import (
	"fmt"
	"strings"
)

// ValidationError lists every integrity problem found in a question set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question bank validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// validateQuestions performs the semantic checks the schema cannot express.
// It collects all problems rather than stopping at the first.
func validateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	var errs []string
	seen := make(map[string]bool, len(questions))

	for i, q := range questions {
		ref := fmt.Sprintf("question %d (%q)", i, q.ID)

		if strings.TrimSpace(q.ID) == "" {
			errs = append(errs, fmt.Sprintf("question %d: missing quiz_id", i))
		} else if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate quiz_id: %q", q.ID))
		}
		seen[q.ID] = true

		if !q.Topic.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown topic %q", ref, q.Topic))
		}
		if !q.Difficulty.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown difficulty %q", ref, q.Difficulty))
		}
		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Sprintf("%s: empty question text", ref))
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			errs = append(errs, fmt.Sprintf("%s: empty correct_answer", ref))
		}

		switch q.Type {
		case MultipleChoice:
			if len(q.Options) < 2 {
				errs = append(errs, fmt.Sprintf("%s: multiple_choice needs at least 2 options, got %d", ref, len(q.Options)))
			} else if !q.Options.Has(strings.TrimSpace(q.CorrectAnswer)) {
				errs = append(errs, fmt.Sprintf("%s: correct_answer %q is not one of the option letters %v",
					ref, q.CorrectAnswer, q.Options.Letters()))
			}
			letters := make(map[string]bool, len(q.Options))
			for _, opt := range q.Options {
				key := strings.ToUpper(strings.TrimSpace(opt.Letter))
				if key == "" {
					errs = append(errs, fmt.Sprintf("%s: empty option letter", ref))
				} else if letters[key] {
					errs = append(errs, fmt.Sprintf("%s: duplicate option letter %q", ref, opt.Letter))
				}
				letters[key] = true
			}
		case ShortAnswer:
			if len(q.Options) > 0 {
				errs = append(errs, fmt.Sprintf("%s: short_answer must not carry options", ref))
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown question_type %q", ref, q.Type))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}
