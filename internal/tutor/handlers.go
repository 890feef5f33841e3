package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/grading"
	"github.com/abhisek/studybuddy/internal/intent"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/messages"
	"github.com/abhisek/studybuddy/internal/questionbank"
	"github.com/abhisek/studybuddy/internal/retrieval"
	"github.com/abhisek/studybuddy/internal/store"
)

// Retrieval sizes.
const (
	explainTutorials = 3
	explainExercises = 2
	explainBodyParts = 3
	gradingContextK  = 3

	summaryPrompt    = "Summarize in one sentence: "
	summarySourceMax = 300
	summaryMaxTokens = 48
)

func (s *Session) handleQuiz(res intent.Result) string {
	topic := res.Topic
	if !res.HasTopic {
		topic = s.controller.RecommendedTopic()
	}
	// AdjustDifficulty already wrote the level after the last answer.
	difficulty := s.student.Difficulty(topic)

	q := s.bank.Pick(s.rng, topic, difficulty, s.asked)
	if q == nil {
		slog.Info("question bank exhausted", "session", s.id, "asked", len(s.asked))
		return s.catalog.T(messages.QuestionsExhausted)
	}

	s.student.SetCurrentQuiz(q)
	s.asked = append(s.asked, q.ID)
	slog.Debug("question served", "session", s.id, "quiz", q.ID, "topic", q.Topic, "difficulty", q.Difficulty)

	text := FormatQuestion(s.catalog, q)
	if s.controller.ShouldOfferHint() {
		text += "\n\n" + s.catalog.T(messages.OfferHint)
	}
	return text
}

func (s *Session) handleAnswer(ctx context.Context, text string) string {
	q := s.student.CurrentQuiz()
	if q == nil {
		return s.catalog.T(messages.NoPendingQuestion)
	}

	result := s.grade(ctx, q, text)
	hints := s.student.HintCount()

	s.student.RecordAnswer(q.Topic, result.Correct, q.Difficulty, hints)
	s.student.ClearCurrentQuiz()
	tr := s.controller.AdjustDifficulty(q.Topic)

	if s.journal != nil {
		err := s.journal.AppendAnswer(ctx, store.AnswerEventData{
			SessionID:     s.id,
			QuizID:        q.ID,
			Topic:         string(q.Topic),
			Difficulty:    string(q.Difficulty),
			Correct:       result.Correct,
			Score:         result.Score,
			Method:        string(result.Method),
			HintsUsed:     hints,
			NewDifficulty: string(s.student.Difficulty(q.Topic)),
		})
		if err != nil {
			slog.Warn("failed to journal answer", "session", s.id, "quiz", q.ID, "error", err)
		}
	}

	var parts []string
	if result.Correct {
		parts = append(parts, s.catalog.Td(messages.AnswerCorrect, map[string]any{
			"Explanation": q.Explanation,
		}))
	} else {
		parts = append(parts, s.catalog.Td(messages.AnswerIncorrect, map[string]any{
			"Answer":      displayAnswer(q),
			"Explanation": q.Explanation,
		}))
	}
	if tr != nil {
		parts = append(parts, s.catalog.Td(messages.DifficultyAdjusted, map[string]any{
			"Level": tr.To.String(),
		}))
	}
	parts = append(parts, s.catalog.T(messages.NextStep))
	return strings.Join(parts, "\n\n")
}

// grade checks a reply against q. A multiple-choice reply that is exactly
// one of the option letters is compared directly; anything else goes
// through the tiered evaluator against the correct option's text.
func (s *Session) grade(ctx context.Context, q *questionbank.Question, reply string) grading.Result {
	expected := q.CorrectAnswer
	if q.IsMultipleChoice() {
		letter := strings.ToUpper(strings.TrimSpace(reply))
		if q.Options.Has(letter) {
			return grading.Letter(letter, q.CorrectAnswer, q.Explanation)
		}
		if text, ok := q.Options.Text(q.CorrectAnswer); ok {
			expected = text
		}
	}
	return s.evaluator.Evaluate(ctx, q.Text, expected, reply, s.gradingContext(ctx, q))
}

func (s *Session) gradingContext(ctx context.Context, q *questionbank.Question) string {
	if s.retriever == nil {
		return ""
	}
	res, err := s.retriever.Query(ctx, q.Text, retrieval.TutorialChunks, gradingContextK, &retrieval.Filter{Topic: q.Topic})
	if err != nil {
		slog.Warn("grading context lookup failed", "quiz", q.ID, "error", err)
		return ""
	}
	return strings.Join(retrieval.Contents(res), "\n\n")
}

func displayAnswer(q *questionbank.Question) string {
	if q.IsMultipleChoice() {
		if text, ok := q.Options.Text(q.CorrectAnswer); ok {
			return fmt.Sprintf("%s. %s", strings.ToUpper(q.CorrectAnswer), text)
		}
	}
	return q.CorrectAnswer
}

func (s *Session) handleHint() string {
	q := s.student.CurrentQuiz()
	if q == nil {
		return s.catalog.T(messages.NoActiveQuestion)
	}

	level := s.controller.HintLevel()
	s.student.UseHint()

	return s.catalog.Td(messages.Hint, map[string]any{
		"Level": level,
		"Max":   s.controller.Config().MaxHintLevel,
		"Text":  grading.HintFor(q, level),
	})
}

func (s *Session) handleExplain(ctx context.Context, text string, res intent.Result) string {
	if s.retriever == nil {
		return s.catalog.T(messages.NoReference)
	}

	filter := &retrieval.Filter{Topic: res.Topic}
	var chunks []string
	for _, src := range []struct {
		c retrieval.Collection
		k int
	}{
		{retrieval.TutorialChunks, explainTutorials},
		{retrieval.Exercises, explainExercises},
	} {
		found, err := s.retriever.Query(ctx, text, src.c, src.k, filter)
		if err != nil {
			slog.Warn("explanation lookup failed", "collection", src.c, "topic", res.Topic, "error", err)
			continue
		}
		chunks = append(chunks, retrieval.Contents(found)...)
	}

	if len(chunks) == 0 {
		return s.catalog.T(messages.NoReference)
	}
	return s.composeExplanation(ctx, res.Topic, chunks)
}

// composeExplanation renders a topic header, an optional one-sentence
// summary of the first chunk and the leading chunks.
func (s *Session) composeExplanation(ctx context.Context, topic curriculum.Topic, chunks []string) string {
	header := s.catalog.Td(messages.TopicHeader, map[string]any{"Topic": topic.Label()})
	body := strings.Join(chunks[:min(explainBodyParts, len(chunks))], "\n\n")

	if s.gen != nil {
		source := []rune(chunks[0])
		source = source[:min(summarySourceMax, len(source))]
		summary, err := s.gen.Complete(llm.WithPurpose(ctx, llm.PurposeSummary), summaryPrompt+string(source), summaryMaxTokens)
		if grading.Usable(summary, err) {
			inShort := s.catalog.Td(messages.InShort, map[string]any{"Summary": strings.TrimSpace(summary)})
			return header + "\n\n" + inShort + "\n\n" + body
		}
		if err != nil {
			slog.Debug("summary unavailable", "topic", topic, "error", err)
		}
	}
	return header + "\n\n" + body
}

func (s *Session) handleProgress() string {
	return s.catalog.T(messages.ProgressHeader) + "\n\n" + s.student.ProgressSummary()
}

func (s *Session) handleFarewell() string {
	return s.catalog.Td(messages.Farewell, map[string]any{
		"Progress": s.student.ProgressSummary(),
		"Feedback": s.controller.SessionFeedback(),
	})
}

// FormatQuestion renders a question with its level header and, for
// multiple choice, the lettered options.
func FormatQuestion(c *messages.Catalog, q *questionbank.Question) string {
	header := c.Td(messages.QuestionHeader, map[string]any{
		"Difficulty": q.Difficulty.Label(),
		"Topic":      q.Topic.Label(),
	})
	out := header + "\n\n" + q.Text
	if !q.IsMultipleChoice() {
		return out
	}
	lines := make([]string, len(q.Options))
	for i, opt := range q.Options {
		lines[i] = fmt.Sprintf("  **%s.** %s", opt.Letter, opt.Text)
	}
	return out + "\n\n" + strings.Join(lines, "\n")
}
