// Package tutor runs one tutoring conversation: it classifies each
// utterance, dispatches it to an intent handler and keeps the learner
// profile current.
package tutor

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studybuddy/internal/adaptive"
	"github.com/abhisek/studybuddy/internal/grading"
	"github.com/abhisek/studybuddy/internal/intent"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/messages"
	"github.com/abhisek/studybuddy/internal/questionbank"
	"github.com/abhisek/studybuddy/internal/retrieval"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/student"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role    Role
	Content string
}

// Journal receives the session's turn and answer events. store.EventRepo
// satisfies it.
type Journal interface {
	AppendTurn(ctx context.Context, data store.TurnEventData) error
	AppendAnswer(ctx context.Context, data store.AnswerEventData) error
}

// Options configures a Session. Only Bank is required.
type Options struct {
	Bank *questionbank.Bank

	// Retriever grounds explanations and answer judgments. Nil disables
	// both; explanations then report that no reference material exists.
	Retriever retrieval.Retriever

	// Generator backs semantic answer judgment and explanation summaries.
	Generator grading.Generator

	// Rand drives question selection. Nil uses the global source.
	Rand *rand.Rand

	Catalog    *messages.Catalog
	Classifier *intent.Classifier
	Adaptive   adaptive.Config

	// Journal records events when set. Failures are logged, never surfaced.
	Journal Journal

	// SessionID tags journal and LLM events. Generated when empty.
	SessionID string
}

// Session is a single learner conversation. It is not safe for concurrent
// use; each conversation gets its own Session.
type Session struct {
	id         string
	bank       *questionbank.Bank
	retriever  retrieval.Retriever
	gen        grading.Generator
	evaluator  *grading.Evaluator
	rng        *rand.Rand
	catalog    *messages.Catalog
	classifier *intent.Classifier
	student    *student.Model
	controller *adaptive.Controller
	journal    Journal
	asked      []string
}

// NewSession creates a session with a fresh learner profile.
func NewSession(opts Options) (*Session, error) {
	if opts.Bank == nil {
		return nil, errors.New("tutor: question bank is required")
	}

	s := &Session{
		id:         opts.SessionID,
		bank:       opts.Bank,
		retriever:  opts.Retriever,
		gen:        opts.Generator,
		evaluator:  grading.NewEvaluator(opts.Generator),
		rng:        opts.Rand,
		catalog:    opts.Catalog,
		classifier: opts.Classifier,
		student:    student.New(),
		journal:    opts.Journal,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.catalog == nil {
		s.catalog = messages.English()
	}
	if s.classifier == nil {
		s.classifier = intent.NewClassifier()
	}
	cfg := opts.Adaptive
	if cfg == (adaptive.Config{}) {
		cfg = adaptive.DefaultConfig()
	}
	s.controller = adaptive.NewController(s.student, cfg)

	slog.Debug("tutor session started", "session", s.id, "questions", s.bank.Len())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Student returns the learner profile.
func (s *Session) Student() *student.Model { return s.student }

// Controller returns the adaptive controller over the learner profile.
func (s *Session) Controller() *adaptive.Controller { return s.controller }

// Asked returns the ids of questions served so far, in order.
func (s *Session) Asked() []string { return slices.Clone(s.asked) }

// Greeting returns a history seeded with the welcome message.
func (s *Session) Greeting() []Turn {
	return []Turn{{Role: RoleAssistant, Content: s.catalog.T(messages.Welcome)}}
}

// Chat handles one utterance and returns the extended history. The second
// return value clears the caller's input box. Blank utterances leave the
// history untouched.
func (s *Session) Chat(ctx context.Context, utterance string, history []Turn) ([]Turn, string) {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return history, ""
	}

	start := time.Now()
	ctx = llm.WithSession(ctx, s.id)

	res := s.classifier.Classify(text, s.student.QuizPending())
	var quizID string
	if q := s.student.CurrentQuiz(); q != nil {
		quizID = q.ID
	}

	reply := s.dispatch(ctx, text, res)

	if s.journal != nil {
		if q := s.student.CurrentQuiz(); q != nil {
			quizID = q.ID
		}
		err := s.journal.AppendTurn(ctx, store.TurnEventData{
			SessionID:     s.id,
			Intent:        string(res.Intent),
			Confidence:    res.Confidence,
			Topic:         string(res.Topic),
			QuizID:        quizID,
			LatencyMs:     time.Since(start).Milliseconds(),
			ResponseChars: len(reply),
		})
		if err != nil {
			slog.Warn("failed to journal turn", "session", s.id, "error", err)
		}
	}

	out := make([]Turn, 0, len(history)+2)
	out = append(out, history...)
	out = append(out,
		Turn{Role: RoleUser, Content: utterance},
		Turn{Role: RoleAssistant, Content: reply},
	)
	return out, ""
}

// Respond handles one utterance without tracking history and returns only
// the reply. Blank utterances yield "".
func (s *Session) Respond(ctx context.Context, utterance string) string {
	out, _ := s.Chat(ctx, utterance, nil)
	if len(out) == 0 {
		return ""
	}
	return out[len(out)-1].Content
}

func (s *Session) dispatch(ctx context.Context, text string, res intent.Result) string {
	switch res.Intent {
	case intent.Greeting:
		return s.catalog.T(messages.Welcome)
	case intent.Quiz:
		return s.handleQuiz(res)
	case intent.Answer:
		return s.handleAnswer(ctx, text)
	case intent.Hint:
		return s.handleHint()
	case intent.Explain:
		return s.handleExplain(ctx, text, res)
	case intent.Progress:
		return s.handleProgress()
	case intent.Farewell:
		return s.handleFarewell()
	default:
		return s.catalog.T(messages.OffTopic)
	}
}
