package store

import (
	"context"
	"database/sql"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	SessionID string    // exact session match when set
}

// apply narrows sel to the rows matching the options.
func (o QueryOpts) apply(sel *entsql.Selector, t *entsql.SelectTable) {
	if o.After > 0 {
		sel.Where(entsql.GT(t.C("sequence"), o.After))
	}
	if o.Before > 0 {
		sel.Where(entsql.LT(t.C("sequence"), o.Before))
	}
	if !o.From.IsZero() {
		sel.Where(entsql.GTE(t.C("timestamp"), o.From.UTC()))
	}
	if !o.To.IsZero() {
		sel.Where(entsql.LTE(t.C("timestamp"), o.To.UTC()))
	}
	if o.SessionID != "" {
		sel.Where(entsql.EQ(t.C("session_id"), o.SessionID))
	}
	if o.Limit > 0 {
		sel.Limit(o.Limit)
	}
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	SessionID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageByPurpose aggregates LLM calls per purpose label.
type LLMUsageByPurpose struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// LLMUsageByModel aggregates LLM calls per model.
type LLMUsageByModel struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// TurnEventData captures a single chat turn.
type TurnEventData struct {
	SessionID     string
	Intent        string
	Confidence    float64
	Topic         string
	QuizID        string
	LatencyMs     int64
	ResponseChars int
}

// TurnEventRecord is a stored turn event.
type TurnEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	TurnEventData
}

// AnswerEventData captures a graded answer.
type AnswerEventData struct {
	SessionID     string
	QuizID        string
	Topic         string
	Difficulty    string
	Correct       bool
	Score         float64
	Method        string
	HintsUsed     int
	NewDifficulty string
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// SessionSummary aggregates the journal for one chat session.
type SessionSummary struct {
	SessionID string
	Turns     int
	Answers   int
	Correct   int
}

// Accuracy returns Correct/Answers, or 0 when nothing was answered.
func (s SessionSummary) Accuracy() float64 {
	if s.Answers == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answers)
}

// EventRepo provides append and query access to the session journal.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendTurn records a chat turn.
	AppendTurn(ctx context.Context, data TurnEventData) error

	// AppendAnswer records a graded answer.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates LLM usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageByPurpose, error)

	// LLMUsageByModel aggregates LLM usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsageByModel, error)

	// QueryTurns returns turn events, newest first.
	QueryTurns(ctx context.Context, opts QueryOpts) ([]TurnEventRecord, error)

	// QueryAnswers returns answer events, newest first.
	QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error)

	// SessionSummaries aggregates turns and answers per session, most recent first.
	SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error)
}

// eventRepo implements EventRepo with ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
