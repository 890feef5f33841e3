package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableLLMRequestEvents = "llm_request_events"
	tableTurnEvents       = "turn_events"
	tableAnswerEvents     = "answer_events"
	tableSequence         = "journal_sequence"
)

// eventColumns returns the id, sequence and timestamp columns every
// journal table starts with.
func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString, Default: ""},
	}
}

func eventTable(name string, fields ...*schema.Column) *schema.Table {
	cols := append(eventColumns(), fields...)
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
			{Name: name + "_session_id", Columns: []*schema.Column{cols[3]}},
		},
	}
}

var (
	// LLMRequestEventsTable records every LLM API call for cost tracking and debugging.
	LLMRequestEventsTable = eventTable(tableLLMRequestEvents,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)

	// TurnEventsTable records one row per chat turn.
	TurnEventsTable = eventTable(tableTurnEvents,
		&schema.Column{Name: "intent", Type: field.TypeString},
		&schema.Column{Name: "confidence", Type: field.TypeFloat64},
		&schema.Column{Name: "topic", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "quiz_id", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "response_chars", Type: field.TypeInt, Default: 0},
	)

	// AnswerEventsTable records every graded answer.
	AnswerEventsTable = eventTable(tableAnswerEvents,
		&schema.Column{Name: "quiz_id", Type: field.TypeString},
		&schema.Column{Name: "topic", Type: field.TypeString},
		&schema.Column{Name: "difficulty", Type: field.TypeString},
		&schema.Column{Name: "correct", Type: field.TypeBool},
		&schema.Column{Name: "score", Type: field.TypeFloat64},
		&schema.Column{Name: "method", Type: field.TypeString},
		&schema.Column{Name: "hints_used", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "new_difficulty", Type: field.TypeString, Default: ""},
	)

	sequenceID = &schema.Column{Name: "id", Type: field.TypeInt}

	// SequenceTable holds the single counter row behind every sequence
	// column.
	SequenceTable = &schema.Table{
		Name: tableSequence,
		Columns: []*schema.Column{
			sequenceID,
			{Name: "next_val", Type: field.TypeInt64, Default: 1},
		},
		PrimaryKey: []*schema.Column{sequenceID},
	}

	// Tables lists every journal table in creation order.
	Tables = []*schema.Table{
		SequenceTable,
		LLMRequestEventsTable,
		TurnEventsTable,
		AnswerEventsTable,
	}
)

// migrate creates or upgrades the journal tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
