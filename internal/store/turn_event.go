package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var turnEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "intent", "confidence",
	"topic", "quiz_id", "latency_ms", "response_chars",
}

func (r *eventRepo) AppendTurn(ctx context.Context, data TurnEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableTurnEvents).
		Columns(turnEventColumns[1:]...).
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Intent, data.Confidence,
			data.Topic, data.QuizID, data.LatencyMs, data.ResponseChars).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save turn event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryTurns(ctx context.Context, opts QueryOpts) ([]TurnEventRecord, error) {
	t := entsql.Table(tableTurnEvents)
	sel := builder().Select(columnsOf(t, turnEventColumns)...).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence")))
	opts.apply(sel, t)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turn events: %w", err)
	}
	defer rows.Close()

	var out []TurnEventRecord
	for rows.Next() {
		var rec TurnEventRecord
		err := rows.Scan(&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID,
			&rec.Intent, &rec.Confidence, &rec.Topic, &rec.QuizID, &rec.LatencyMs, &rec.ResponseChars)
		if err != nil {
			return nil, fmt.Errorf("scan turn event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
