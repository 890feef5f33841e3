package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var answerEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "quiz_id", "topic", "difficulty",
	"correct", "score", "method", "hints_used", "new_difficulty",
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableAnswerEvents).
		Columns(answerEventColumns[1:]...).
		Values(seqNum, time.Now().UTC(), data.SessionID, data.QuizID, data.Topic,
			data.Difficulty, data.Correct, data.Score, data.Method, data.HintsUsed,
			data.NewDifficulty).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error) {
	t := entsql.Table(tableAnswerEvents)
	sel := builder().Select(columnsOf(t, answerEventColumns)...).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence")))
	opts.apply(sel, t)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventRecord
	for rows.Next() {
		var rec AnswerEventRecord
		err := rows.Scan(&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID,
			&rec.QuizID, &rec.Topic, &rec.Difficulty, &rec.Correct, &rec.Score,
			&rec.Method, &rec.HintsUsed, &rec.NewDifficulty)
		if err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
