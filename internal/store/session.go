package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error) {
	t := entsql.Table(tableTurnEvents)
	sel := builder().Select(
		t.C("session_id"),
		entsql.As(entsql.Count("*"), "turns"),
	).
		From(t).
		Where(entsql.NEQ(t.C("session_id"), "")).
		GroupBy(t.C("session_id")).
		OrderBy(entsql.Desc(entsql.Max(t.C("sequence"))))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.Turns); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	answers, err := r.answerTotals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		tot := answers[out[i].SessionID]
		out[i].Answers = tot[0]
		out[i].Correct = tot[1]
	}
	return out, nil
}

// answerTotals maps session ID to [answers, correct].
func (r *eventRepo) answerTotals(ctx context.Context) (map[string][2]int, error) {
	t := entsql.Table(tableAnswerEvents)
	query, args := builder().Select(
		t.C("session_id"),
		entsql.As(entsql.Count("*"), "answers"),
		entsql.As(entsql.Sum(t.C("correct")), "correct"),
	).
		From(t).
		GroupBy(t.C("session_id")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string][2]int)
	for rows.Next() {
		var (
			id               string
			answers, correct int
		)
		if err := rows.Scan(&id, &answers, &correct); err != nil {
			return nil, fmt.Errorf("scan answer totals: %w", err)
		}
		totals[id] = [2]int{answers, correct}
	}
	return totals, rows.Err()
}
