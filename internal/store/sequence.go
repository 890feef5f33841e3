package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

const sequenceRow = 1

// sequenceCounter numbers journal rows across all tables, so turns,
// answers and model calls interleave in the order they happened. The
// counter lives in the database and survives restarts.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	query, args := builder().Insert(tableSequence).
		Columns("id", "next_val").
		Values(sequenceRow, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next claims the next number. The increment runs first so the write lock
// is held before the read, even across processes.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	upd, args := builder().Update(tableSequence).
		Add("next_val", 1).
		Where(entsql.EQ("id", sequenceRow)).
		Query()
	if _, err := tx.ExecContext(ctx, upd, args...); err != nil {
		return 0, err
	}

	sel, args := builder().Select("next_val").
		From(entsql.Table(tableSequence)).
		Where(entsql.EQ("id", sequenceRow)).
		Query()
	var next int64
	if err := tx.QueryRowContext(ctx, sel, args...).Scan(&next); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return next - 1, nil
}
