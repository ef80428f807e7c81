package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Tx is a transaction. It runs statements like DB but bypasses the
// statement cache.
type Tx struct {
	tx *sql.Tx
	db *DB
}

// Query runs a statement returning rows inside the transaction.
func (t *Tx) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	var out []map[string]any
	if err == nil {
		out, err = scanRows(rows)
	}
	t.db.observe(ctx, query, args, start, err)
	if err != nil {
		return nil, wrapError(err)
	}
	return out, nil
}

// Exec runs a statement that returns no rows inside the transaction.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.db.observe(ctx, query, args, start, err)
	if err != nil {
		return nil, wrapError(err)
	}
	return res, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}
