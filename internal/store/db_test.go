package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, opts ...Option) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "taskdesk.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesSchema(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rows, err := db.Query(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)

	var names []string
	for _, r := range rows {
		names = append(names, r["name"].(string))
	}
	assert.Equal(t, []string{"replies", "tags", "task_tags", "tasks", "users"}, names)

	// Applying the schema again is harmless.
	require.NoError(t, db.Migrate(ctx))
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.Exec(ctx, "INSERT INTO tags (name) VALUES (?)", "bug")
	require.NoError(t, err)

	rows, err := db.Query(ctx, "SELECT COUNT(*) AS n FROM tags")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows[0]["n"])
}

func TestQuery_ScansTextAsString(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	res, err := db.Exec(ctx, "INSERT INTO tags (name) VALUES (?)", "docs")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	rows, err := db.Query(ctx, "SELECT id, name FROM tags WHERE id = ?", id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0]["id"])
	assert.Equal(t, "docs", rows[0]["name"])
}

func TestQuery_EmptyResult(t *testing.T) {
	db := openTestDB(t)
	rows, err := db.Query(context.Background(), "SELECT id FROM tags")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestStatementCache(t *testing.T) {
	db := openTestDB(t, WithStatementCacheSize(1))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := db.Query(ctx, "SELECT id FROM tags WHERE id = ?", i)
		require.NoError(t, err)
		_, err = db.Query(ctx, "SELECT name FROM tags WHERE id = ?", i)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, db.stmts.Len())
}

func TestStatementCache_Disabled(t *testing.T) {
	db := openTestDB(t, WithStatementCacheSize(0))
	assert.Nil(t, db.stmts)

	_, err := db.Exec(context.Background(), "INSERT INTO tags (name) VALUES (?)", "ops")
	require.NoError(t, err)
}

func TestStatementCache_ConcurrentStatements(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	slow := make(chan error, 1)
	go func() {
		slow <- db.withStmt(ctx, "SELECT 1 AS n", func(*sql.Stmt) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	fast := make(chan error, 1)
	go func() {
		// First run prepares, second hits the cache.
		for i := 0; i < 2; i++ {
			if _, err := db.Query(ctx, "SELECT 2 AS n"); err != nil {
				fast <- err
				return
			}
		}
		fast <- nil
	}()

	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		close(release)
		t.Fatal("statement waited for an unrelated running statement")
	}
	close(release)
	require.NoError(t, <-slow)
}

func TestStatementCache_EvictedWhileInUse(t *testing.T) {
	db := openTestDB(t, WithStatementCacheSize(1))
	ctx := context.Background()

	err := db.withStmt(ctx, "SELECT 1 AS n", func(stmt *sql.Stmt) error {
		// Caching another statement evicts this one.
		if _, err := db.Query(ctx, "SELECT 2 AS n"); err != nil {
			return err
		}
		var n int
		return stmt.QueryRowContext(ctx).Scan(&n)
	})
	require.NoError(t, err)

	rows, err := db.Query(ctx, "SELECT 1 AS n")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows[0]["n"])
}

func TestConstraintErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO tags (name) VALUES (?)", "dup")
	require.NoError(t, err)

	_, err = db.Exec(ctx, "INSERT INTO tags (name) VALUES (?)", "dup")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = db.Exec(ctx, "INSERT INTO task_tags (task_id, tag_id) VALUES (?, ?)", 999, 999)
	assert.ErrorIs(t, err, ErrForeignKey)

	_, err = db.Exec(ctx,
		"INSERT INTO tasks (title, status, created_at, updated_at) VALUES (?, ?, ?, ?)",
		"x", "WHATEVER", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z")
	assert.ErrorIs(t, err, ErrCheck)
}

func TestWithTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.Exec(ctx, "INSERT INTO tags (name) VALUES (?)", "kept")
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.Exec(ctx, "INSERT INTO tags (name) VALUES (?)", "dropped"); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, "SELECT name FROM tags WHERE name = ?", "dropped")
		if err != nil {
			return err
		}
		assert.Len(t, rows, 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := db.Query(ctx, "SELECT name FROM tags ORDER BY name")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kept", rows[0]["name"])
}
