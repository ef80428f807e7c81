// Package store is the SQLite execution layer: connection setup, schema,
// prepared statement caching and transactions.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/taskdesk/taskdesk/internal/metrics"
)

//go:embed schema.sql
var initialSchema string

// DefaultStatementCacheSize is the number of prepared statements kept open.
const DefaultStatementCacheSize = 128

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type options struct {
	logger    *slog.Logger
	cacheSize int
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger statements are traced to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStatementCacheSize sets how many prepared statements are cached. Zero
// disables the cache.
func WithStatementCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// DB wraps a SQLite connection pool.
type DB struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	stmts *lru.Cache[string, *cachedStmt]
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string, opts ...Option) (*DB, error) {
	o := options{logger: slog.Default(), cacheSize: DefaultStatementCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == MemoryPath {
		// Every connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	d := &DB{db: db, path: path, logger: o.logger}
	if o.cacheSize > 0 {
		d.stmts, err = lru.NewWithEvict(o.cacheSize, func(_ string, cs *cachedStmt) {
			cs.evict()
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create statement cache: %w", err)
		}
	}

	if err := d.Migrate(context.Background()); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Migrate applies the schema. It is idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, initialSchema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// Ping checks the connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Query runs a statement returning rows and scans them all.
func (d *DB) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	start := time.Now()
	var out []map[string]any
	err := d.withStmt(ctx, query, func(stmt *sql.Stmt) error {
		var (
			rows *sql.Rows
			err  error
		)
		if stmt != nil {
			rows, err = stmt.QueryContext(ctx, args...)
		} else {
			rows, err = d.db.QueryContext(ctx, query, args...)
		}
		if err != nil {
			return err
		}
		out, err = scanRows(rows)
		return err
	})
	d.observe(ctx, query, args, start, err)
	if err != nil {
		return nil, wrapError(err)
	}
	return out, nil
}

// Exec runs a statement that returns no rows.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	var res sql.Result
	err := d.withStmt(ctx, query, func(stmt *sql.Stmt) error {
		var err error
		if stmt != nil {
			res, err = stmt.ExecContext(ctx, args...)
		} else {
			res, err = d.db.ExecContext(ctx, query, args...)
		}
		return err
	})
	d.observe(ctx, query, args, start, err)
	if err != nil {
		return nil, wrapError(err)
	}
	return res, nil
}

// withStmt runs fn with the cached prepared statement for query, preparing
// it on a miss. fn receives nil when caching is disabled. No lock is held
// while fn runs; a statement evicted meanwhile is closed once fn returns.
func (d *DB) withStmt(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	if d.stmts == nil {
		return fn(nil)
	}
	cs, err := d.acquire(ctx, query)
	if err != nil {
		return err
	}
	defer cs.release()
	return fn(cs.stmt)
}

func (d *DB) acquire(ctx context.Context, query string) (*cachedStmt, error) {
	d.mu.RLock()
	if cs, ok := d.stmts.Get(query); ok {
		cs.retain()
		d.mu.RUnlock()
		metrics.StatementCacheHits.WithLabelValues("hit").Inc()
		return cs, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	// Double-check after acquiring write lock
	if cs, ok := d.stmts.Get(query); ok {
		cs.retain()
		metrics.StatementCacheHits.WithLabelValues("hit").Inc()
		return cs, nil
	}
	metrics.StatementCacheHits.WithLabelValues("miss").Inc()
	stmt, err := d.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	cs := &cachedStmt{stmt: stmt}
	cs.retain()
	d.stmts.Add(query, cs)
	return cs, nil
}

// cachedStmt counts the callers using a prepared statement so eviction can
// defer closing it until the last one is done.
type cachedStmt struct {
	stmt *sql.Stmt

	mu      sync.Mutex
	users   int
	evicted bool
}

func (c *cachedStmt) retain() {
	c.mu.Lock()
	c.users++
	c.mu.Unlock()
}

func (c *cachedStmt) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users--
	if c.users == 0 && c.evicted {
		c.stmt.Close()
	}
}

func (c *cachedStmt) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evicted = true
	if c.users == 0 {
		c.stmt.Close()
	}
}

func (d *DB) observe(ctx context.Context, query string, args []any, start time.Time, err error) {
	metrics.ObserveStatement(query, start, err)
	if err != nil {
		d.logger.WarnContext(ctx, "statement failed", "sql", query, "args", len(args), "error", err)
		return
	}
	d.logger.DebugContext(ctx, "statement executed", "sql", query, "args", len(args), "duration", time.Since(start))
}

// Begin starts a transaction.
func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, db: d}, nil
}

// WithTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
func (d *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// Close closes cached statements and the connection pool.
func (d *DB) Close() error {
	d.mu.Lock()
	if d.stmts != nil {
		d.stmts.Purge()
	}
	d.mu.Unlock()
	return d.db.Close()
}
