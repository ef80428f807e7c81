// Package repository implements generic CRUD over the schema registry. All
// statements are assembled with the dql builder and run through an Executor.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/taskdesk/taskdesk/internal/dql"
	"github.com/taskdesk/taskdesk/internal/schema"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("record not found")

	// ErrNoFillableFields is returned when create or update data contains no
	// fillable column.
	ErrNoFillableFields = errors.New("no fillable fields")

	// ErrNoEffect is returned when a statement touched no row.
	ErrNoEffect = errors.New("statement affected no rows")

	// ErrUnknownColumn is returned when a filter names a column the model
	// does not have.
	ErrUnknownColumn = errors.New("unknown column")
)

// Row is one result row keyed by column name.
type Row = map[string]any

// Record is a demultiplexed row: main columns at the top level, eager-loaded
// relations nested under their table name.
type Record = map[string]any

// Executor runs SQL. It is satisfied by the store's DB and Tx.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Entity is the pointer type of a model struct filled from a Record.
type Entity[T any] interface {
	*T
	Assign(rec Record) error
}

// Condition adds predicates to a query in the WHERE stage.
type Condition func(q *dql.Query) *dql.Query

// Repository provides CRUD for one model.
type Repository[T any, PT Entity[T]] struct {
	registry  *schema.Registry
	model     *schema.Model
	exec      Executor
	relations []dql.Relation
}

// New creates a repository for the named model.
func New[T any, PT Entity[T]](reg *schema.Registry, modelName string, exec Executor) (*Repository[T, PT], error) {
	m, err := reg.Model(modelName)
	if err != nil {
		return nil, err
	}
	return &Repository[T, PT]{registry: reg, model: m, exec: exec}, nil
}

// Model returns the model metadata.
func (r *Repository[T, PT]) Model() *schema.Model { return r.model }

// Executor returns the executor statements run on.
func (r *Repository[T, PT]) Executor() Executor { return r.exec }

// WithExecutor returns a copy running on exec, typically a transaction.
func (r *Repository[T, PT]) WithExecutor(exec Executor) *Repository[T, PT] {
	c := *r
	c.exec = exec
	return &c
}

// With returns a copy that eager-loads the given relations. The receiver is
// not modified.
func (r *Repository[T, PT]) With(rels ...dql.Relation) *Repository[T, PT] {
	c := *r
	c.relations = append(slices.Clone(r.relations), rels...)
	return &c
}

// Select starts a SELECT of the model with every eager-loaded relation
// joined. Main columns are projected as table_col and single-row relations
// as reltable_col. The query is left in the table definition stage.
func (r *Repository[T, PT]) Select() *dql.Query {
	q := dql.Select(r.model.Table)
	for _, col := range r.model.Visible() {
		q.SetField(col, r.model.Table+"_"+col)
	}
	q.From()
	for _, rel := range r.relations {
		q.Join(rel, dql.LeftJoinType)
	}
	for _, rel := range r.relations {
		if rel.Type() != dql.ManyToOneType {
			continue
		}
		cols, err := r.columnsOf(rel.Table())
		if err != nil {
			return q.Fail(err)
		}
		for _, col := range cols {
			q.SetSelectedField(rel.Table(), col, rel.Table()+"_"+col)
		}
	}
	return q
}

// Group closes the WHERE stage. Collection relations force a GROUP BY on the
// primary key and are aggregated into JSON arrays; without them no GROUP BY
// is emitted. Either way ordering is legal afterwards.
func (r *Repository[T, PT]) Group(q *dql.Query) *dql.Query {
	var collections []dql.Relation
	for _, rel := range r.relations {
		if rel.Type() != dql.ManyToOneType {
			collections = append(collections, rel)
		}
	}
	if len(collections) == 0 {
		return q.WithoutGrouping()
	}

	q.Group("", r.model.PrimaryKey)
	for _, rel := range collections {
		cols, err := r.columnsOf(rel.Table())
		if err != nil {
			return q.Fail(err)
		}
		q.SetSelectedObject(rel.Table(), cols, rel.Table())
	}
	return q
}

func (r *Repository[T, PT]) columnsOf(table string) ([]string, error) {
	m, err := r.registry.ByTable(table)
	if err != nil {
		return nil, err
	}
	return m.Visible(), nil
}

// Scan runs a SELECT and assigns every demultiplexed row to a new entity.
func (r *Repository[T, PT]) Scan(ctx context.Context, q *dql.Query) ([]T, error) {
	query, args, err := q.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", r.model.Table, err)
	}
	rows, err := r.exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	layout := LayoutOf(r.model.Table, q.Relations())
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := layout.Demux(row)
		if err != nil {
			return nil, err
		}
		var v T
		if err := PT(&v).Assign(rec); err != nil {
			return nil, fmt.Errorf("assign %s: %w", r.model.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ScanOne is Scan returning the first entity or ErrNotFound.
func (r *Repository[T, PT]) ScanOne(ctx context.Context, q *dql.Query) (PT, error) {
	items, err := r.Scan(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return PT(&items[0]), nil
}

// FindAll returns every row ordered by primary key.
func (r *Repository[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	q := r.Group(r.Select().WithoutConditions()).Order(r.model.PrimaryKey, "ASC")
	return r.Scan(ctx, q)
}

// Find returns the row with the given primary key. Without eager-loaded
// relations it is a plain lookup by key.
func (r *Repository[T, PT]) Find(ctx context.Context, id any) (PT, error) {
	if len(r.relations) > 0 {
		return r.ScanOne(ctx, r.Group(r.Select().Equals(r.model.PrimaryKey, id)))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1;",
		strings.Join(r.model.Visible(), ", "), r.model.Table, r.model.PrimaryKey)
	rows, err := r.exec.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	var v T
	if err := PT(&v).Assign(rows[0]); err != nil {
		return nil, fmt.Errorf("assign %s: %w", r.model.Name, err)
	}
	return &v, nil
}

// Create inserts the fillable subset of data and returns the new id.
func (r *Repository[T, PT]) Create(ctx context.Context, data map[string]any) (int64, error) {
	fields := r.model.Filter(data)
	if len(fields) == 0 {
		return 0, ErrNoFillableFields
	}
	q := dql.Insert(r.model.Table)
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		q.SetField(col, fields[col])
	}
	res, err := r.execQuery(ctx, q.From())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Update writes the fillable subset of data to the row with the given key.
// It returns ErrNotFound when no such row exists.
func (r *Repository[T, PT]) Update(ctx context.Context, id any, data map[string]any) error {
	if err := r.mustExist(ctx, id); err != nil {
		return err
	}
	fields := r.model.Filter(data)
	if len(fields) == 0 {
		return ErrNoFillableFields
	}
	q := dql.Update(r.model.Table)
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		q.SetField(col, fields[col])
	}
	return r.execAffecting(ctx, q.From().Equals(r.model.PrimaryKey, id))
}

// Delete removes the row with the given key. It returns ErrNotFound when no
// such row exists.
func (r *Repository[T, PT]) Delete(ctx context.Context, id any) error {
	if err := r.mustExist(ctx, id); err != nil {
		return err
	}
	return r.execAffecting(ctx, dql.Delete(r.model.Table).Equals(r.model.PrimaryKey, id))
}

func (r *Repository[T, PT]) mustExist(ctx context.Context, id any) error {
	n, err := r.CountBy(ctx, func(q *dql.Query) *dql.Query {
		return q.Equals(r.model.PrimaryKey, id)
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Where returns rows whose field equals value, ordered by primary key.
func (r *Repository[T, PT]) Where(ctx context.Context, field string, value any) ([]T, error) {
	if !r.model.HasColumn(field) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.model.Table, field)
	}
	q := r.Group(r.Select().Equals(field, value)).Order(r.model.PrimaryKey, "ASC")
	return r.Scan(ctx, q)
}

// FirstWhere returns the first row whose field equals value.
func (r *Repository[T, PT]) FirstWhere(ctx context.Context, field string, value any) (PT, error) {
	if !r.model.HasColumn(field) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.model.Table, field)
	}
	q := r.Group(r.Select().Equals(field, value)).Order(r.model.PrimaryKey, "ASC").Limit(1)
	return r.ScanOne(ctx, q)
}

// Count returns the number of rows matching every filter by equality.
func (r *Repository[T, PT]) Count(ctx context.Context, filters map[string]any) (int, error) {
	for col := range filters {
		if !r.model.HasColumn(col) {
			return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.model.Table, col)
		}
	}
	return r.CountBy(ctx, func(q *dql.Query) *dql.Query {
		for _, col := range slices.Sorted(maps.Keys(filters)) {
			q.Equals(col, filters[col])
		}
		return q
	})
}

// CountBy returns the number of rows matching cond. A nil cond counts all
// rows.
func (r *Repository[T, PT]) CountBy(ctx context.Context, cond Condition) (int, error) {
	q := dql.Select(r.model.Table).Aggregate(dql.Count, "*", "count").From()
	if cond != nil {
		q = cond(q)
	}
	query, args, err := q.Build()
	if err != nil {
		return 0, fmt.Errorf("build %s count: %w", r.model.Table, err)
	}
	rows, err := r.exec.Query(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := ToInt64(rows[0]["count"])
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.model.Table, err)
	}
	return int(n), nil
}

func (r *Repository[T, PT]) execQuery(ctx context.Context, q *dql.Query) (sql.Result, error) {
	query, args, err := q.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s statement: %w", r.model.Table, err)
	}
	return r.exec.Exec(ctx, query, args...)
}

func (r *Repository[T, PT]) execAffecting(ctx context.Context, q *dql.Query) error {
	res, err := r.execQuery(ctx, q)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		// Removed concurrently after the existence check.
		return ErrNotFound
	}
	return nil
}
