package dql

import (
	"fmt"
	"strings"
)

type field struct {
	name  string
	value any
	out   string
	agg   Aggregation
}

// Query builds one SQL statement through a fixed sequence of stages. Values
// are always bound as ? placeholders and collected in Params.
//
// Methods return the query for chaining. The first failure is kept and turns
// later calls into no-ops; it is reported by Err, SQL and Build.
type Query struct {
	op    Operation
	stage Stage
	table string
	alias string

	fields  []field
	drained bool

	projections []string
	assignments string

	relations []Relation
	byTable   map[string]Relation
	aliases   *aliasSet

	conds          []string
	predicates     int
	openConnective bool

	groupBy []string
	having  []string
	orderBy []string
	limit   []string

	params []any
	err    error
}

func newQuery(op Operation, table string) *Query {
	return &Query{
		op:      op,
		stage:   StageFieldInitialization,
		table:   table,
		byTable: make(map[string]Relation),
		aliases: newAliasSet(),
	}
}

// Select starts a SELECT. The alias defaults to the first letter of the table.
func Select(table string, alias ...string) *Query {
	q := newQuery(OpSelect, table)
	if len(alias) > 0 {
		q.alias = alias[0]
	}
	return q
}

// Insert starts an INSERT INTO table.
func Insert(table string) *Query {
	return newQuery(OpInsert, table)
}

// Update starts an UPDATE. Columns are qualified with the bare table name.
func Update(table string) *Query {
	q := newQuery(OpUpdate, table)
	q.alias = table
	return q
}

// Delete starts a DELETE FROM table. With a table the query is immediately
// ready for predicates.
func Delete(table string) *Query {
	q := newQuery(OpDelete, table)
	q.alias = table
	if table != "" {
		q.stage = StageWhereCondition
	}
	return q
}

// Err returns the first error recorded by the chain.
func (q *Query) Err() error { return q.err }

// Stage returns the current construction stage.
func (q *Query) Stage() Stage { return q.stage }

// Operation returns the statement kind.
func (q *Query) Operation() Operation { return q.op }

// TableName returns the main table.
func (q *Query) TableName() string { return q.table }

// Relations returns the registered relations in join order.
func (q *Query) Relations() []Relation {
	out := make([]Relation, len(q.relations))
	copy(out, q.relations)
	return out
}

// Fail records err unless an earlier error is already kept. Code composing
// queries uses it to report its own failures through Build.
func (q *Query) Fail(err error) *Query {
	return q.fail(err)
}

func (q *Query) fail(err error) *Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

func (q *Query) violation(method, reason string) error {
	return &SequenceError{Method: method, Operation: q.op, Stage: q.stage, Reason: reason}
}

// advance applies a transition. It records the error and returns false when
// the transition is illegal.
func (q *Query) advance(method string, act action) bool {
	if q.err != nil {
		return false
	}
	next, reason, ok := nextStage(q.op, q.stage, act)
	if !ok {
		q.fail(q.violation(method, reason))
		return false
	}
	q.stage = next
	return true
}

// Table sets the table of a statement created without one. A DELETE becomes
// ready for predicates.
func (q *Query) Table(name string) *Query {
	if q.err != nil {
		return q
	}
	if q.stage != StageFieldInitialization {
		return q.fail(q.violation("Table", "table must be set before any clause"))
	}
	if err := checkIdent("table", name); err != nil {
		return q.fail(err)
	}
	q.table = name
	switch q.op {
	case OpUpdate, OpDelete:
		q.alias = name
	}
	if q.op == OpDelete {
		q.stage = StageWhereCondition
	}
	return q
}

// SetField queues a column. For SELECT the optional value is the output
// alias; for INSERT and UPDATE it is the bound value (nil when omitted).
// Setting a column twice replaces the earlier entry.
func (q *Query) SetField(name string, value ...any) *Query {
	if !q.advance("SetField", actField) {
		return q
	}
	f := field{name: name}
	if q.op == OpSelect {
		if err := checkColumn(name); err != nil {
			return q.fail(err)
		}
		if len(value) > 0 && value[0] != nil {
			out, ok := value[0].(string)
			if !ok {
				return q.fail(q.violation("SetField", "select output alias must be a string"))
			}
			if out != "" {
				if err := checkIdent("alias", out); err != nil {
					return q.fail(err)
				}
			}
			f.out = out
		}
	} else {
		if err := checkIdent("column", name); err != nil {
			return q.fail(err)
		}
		if len(value) > 0 {
			f.value = value[0]
		}
	}
	q.putField(f)
	return q
}

// Aggregate queues an aggregate over a main table column, e.g.
// Aggregate(Count, "*", "count") renders COUNT(*) AS count.
func (q *Query) Aggregate(agg Aggregation, column, outAlias string) *Query {
	if q.err != nil {
		return q
	}
	if q.op != OpSelect {
		return q.fail(q.violation("Aggregate", "not supported by this statement"))
	}
	if !q.advance("Aggregate", actField) {
		return q
	}
	if !agg.valid() {
		return q.fail(q.violation("Aggregate", fmt.Sprintf("unknown aggregation %q", agg)))
	}
	if err := checkColumn(column); err != nil {
		return q.fail(err)
	}
	if outAlias != "" {
		if err := checkIdent("alias", outAlias); err != nil {
			return q.fail(err)
		}
	}
	q.putField(field{name: column, out: outAlias, agg: agg})
	return q
}

func (q *Query) putField(f field) {
	for i := range q.fields {
		if q.fields[i].name == f.name && q.fields[i].agg == f.agg {
			q.fields[i] = f
			return
		}
	}
	q.fields = append(q.fields, f)
}

// From fixes the main table and renders the queued fields. The optional
// argument overrides the table given to the constructor.
func (q *Query) From(table ...string) *Query {
	if len(table) > 0 {
		return q.from(table[0], "")
	}
	return q.from("", "")
}

// FromAs is From with an explicit alias.
func (q *Query) FromAs(table, alias string) *Query {
	return q.from(table, alias)
}

func (q *Query) from(table, alias string) *Query {
	if !q.advance("From", actFrom) {
		return q
	}
	if table != "" {
		q.table = table
		if q.op == OpUpdate {
			q.alias = table
		}
	}
	if alias != "" && q.op == OpSelect {
		q.alias = alias
	}
	if q.table == "" {
		return q.fail(ErrMissingTable)
	}
	if err := checkIdent("table", q.table); err != nil {
		return q.fail(err)
	}
	if q.op == OpSelect {
		if q.alias == "" {
			q.alias = defaultAlias(q.table)
		}
		if err := checkIdent("alias", q.alias); err != nil {
			return q.fail(err)
		}
		if err := q.aliases.claim(q.alias); err != nil {
			return q.fail(err)
		}
	}
	if err := q.drain(); err != nil {
		return q.fail(err)
	}
	return q
}

// drain renders the queued fields into the statement body once.
func (q *Query) drain() error {
	if q.drained {
		return nil
	}
	q.drained = true
	fields := q.fields
	q.fields = nil

	switch q.op {
	case OpSelect:
		for _, f := range fields {
			q.projections = append(q.projections, q.renderField(f))
		}
		if len(q.projections) == 0 {
			q.projections = append(q.projections, q.alias+".*")
		}
	case OpInsert:
		if len(fields) == 0 {
			return q.violation("From", "insert requires at least one field")
		}
		cols := make([]string, len(fields))
		marks := make([]string, len(fields))
		for i, f := range fields {
			cols[i] = f.name
			marks[i] = "?"
			q.params = append(q.params, f.value)
		}
		q.assignments = "(" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	case OpUpdate:
		if len(fields) == 0 {
			return q.violation("From", "update requires at least one field")
		}
		sets := make([]string, len(fields))
		for i, f := range fields {
			sets[i] = f.name + " = ?"
			q.params = append(q.params, f.value)
		}
		q.assignments = "SET " + strings.Join(sets, ", ")
	}
	return nil
}

func (q *Query) renderField(f field) string {
	expr := q.alias + "." + f.name
	if f.agg != "" {
		if f.name == "*" {
			expr = f.agg.apply("*")
		} else {
			expr = f.agg.apply(expr)
		}
	}
	if f.out != "" {
		expr += " AS " + f.out
	}
	return expr
}

// InnerJoin registers a many-to-one relation joined with JOIN.
func (q *Query) InnerJoin(table, alias, fk string) *Query {
	return q.join("InnerJoin", NewManyToOne(table, alias, fk), InnerJoinType)
}

// LeftJoin registers a many-to-one relation joined with LEFT JOIN.
func (q *Query) LeftJoin(table, alias, fk string) *Query {
	return q.join("LeftJoin", NewManyToOne(table, alias, fk), LeftJoinType)
}

// ManyToManyJoin registers a relation through a junction table. The join
// type defaults to LEFT JOIN.
func (q *Query) ManyToManyJoin(table, mediator, ownerFK, relatedFK string, joinType ...JoinType) *Query {
	jt := LeftJoinType
	if len(joinType) > 0 {
		jt = joinType[0]
	}
	return q.join("ManyToManyJoin", NewManyToMany(table, mediator, ownerFK, relatedFK), jt)
}

// Join registers any relation. The query keeps its own copy, so the same
// relation value can seed several queries.
func (q *Query) Join(rel Relation, joinType JoinType) *Query {
	return q.join("Join", rel, joinType)
}

func (q *Query) join(method string, rel Relation, joinType JoinType) *Query {
	if !q.advance(method, actJoin) {
		return q
	}
	if rel == nil {
		return q.fail(q.violation(method, "nil relation"))
	}
	if !joinType.valid() {
		return q.fail(q.violation(method, fmt.Sprintf("unknown join type %q", joinType)))
	}
	if _, dup := q.byTable[rel.Table()]; dup || rel.Table() == q.table {
		return q.fail(&RelationError{Relation: rel.Table(), Err: ErrDuplicateAlias})
	}
	r := rel.clone()
	if err := r.build(q.alias, joinType, q.aliases); err != nil {
		return q.fail(err)
	}
	q.relations = append(q.relations, r)
	q.byTable[r.Table()] = r
	return q
}

func (q *Query) relation(table string) (Relation, error) {
	r, ok := q.byTable[table]
	if !ok {
		return nil, &RelationError{Relation: table, Err: ErrUnknownRelation}
	}
	return r, nil
}

// Alias returns the alias used for table: the main alias for the main table
// (or an empty name), the relation alias otherwise.
func (q *Query) Alias(table string) (string, error) {
	if table == "" || table == q.table || table == q.alias {
		if q.alias == "" {
			return "", ErrMissingTable
		}
		return q.alias, nil
	}
	r, err := q.relation(table)
	if err != nil {
		return "", err
	}
	return r.Alias(), nil
}

// SetSelectedField projects a column of a registered relation. With an
// aggregation the projection is only legal once grouping started.
func (q *Query) SetSelectedField(relation, column, outAlias string, agg ...Aggregation) *Query {
	var a Aggregation
	if len(agg) > 0 {
		a = agg[0]
	}
	act := actProject
	if a != "" {
		act = actAggregateProject
	}
	if !q.advance("SetSelectedField", act) {
		return q
	}
	r, err := q.relation(relation)
	if err != nil {
		return q.fail(err)
	}
	if err := checkColumn(column); err != nil {
		return q.fail(err)
	}
	if outAlias != "" {
		if err := checkIdent("alias", outAlias); err != nil {
			return q.fail(err)
		}
	}
	if a == "" {
		r.SetField(column, outAlias)
		return q
	}
	if !a.valid() {
		return q.fail(q.violation("SetSelectedField", fmt.Sprintf("unknown aggregation %q", a)))
	}
	expr := "*"
	if column != "*" {
		expr = r.Alias() + "." + column
	}
	r.SetField(a.apply(expr), outAlias)
	return q
}

// SetSelectedObject projects the listed relation columns as a JSON array of
// objects, one per joined row.
func (q *Query) SetSelectedObject(relation string, columns []string, outAlias string) *Query {
	if !q.advance("SetSelectedObject", actAggregateProject) {
		return q
	}
	r, err := q.relation(relation)
	if err != nil {
		return q.fail(err)
	}
	if len(columns) == 0 {
		return q.fail(q.violation("SetSelectedObject", "no columns"))
	}
	if err := checkIdent("alias", outAlias); err != nil {
		return q.fail(err)
	}
	pairs := make([]string, len(columns))
	for i, c := range columns {
		if err := checkIdent("column", c); err != nil {
			return q.fail(err)
		}
		pairs[i] = fmt.Sprintf("'%s', %s.%s", c, r.Alias(), c)
	}
	r.SetField(JSONAgg.apply("JSON_OBJECT("+strings.Join(pairs, ", ")+")"), outAlias)
	return q
}

// Equals adds field = ?. The optional related table qualifies the column with
// that relation's alias.
func (q *Query) Equals(field string, value any, related ...string) *Query {
	return q.where("Equals", field, Equal, value, related)
}

// LessThan adds field < ?.
func (q *Query) LessThan(field string, value any, related ...string) *Query {
	return q.where("LessThan", field, Less, value, related)
}

// GreaterThan adds field > ?.
func (q *Query) GreaterThan(field string, value any, related ...string) *Query {
	return q.where("GreaterThan", field, Greater, value, related)
}

// LessOrEquals adds field <= ?.
func (q *Query) LessOrEquals(field string, value any, related ...string) *Query {
	return q.where("LessOrEquals", field, LessOrEqual, value, related)
}

// GreaterOrEquals adds field >= ?.
func (q *Query) GreaterOrEquals(field string, value any, related ...string) *Query {
	return q.where("GreaterOrEquals", field, GreaterOrEqual, value, related)
}

// IsNull adds field IS NULL.
func (q *Query) IsNull(field string, related ...string) *Query {
	return q.where("IsNull", field, Null, nil, related)
}

// IsNotNull adds field IS NOT NULL.
func (q *Query) IsNotNull(field string, related ...string) *Query {
	return q.where("IsNotNull", field, NotNull, nil, related)
}

// IsLike adds field LIKE ? with the value wrapped in % according to match.
// Wildcards inside the value match literally.
func (q *Query) IsLike(field string, value any, match LikeMatch, related ...string) *Query {
	return q.where("IsLike", field, Like, match.wrap(value), related)
}

func (q *Query) where(method, field string, cmp Comparison, value any, related []string) *Query {
	col, ok := q.predicate(method, field, related)
	if !ok {
		return q
	}
	if !cmp.valid() {
		return q.fail(q.violation(method, fmt.Sprintf("unknown comparison %q", cmp)))
	}
	if cmp.unary() {
		q.appendPredicate(col + " " + string(cmp))
		return q
	}
	term := col + " " + string(cmp) + " ?"
	if cmp == Like {
		term += ` ESCAPE '\'`
	}
	q.appendPredicate(term)
	q.params = append(q.params, value)
	return q
}

// In adds field IN (?, ...).
func (q *Query) In(field string, values []any, related ...string) *Query {
	return q.list("In", field, In, values, related)
}

// NotIn adds field NOT IN (?, ...).
func (q *Query) NotIn(field string, values []any, related ...string) *Query {
	return q.list("NotIn", field, NotIn, values, related)
}

func (q *Query) list(method, field string, cond Condition, values []any, related []string) *Query {
	col, ok := q.predicate(method, field, related)
	if !ok {
		return q
	}
	if len(values) == 0 {
		return q.fail(fmt.Errorf("%s %s: %w", method, field, ErrEmptyList))
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	q.appendPredicate(col + " " + string(cond) + " (" + marks + ")")
	q.params = append(q.params, values...)
	return q
}

// Between adds field BETWEEN ? AND ?.
func (q *Query) Between(field string, low, high any, related ...string) *Query {
	col, ok := q.predicate("Between", field, related)
	if !ok {
		return q
	}
	q.appendPredicate(col + " " + string(Between) + " ? AND ?")
	q.params = append(q.params, low, high)
	return q
}

// predicate checks the stage for a WHERE term and resolves its column.
func (q *Query) predicate(method, field string, related []string) (string, bool) {
	if q.err != nil {
		return "", false
	}
	if q.stage == StageFieldInitialization {
		switch {
		case q.op == OpDelete:
			q.fail(ErrMissingTable)
			return "", false
		case q.op == OpSelect:
			q.fail(q.violation(method, "from() was not called"))
			return "", false
		}
	}
	if !q.advance(method, actPredicate) {
		return "", false
	}
	if q.op == OpUpdate {
		if q.table == "" {
			q.fail(ErrMissingTable)
			return "", false
		}
		if err := q.drain(); err != nil {
			q.fail(err)
			return "", false
		}
	}
	if err := checkIdent("column", field); err != nil {
		q.fail(err)
		return "", false
	}
	var rel string
	if len(related) > 0 {
		rel = related[0]
	}
	alias, err := q.Alias(rel)
	if err != nil {
		q.fail(err)
		return "", false
	}
	return alias + "." + field, true
}

func (q *Query) appendPredicate(term string) {
	if q.predicates > 0 && !q.openConnective {
		q.conds = append(q.conds, string(And))
	}
	q.conds = append(q.conds, term)
	q.predicates++
	q.openConnective = false
}

// And joins the next predicate with AND. It only has an effect after a
// predicate; a second connective in a row replaces the first.
func (q *Query) And() *Query { return q.connective(And) }

// Or joins the next predicate with OR.
func (q *Query) Or() *Query { return q.connective(Or) }

// AndEquals is And followed by Equals.
func (q *Query) AndEquals(field string, value any, related ...string) *Query {
	return q.connective(And).Equals(field, value, related...)
}

// OrEquals is Or followed by Equals.
func (q *Query) OrEquals(field string, value any, related ...string) *Query {
	return q.connective(Or).Equals(field, value, related...)
}

func (q *Query) connective(c Condition) *Query {
	if q.err != nil || q.stage != StageWhereCondition || q.predicates == 0 {
		return q
	}
	if q.openConnective {
		q.conds[len(q.conds)-1] = string(c)
		return q
	}
	q.conds = append(q.conds, string(c))
	q.openConnective = true
	return q
}

// WithoutConditions marks a SELECT as having no WHERE clause.
func (q *Query) WithoutConditions() *Query {
	q.advance("WithoutConditions", actSkipConditions)
	return q
}

// WithoutGrouping marks a SELECT as having no GROUP BY clause, which makes
// ordering legal.
func (q *Query) WithoutGrouping() *Query {
	q.advance("WithoutGrouping", actSkipGrouping)
	return q
}

// Group adds a GROUP BY column. An empty table means the main table.
func (q *Query) Group(table, field string) *Query {
	if !q.advance("Group", actGroup) {
		return q
	}
	if err := checkIdent("column", field); err != nil {
		return q.fail(err)
	}
	alias, err := q.Alias(table)
	if err != nil {
		return q.fail(err)
	}
	q.groupBy = append(q.groupBy, alias+"."+field)
	return q
}

// Having adds agg(table.field) cmp ? to the HAVING clause. Terms are joined
// with AND. A field of * aggregates over rows.
func (q *Query) Having(agg Aggregation, table, field string, cmp Comparison, value any) *Query {
	if !q.advance("Having", actHaving) {
		return q
	}
	if len(q.groupBy) == 0 {
		return q.fail(q.violation("Having", "having requires a group by clause"))
	}
	if !agg.valid() {
		return q.fail(q.violation("Having", fmt.Sprintf("unknown aggregation %q", agg)))
	}
	if !cmp.valid() || cmp.unary() || cmp == Like {
		return q.fail(q.violation("Having", fmt.Sprintf("unsupported comparison %q", cmp)))
	}
	if err := checkColumn(field); err != nil {
		return q.fail(err)
	}
	expr := "*"
	if field != "*" {
		alias, err := q.Alias(table)
		if err != nil {
			return q.fail(err)
		}
		expr = alias + "." + field
	}
	q.having = append(q.having, agg.apply(expr)+" "+string(cmp)+" ?")
	q.params = append(q.params, value)
	return q
}

// Order adds a main table ORDER BY column. The direction defaults to DESC.
func (q *Query) Order(field string, direction ...string) *Query {
	var dir string
	if len(direction) > 0 {
		dir = direction[0]
	}
	return q.OrderBy("", field, dir)
}

// OrderBy adds an ORDER BY column of the main table or a relation.
func (q *Query) OrderBy(table, field, direction string) *Query {
	if !q.advance("Order", actOrder) {
		return q
	}
	if err := checkIdent("column", field); err != nil {
		return q.fail(err)
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return q.fail(err)
	}
	alias, err := q.Alias(table)
	if err != nil {
		return q.fail(err)
	}
	q.orderBy = append(q.orderBy, alias+"."+field+" "+string(dir))
	return q
}

// OrderByAlias orders by an output alias of the projection list, such as an
// aggregate.
func (q *Query) OrderByAlias(name, direction string) *Query {
	if !q.advance("Order", actOrder) {
		return q
	}
	if err := checkIdent("alias", name); err != nil {
		return q.fail(err)
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return q.fail(err)
	}
	q.orderBy = append(q.orderBy, name+" "+string(dir))
	return q
}

// Limit adds LIMIT ?. An optional offset adds OFFSET ? and completes the
// query, equivalent to Limit(n).Offset(offset).
func (q *Query) Limit(n int, offset ...int) *Query {
	if !q.advance("Limit", actLimit) {
		return q
	}
	q.limit = append(q.limit, "LIMIT ?")
	q.params = append(q.params, n)
	if len(offset) > 0 {
		return q.Offset(offset[0])
	}
	return q
}

// Offset adds OFFSET ? after a limit.
func (q *Query) Offset(n int) *Query {
	if !q.advance("Offset", actOffset) {
		return q
	}
	q.limit = append(q.limit, "OFFSET ?")
	q.params = append(q.params, n)
	return q
}

// Params returns the bound values in placeholder order.
func (q *Query) Params() []any {
	if q.err == nil && q.op == OpInsert && !q.drained && q.table != "" {
		if err := q.drain(); err != nil {
			q.fail(err)
		}
	}
	out := make([]any, len(q.params))
	copy(out, q.params)
	return out
}

// SQL renders the statement.
func (q *Query) SQL() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if err := q.validate(); err != nil {
		return "", err
	}
	return q.render(), nil
}

// Build renders the statement and returns it with its parameters.
func (q *Query) Build() (string, []any, error) {
	s, err := q.SQL()
	if err != nil {
		return "", nil, err
	}
	return s, q.Params(), nil
}

func (q *Query) validate() error {
	if q.table == "" {
		return ErrMissingTable
	}
	switch q.op {
	case OpSelect:
		if q.stage == StageFieldInitialization {
			return q.violation("Build", "from() was not called")
		}
	case OpInsert:
		if err := checkIdent("table", q.table); err != nil {
			return err
		}
		if err := q.drain(); err != nil {
			q.fail(err)
			return err
		}
	case OpUpdate, OpDelete:
		if q.predicates == 0 {
			return ErrMissingPredicate
		}
	}
	if q.openConnective {
		return q.violation("Build", "dangling "+q.conds[len(q.conds)-1])
	}
	return nil
}

func (q *Query) render() string {
	var parts []string
	switch q.op {
	case OpSelect:
		parts = append(parts, "SELECT", strings.Join(q.selectList(), ", "), "FROM", q.tableRef())
		for _, r := range q.relations {
			parts = append(parts, r.SQL())
		}
	case OpInsert:
		parts = append(parts, q.op.Keyword(), q.table, q.assignments)
	case OpUpdate:
		parts = append(parts, q.op.Keyword(), q.table, q.assignments)
	case OpDelete:
		parts = append(parts, q.op.Keyword(), q.table)
	}
	if len(q.conds) > 0 {
		parts = append(parts, "WHERE")
		parts = append(parts, q.conds...)
	}
	if len(q.groupBy) > 0 {
		parts = append(parts, "GROUP BY", strings.Join(q.groupBy, ", "))
	}
	if len(q.having) > 0 {
		parts = append(parts, "HAVING", strings.Join(q.having, " AND "))
	}
	if len(q.orderBy) > 0 {
		parts = append(parts, "ORDER BY", strings.Join(q.orderBy, ", "))
	}
	parts = append(parts, q.limit...)
	return strings.Join(parts, " ") + ";"
}

func (q *Query) tableRef() string {
	if q.alias == q.table {
		return q.table
	}
	return q.table + " AS " + q.alias
}

// selectList is the main projections followed by every relation's fields in
// registration order. A relation without fields contributes alias.*.
func (q *Query) selectList() []string {
	list := append([]string(nil), q.projections...)
	for _, r := range q.relations {
		fields := r.Fields()
		if len(fields) == 0 {
			list = append(list, r.Alias()+".*")
			continue
		}
		for _, p := range fields {
			expr := p.Column
			if !p.isExpression() {
				expr = r.Alias() + "." + p.Column
			}
			if p.Alias != "" {
				expr += " AS " + p.Alias
			}
			list = append(list, expr)
		}
	}
	return list
}
