package dql

import (
	"fmt"
	"strings"
)

// Projection is one column a relation contributes to the SELECT list. Column
// is either a bare column of the related table or a complete aggregate
// expression.
type Projection struct {
	Column string
	Alias  string
}

// isExpression reports whether the column already is a function call and
// must not be prefixed with the relation alias.
func (p Projection) isExpression() bool {
	return strings.Contains(p.Column, "(")
}

// Relation is a join target registered on a Query. It renders its own JOIN
// fragment and remembers which of its columns were projected.
//
// The interface is sealed: only the variants in this package implement it.
type Relation interface {
	// Table is the related table name; it is also the registration key.
	Table() string
	// Alias is the related table alias, known once the relation is built.
	Alias() string
	Type() RelationType
	// Fields returns projected columns in registration order.
	Fields() []Projection
	// SetField records column -> output alias. Re-setting a column replaces
	// its alias in place.
	SetField(column, alias string)
	// SQL returns the rendered JOIN fragment.
	SQL() string

	build(owner string, join JoinType, aliases *aliasSet) error
	clone() Relation
}

type relation struct {
	table  string
	alias  string
	typ    RelationType
	sql    string
	fields []Projection
}

func (r *relation) Table() string      { return r.table }
func (r *relation) Alias() string      { return r.alias }
func (r *relation) Type() RelationType { return r.typ }
func (r *relation) SQL() string        { return r.sql }

func (r *relation) Fields() []Projection {
	out := make([]Projection, len(r.fields))
	copy(out, r.fields)
	return out
}

func (r *relation) SetField(column, alias string) {
	for i := range r.fields {
		if r.fields[i].Column == column {
			r.fields[i].Alias = alias
			return
		}
	}
	r.fields = append(r.fields, Projection{Column: column, Alias: alias})
}

func (r *relation) copyBase() relation {
	c := *r
	c.fields = append([]Projection(nil), r.fields...)
	return c
}

// claimAlias validates and reserves the relation alias, deriving one from the
// table name when none was given.
func (r *relation) claimAlias(aliases *aliasSet) error {
	if err := checkIdent("table", r.table); err != nil {
		return err
	}
	if r.alias == "" {
		r.alias = aliases.derive(defaultAlias(r.table))
		return nil
	}
	if err := checkIdent("alias", r.alias); err != nil {
		return err
	}
	return aliases.claim(r.alias)
}

// ManyToOne joins a parent row referenced by a foreign key of the owner:
// JOIN users AS u ON t.user_id = u.id
type ManyToOne struct {
	relation
	fk string
}

// NewManyToOne creates a many-to-one relation. An empty alias is derived from
// the table name when the relation is joined.
func NewManyToOne(table, alias, fk string) *ManyToOne {
	return &ManyToOne{
		relation: relation{table: table, alias: alias, typ: ManyToOneType},
		fk:       fk,
	}
}

// ManyToOneOf is NewManyToOne with a derived alias.
func ManyToOneOf(table, fk string) *ManyToOne {
	return NewManyToOne(table, "", fk)
}

// ForeignKey is the owner column that references the related table.
func (r *ManyToOne) ForeignKey() string { return r.fk }

func (r *ManyToOne) build(owner string, join JoinType, aliases *aliasSet) error {
	if err := checkIdent("column", r.fk); err != nil {
		return err
	}
	if err := r.claimAlias(aliases); err != nil {
		return err
	}
	r.sql = fmt.Sprintf("%s %s AS %s ON %s.%s = %s.id", join, r.table, r.alias, owner, r.fk, r.alias)
	return nil
}

func (r *ManyToOne) clone() Relation {
	return &ManyToOne{relation: r.copyBase(), fk: r.fk}
}

// OneToMany joins child rows holding a foreign key to the owner:
// JOIN replies AS r ON t.id = r.task_id
type OneToMany struct {
	relation
	fk string
}

// NewOneToMany creates a one-to-many relation; fk is the column of the related
// table that references the owner.
func NewOneToMany(table, alias, fk string) *OneToMany {
	return &OneToMany{
		relation: relation{table: table, alias: alias, typ: OneToManyType},
		fk:       fk,
	}
}

// OneToManyOf is NewOneToMany with a derived alias.
func OneToManyOf(table, fk string) *OneToMany {
	return NewOneToMany(table, "", fk)
}

// ForeignKey is the related column that references the owner.
func (r *OneToMany) ForeignKey() string { return r.fk }

func (r *OneToMany) build(owner string, join JoinType, aliases *aliasSet) error {
	if err := checkIdent("column", r.fk); err != nil {
		return err
	}
	if err := r.claimAlias(aliases); err != nil {
		return err
	}
	r.sql = fmt.Sprintf("%s %s AS %s ON %s.id = %s.%s", join, r.table, r.alias, owner, r.alias, r.fk)
	return nil
}

func (r *OneToMany) clone() Relation {
	return &OneToMany{relation: r.copyBase(), fk: r.fk}
}

// ManyToMany joins related rows through a junction table. Both aliases are
// synthetic: a prefix taken from the table name plus a per-query counter.
type ManyToMany struct {
	relation
	mediator      string
	mediatorAlias string
	ownerFK       string
	relatedFK     string
}

// NewManyToMany creates a many-to-many relation. ownerFK is the junction
// column referencing the owner table, relatedFK the one referencing table.
func NewManyToMany(table, mediator, ownerFK, relatedFK string) *ManyToMany {
	return &ManyToMany{
		relation:  relation{table: table, typ: ManyToManyType},
		mediator:  mediator,
		ownerFK:   ownerFK,
		relatedFK: relatedFK,
	}
}

// Mediator is the junction table name.
func (r *ManyToMany) Mediator() string { return r.mediator }

// MediatorAlias is the junction table alias, known once built.
func (r *ManyToMany) MediatorAlias() string { return r.mediatorAlias }

// ForeignKeys returns the owner-side and related-side junction columns.
func (r *ManyToMany) ForeignKeys() (owner, related string) {
	return r.ownerFK, r.relatedFK
}

func (r *ManyToMany) build(owner string, join JoinType, aliases *aliasSet) error {
	if r.ownerFK == "" || r.relatedFK == "" {
		return &RelationError{Relation: r.table, Err: ErrMissingForeignKeys}
	}
	for _, id := range [][2]string{
		{"table", r.table},
		{"mediator", r.mediator},
		{"column", r.ownerFK},
		{"column", r.relatedFK},
	} {
		if err := checkIdent(id[0], id[1]); err != nil {
			return err
		}
	}

	r.mediatorAlias = aliases.next(aliasPrefix(r.mediator))
	r.alias = aliases.next(aliasPrefix(r.table))

	r.sql = fmt.Sprintf("%s %s AS %s ON %s.id = %s.%s %s %s AS %s ON %s.%s = %s.id",
		join, r.mediator, r.mediatorAlias, owner, r.mediatorAlias, r.ownerFK,
		join, r.table, r.alias, r.mediatorAlias, r.relatedFK, r.alias)
	return nil
}

func (r *ManyToMany) clone() Relation {
	return &ManyToMany{
		relation:  r.copyBase(),
		mediator:  r.mediator,
		ownerFK:   r.ownerFK,
		relatedFK: r.relatedFK,
	}
}

// aliasSet tracks the aliases used by one query.
type aliasSet struct {
	used     map[string]bool
	counters map[string]int
}

func newAliasSet() *aliasSet {
	return &aliasSet{
		used:     make(map[string]bool),
		counters: make(map[string]int),
	}
}

func (s *aliasSet) claim(alias string) error {
	if s.used[alias] {
		return &RelationError{Relation: alias, Err: ErrDuplicateAlias}
	}
	s.used[alias] = true
	return nil
}

// derive returns base if it is free, otherwise base_N.
func (s *aliasSet) derive(base string) string {
	if !s.used[base] {
		s.used[base] = true
		return base
	}
	return s.next(base)
}

// next always returns prefix_N with the smallest free N.
func (s *aliasSet) next(prefix string) string {
	for {
		s.counters[prefix]++
		alias := fmt.Sprintf("%s_%d", prefix, s.counters[prefix])
		if !s.used[alias] {
			s.used[alias] = true
			return alias
		}
	}
}
