package dql

import (
	"fmt"
	"strings"
)

// Operation is the statement kind a Query builds. It is fixed at construction.
type Operation int

const (
	OpSelect Operation = iota
	OpInsert
	OpUpdate
	OpDelete
)

// Keyword returns the leading SQL keyword of the operation.
func (o Operation) Keyword() string {
	switch o {
	case OpSelect:
		return "SELECT"
	case OpInsert:
		return "INSERT INTO"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE FROM"
	default:
		return ""
	}
}

func (o Operation) String() string {
	switch o {
	case OpSelect:
		return "select"
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Stage is a phase of the statement construction protocol. Stages are ordered
// and a Query only moves forward through them.
type Stage int

const (
	StageFieldInitialization Stage = iota + 1
	StageTableDefinition
	StageWhereCondition
	StageGroupBy
	StageHaving
	StageOrderRecords
	StageLimitRecords
	StageFinal
)

var stageNames = map[Stage]string{
	StageFieldInitialization: "FIELD_INITIALIZATION",
	StageTableDefinition:     "TABLE_DEFINITION",
	StageWhereCondition:      "WHERE_CONDITION_PHASE",
	StageGroupBy:             "GROUP_BY_PHASE",
	StageHaving:              "HAVING_PHASE",
	StageOrderRecords:        "ORDER_RECORDS_PHASE",
	StageLimitRecords:        "LIMIT_RECORDS_PHASE",
	StageFinal:               "FINAL",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STAGE(%d)", int(s))
}

// Comparison is a predicate operator.
type Comparison string

const (
	Equal          Comparison = "="
	Less           Comparison = "<"
	LessOrEqual    Comparison = "<="
	Greater        Comparison = ">"
	GreaterOrEqual Comparison = ">="
	Null           Comparison = "IS NULL"
	NotNull        Comparison = "IS NOT NULL"
	Like           Comparison = "LIKE"
)

// unary reports whether the operator takes no right-hand value.
func (c Comparison) unary() bool {
	return c == Null || c == NotNull
}

func (c Comparison) valid() bool {
	switch c {
	case Equal, Less, LessOrEqual, Greater, GreaterOrEqual, Null, NotNull, Like:
		return true
	}
	return false
}

// LikeMatch selects where the % wildcards go around a LIKE value.
type LikeMatch int

const (
	// LikeContains matches the value anywhere: %value%.
	LikeContains LikeMatch = iota
	// LikeStart matches values ending with the value: %value.
	LikeStart
	// LikeEnd matches values starting with the value: value%.
	LikeEnd
)

// likeEscaper escapes the LIKE wildcards of a value. It pairs with the
// ESCAPE '\' clause IsLike emits.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (m LikeMatch) wrap(value any) string {
	s := likeEscaper.Replace(fmt.Sprint(value))
	switch m {
	case LikeStart:
		return "%" + s
	case LikeEnd:
		return s + "%"
	default:
		return "%" + s + "%"
	}
}

// Condition is a logical keyword used inside a WHERE clause.
type Condition string

const (
	And        Condition = "AND"
	Or         Condition = "OR"
	Not        Condition = "NOT"
	In         Condition = "IN"
	NotIn      Condition = "NOT IN"
	Between    Condition = "BETWEEN"
	NotBetween Condition = "NOT BETWEEN"
)

// Aggregation is an aggregate function usable in projections and HAVING.
type Aggregation string

const (
	Count       Aggregation = "COUNT"
	GroupConcat Aggregation = "GROUP_CONCAT"
	Sum         Aggregation = "SUM"
	Avg         Aggregation = "AVG"
	Min         Aggregation = "MIN"
	Max         Aggregation = "MAX"
	JSONAgg     Aggregation = "JSON_GROUP_ARRAY"
)

func (a Aggregation) valid() bool {
	switch a {
	case Count, GroupConcat, Sum, Avg, Min, Max, JSONAgg:
		return true
	}
	return false
}

// apply renders the aggregate over an already qualified expression.
func (a Aggregation) apply(expr string) string {
	return string(a) + "(" + expr + ")"
}

// RelationType identifies the cardinality of a join.
type RelationType string

const (
	ManyToOneType  RelationType = "manyToOne"
	OneToManyType  RelationType = "oneToMany"
	ManyToManyType RelationType = "manyToMany"
)

// JoinType is the SQL join keyword.
type JoinType string

const (
	InnerJoinType JoinType = "JOIN"
	LeftJoinType  JoinType = "LEFT JOIN"
)

func (j JoinType) valid() bool {
	return j == InnerJoinType || j == LeftJoinType
}

// Direction is an ORDER BY direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts asc/desc in any case. An empty string yields Desc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DESC":
		return Desc, nil
	case "ASC":
		return Asc, nil
	default:
		return "", fmt.Errorf("invalid order direction %q", s)
	}
}
