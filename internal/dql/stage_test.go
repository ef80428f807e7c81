package dql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions_OnlyMoveForward(t *testing.T) {
	for from, acts := range transitions {
		for act, to := range acts {
			assert.GreaterOrEqual(t, int(to), int(from), "stage %s action %d", from, act)
		}
	}
}

func TestTransitions_FinalIsTerminal(t *testing.T) {
	assert.Empty(t, transitions[StageFinal])
}

func TestNextStage(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		from Stage
		act  action
		want Stage
		ok   bool
	}{
		{"select from", OpSelect, StageFieldInitialization, actFrom, StageTableDefinition, true},
		{"delete from", OpDelete, StageFieldInitialization, actFrom, StageFieldInitialization, false},
		{"update predicate drains", OpUpdate, StageFieldInitialization, actPredicate, StageWhereCondition, true},
		{"insert predicate", OpInsert, StageTableDefinition, actPredicate, StageTableDefinition, false},
		{"join only for select", OpUpdate, StageTableDefinition, actJoin, StageTableDefinition, false},
		{"order after where", OpSelect, StageWhereCondition, actOrder, StageWhereCondition, false},
		{"order after group", OpSelect, StageGroupBy, actOrder, StageOrderRecords, true},
		{"order after having", OpSelect, StageHaving, actOrder, StageOrderRecords, true},
		{"limit after order", OpSelect, StageOrderRecords, actLimit, StageLimitRecords, true},
		{"offset after limit", OpSelect, StageLimitRecords, actOffset, StageFinal, true},
		{"aggregate before group", OpSelect, StageWhereCondition, actAggregateProject, StageWhereCondition, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := nextStage(tt.op, tt.from, tt.act)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"": Desc, "desc": Desc, "ASC": Asc, " asc ": Asc} {
		got, err := ParseDirection(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDirection("up")
	assert.Error(t, err)
}
