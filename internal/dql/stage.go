package dql

// action is a class of builder call checked against the transition table.
type action int

const (
	actField action = iota
	actFrom
	actJoin
	actProject
	actAggregateProject
	actPredicate
	actSkipConditions
	actGroup
	actSkipGrouping
	actHaving
	actOrder
	actLimit
	actOffset
)

// transitions maps the current stage and an action to the stage the query
// moves to. Missing entries are sequence violations.
var transitions = map[Stage]map[action]Stage{
	StageFieldInitialization: {
		actField:     StageFieldInitialization,
		actFrom:      StageTableDefinition,
		actPredicate: StageWhereCondition,
	},
	StageTableDefinition: {
		actJoin:           StageTableDefinition,
		actProject:        StageTableDefinition,
		actPredicate:      StageWhereCondition,
		actSkipConditions: StageWhereCondition,
		actGroup:          StageGroupBy,
		actSkipGrouping:   StageGroupBy,
	},
	StageWhereCondition: {
		actProject:      StageWhereCondition,
		actPredicate:    StageWhereCondition,
		actGroup:        StageGroupBy,
		actSkipGrouping: StageGroupBy,
	},
	StageGroupBy: {
		actProject:          StageGroupBy,
		actAggregateProject: StageGroupBy,
		actGroup:            StageGroupBy,
		actHaving:           StageHaving,
		actOrder:            StageOrderRecords,
	},
	StageHaving: {
		actProject: StageHaving,
		actHaving:  StageHaving,
		actOrder:   StageOrderRecords,
	},
	StageOrderRecords: {
		actProject: StageOrderRecords,
		actOrder:   StageOrderRecords,
		actLimit:   StageLimitRecords,
	},
	StageLimitRecords: {
		actOffset: StageFinal,
	},
}

// allowed lists the operations an action applies to. Actions absent from the
// map are SELECT only.
var allowed = map[action][]Operation{
	actField:     {OpSelect, OpInsert, OpUpdate},
	actFrom:      {OpSelect, OpInsert, OpUpdate},
	actPredicate: {OpSelect, OpUpdate, OpDelete},
}

func operationAllows(act action, op Operation) bool {
	ops, ok := allowed[act]
	if !ok {
		return op == OpSelect
	}
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

// nextStage resolves a transition without applying it.
func nextStage(op Operation, from Stage, act action) (Stage, string, bool) {
	if !operationAllows(act, op) {
		return from, "not supported by this statement", false
	}
	next, ok := transitions[from][act]
	if !ok {
		return from, "", false
	}
	return next, "", true
}
