package dql

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// snapshot renders a statement and its parameters for golden comparison.
func snapshot(sql string, params []any) []byte {
	var b strings.Builder
	b.WriteString(sql)
	b.WriteString("\n")
	for i, p := range params {
		fmt.Fprintf(&b, "$%d = %#v\n", i+1, p)
	}
	return []byte(b.String())
}

func TestGolden(t *testing.T) {
	tests := []struct {
		name  string
		query func() *Query
	}{
		{
			name: "task_listing",
			query: func() *Query {
				return Select("tasks").
					From().
					LeftJoin("users", "u", "user_id").
					ManyToManyJoin("tags", "task_tags", "task_id", "tag_id").
					SetSelectedField("users", "name", "user_name").
					Equals("user_id", 5).
					Equals("status", "TODO").
					Group("tasks", "id").
					SetSelectedField("tags", "name", "tags", GroupConcat).
					Order("created_at", "DESC")
			},
		},
		{
			name: "task_object_listing",
			query: func() *Query {
				return Select("tasks").
					From().
					LeftJoin("users", "u", "user_id").
					ManyToManyJoin("tags", "task_tags", "task_id", "tag_id").
					SetSelectedField("users", "name", "user_name").
					WithoutConditions().
					Group("", "id").
					SetSelectedObject("tags", []string{"id", "name"}, "tags").
					Order("id", "ASC").
					Limit(20, 40)
			},
		},
		{
			name: "reply_thread",
			query: func() *Query {
				return Select("replies").
					SetField("id").
					SetField("body").
					From().
					InnerJoin("users", "", "user_id").
					SetSelectedField("users", "name", "author").
					Equals("task_id", 3).
					WithoutGrouping().
					Order("created_at", "ASC")
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := tt.query().Build()
			require.NoError(t, err)
			g.Assert(t, tt.name, snapshot(sql, params))
		})
	}
}
