package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/taskdesk/internal/dql"
)

func TestLayoutOf(t *testing.T) {
	l := LayoutOf("tasks", []dql.Relation{
		dql.ManyToOneOf("users", "user_id"),
		dql.NewManyToMany("tags", "task_tags", "task_id", "tag_id"),
		dql.OneToManyOf("replies", "task_id"),
	})
	assert.Equal(t, "tasks", l.Main)
	assert.Equal(t, []string{"users"}, l.Related)
	assert.Equal(t, []string{"tags", "replies"}, l.Collections)
}

func TestDemux(t *testing.T) {
	l := Layout{Main: "tasks", Related: []string{"users"}, Collections: []string{"tags"}}

	rec, err := l.Demux(Row{
		"tasks_id":      int64(1),
		"tasks_title":   "Fix login",
		"tasks_user_id": int64(5),
		"users_id":      int64(5),
		"users_name":    "Ann",
		"tags":          `[{"id":1,"name":"bug"},{"id":2,"name":"auth"},{"id":1,"name":"bug"}]`,
		"extra":         "kept",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), rec["id"])
	assert.Equal(t, "Fix login", rec["title"])
	assert.Equal(t, int64(5), rec["user_id"])
	assert.Equal(t, "kept", rec["extra"])
	assert.Equal(t, Record{"id": int64(5), "name": "Ann"}, rec["users"])
	assert.Equal(t, []Record{
		{"id": int64(1), "name": "bug"},
		{"id": int64(2), "name": "auth"},
	}, rec["tags"])
}

func TestDemux_LongestPrefixWins(t *testing.T) {
	l := Layout{Main: "task", Related: []string{"task_tags"}}

	rec, err := l.Demux(Row{"task_id": int64(1), "task_tags_tag_id": int64(3)})
	require.NoError(t, err)

	assert.Equal(t, int64(1), rec["id"])
	assert.Equal(t, Record{"tag_id": int64(3)}, rec["task_tags"])
}

func TestDemux_NullRelations(t *testing.T) {
	l := Layout{Main: "tasks", Related: []string{"users"}, Collections: []string{"tags", "replies"}}

	rec, err := l.Demux(Row{
		"tasks_id":   int64(1),
		"users_id":   nil,
		"users_name": nil,
		"tags":       `[{"id":null,"name":null}]`,
		"replies":    nil,
	})
	require.NoError(t, err)

	assert.Contains(t, rec, "users")
	assert.Nil(t, rec["users"])
	assert.Equal(t, []Record{}, rec["tags"])
	assert.Equal(t, []Record{}, rec["replies"])
}

func TestDemux_NumbersAndBytes(t *testing.T) {
	l := Layout{Main: "tags", Collections: []string{"tasks"}}

	rec, err := l.Demux(Row{"tasks": []byte(`[{"id":7,"score":1.5,"title":"x"}]`)})
	require.NoError(t, err)

	items := Records(rec["tasks"])
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0]["id"])
	assert.Equal(t, 1.5, items[0]["score"])
	assert.Equal(t, "x", items[0]["title"])
}

func TestDemux_InvalidCollection(t *testing.T) {
	l := Layout{Main: "tasks", Collections: []string{"tags"}}

	_, err := l.Demux(Row{"tags": "not json"})
	assert.Error(t, err)

	_, err = l.Demux(Row{"tags": 42})
	assert.Error(t, err)
}
