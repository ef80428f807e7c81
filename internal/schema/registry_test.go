package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"users", "tasks", "tags", "replies"}, reg.Tables())

	task, err := reg.Model("Task")
	require.NoError(t, err)
	assert.Equal(t, "tasks", task.Table)
	assert.Equal(t, "id", task.PrimaryKey)
	assert.True(t, task.IsFillable("title"))
	assert.False(t, task.IsFillable("id"))

	user, err := reg.ByTable("users")
	require.NoError(t, err)
	assert.NotContains(t, user.Visible(), "password")
	assert.True(t, user.HasColumn("password"))
}

func TestRegistry_Unknown(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, err = reg.Model("Project")
	assert.ErrorIs(t, err, ErrUnknownModel)
	_, err = reg.ByTable("projects")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestModel_Filter(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	task, err := reg.Model("Task")
	require.NoError(t, err)

	got := task.Filter(map[string]any{
		"id":     99,
		"title":  "Ship it",
		"status": "TODO",
		"secret": "nope",
	})
	assert.Equal(t, map[string]any{"title": "Ship it", "status": "TODO"}, got)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "models: [\n"},
		{"no name", "models:\n  - columns: [id]\n"},
		{"pk not a column", "models:\n  - name: Note\n    columns: [body]\n"},
		{"fillable not a column", "models:\n  - name: Note\n    columns: [id]\n    fillable: [body]\n"},
		{"fillable pk", "models:\n  - name: Note\n    columns: [id]\n    fillable: [id]\n"},
		{"duplicate column", "models:\n  - name: Note\n    columns: [id, id]\n"},
		{"duplicate table", "models:\n  - name: Note\n    columns: [id]\n  - name: Memo\n    table: notes\n    columns: [id]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	reg, err := Load([]byte("models:\n  - name: TaskTag\n    primary_key: task_id\n    columns: [task_id, tag_id]\n"))
	require.NoError(t, err)

	m, err := reg.Model("TaskTag")
	require.NoError(t, err)
	assert.Equal(t, "task_tags", m.Table)
	assert.Equal(t, "task_id", m.PrimaryKey)
}

func TestTableName(t *testing.T) {
	tests := map[string]string{
		"Task":     "tasks",
		"Reply":    "replies",
		"User":     "users",
		"TaskTag":  "task_tags",
		"Category": "categories",
		"HTTPLog":  "http_logs",
	}
	for in, want := range tests {
		assert.Equal(t, want, TableName(in), in)
	}
}
