package domain

import "github.com/taskdesk/taskdesk/internal/repository"

// Tag labels tasks.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// UsageCount is only loaded by popularity queries.
	UsageCount *int64 `json:"usage_count,omitempty"`
}

// Assign fills the tag from a record.
func (t *Tag) Assign(rec repository.Record) error {
	f := fields{rec: rec}
	t.ID = f.integer("id")
	t.Name = f.text("name")
	t.UsageCount = f.nullInteger("usage_count")
	return f.err
}

// Values returns the persisted columns of the tag.
func (t *Tag) Values() map[string]any {
	return map[string]any{"name": t.Name}
}
