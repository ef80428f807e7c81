package domain

import (
	"time"

	"github.com/taskdesk/taskdesk/internal/repository"
)

// Reply is a comment on a task.
type Reply struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	TaskID    int64     `json:"task_id"`
	UserID    *int64    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is eager-loaded from users.
	Author *User `json:"author,omitempty"`
}

// Assign fills the reply from a record.
func (r *Reply) Assign(rec repository.Record) error {
	f := fields{rec: rec}
	r.ID = f.integer("id")
	r.Text = f.text("text")
	r.TaskID = f.integer("task_id")
	r.UserID = f.nullInteger("user_id")
	r.CreatedAt = f.timestamp("created_at")
	r.UpdatedAt = f.timestamp("updated_at")
	if f.err != nil {
		return f.err
	}

	if sub := repository.Nested(rec["users"]); sub != nil {
		r.Author = &User{}
		return r.Author.Assign(sub)
	}
	return nil
}

// Values returns the persisted columns of the reply.
func (r *Reply) Values() map[string]any {
	return map[string]any{
		"text":       r.Text,
		"task_id":    r.TaskID,
		"user_id":    r.UserID,
		"created_at": formatTime(r.CreatedAt),
		"updated_at": formatTime(r.UpdatedAt),
	}
}
