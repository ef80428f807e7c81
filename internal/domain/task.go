package domain

import (
	"time"

	"github.com/taskdesk/taskdesk/internal/repository"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReady      TaskStatus = "READY"
	StatusForReview  TaskStatus = "FOR_REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// ValidStatuses contains all valid task status values.
var ValidStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReady, StatusForReview, StatusDone}

// IsValid checks if the status is a valid task status.
func (s TaskStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Task represents a unit of work in the system.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	UserID      *int64     `json:"user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Eager-loaded relations.
	User    *User   `json:"user,omitempty"`
	Tags    []Tag   `json:"tags,omitempty"`
	Replies []Reply `json:"replies,omitempty"`
}

// NewTask creates a new task with the given title and default values.
// Default status is StatusTodo.
func NewTask(title string) *Task {
	now := time.Now().UTC().Truncate(time.Second)
	return &Task{
		Title:     title,
		Status:    StatusTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetDescription sets the task description.
func (t *Task) SetDescription(desc string) {
	t.Description = &desc
}

// SetUserID assigns the task to a user.
func (t *Task) SetUserID(id int64) {
	t.UserID = &id
}

// Assign fills the task from a record, including eager-loaded users, tags
// and replies.
func (t *Task) Assign(rec repository.Record) error {
	f := fields{rec: rec}
	t.ID = f.integer("id")
	t.Title = f.text("title")
	t.Description = f.nullText("description")
	t.Status = TaskStatus(f.text("status"))
	t.UserID = f.nullInteger("user_id")
	t.CreatedAt = f.timestamp("created_at")
	t.UpdatedAt = f.timestamp("updated_at")
	if f.err != nil {
		return f.err
	}

	if sub := repository.Nested(rec["users"]); sub != nil {
		t.User = &User{}
		if err := t.User.Assign(sub); err != nil {
			return err
		}
	}
	if items, ok := rec["tags"]; ok {
		t.Tags = make([]Tag, 0)
		for _, item := range repository.Records(items) {
			var tag Tag
			if err := tag.Assign(item); err != nil {
				return err
			}
			t.Tags = append(t.Tags, tag)
		}
	}
	if items, ok := rec["replies"]; ok {
		t.Replies = make([]Reply, 0)
		for _, item := range repository.Records(items) {
			var r Reply
			if err := r.Assign(item); err != nil {
				return err
			}
			t.Replies = append(t.Replies, r)
		}
	}
	return nil
}

// Values returns the persisted columns of the task.
func (t *Task) Values() map[string]any {
	return map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"user_id":     t.UserID,
		"created_at":  formatTime(t.CreatedAt),
		"updated_at":  formatTime(t.UpdatedAt),
	}
}
