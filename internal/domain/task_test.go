package domain

import (
	"testing"
	"time"

	"github.com/taskdesk/taskdesk/internal/repository"
)

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status TaskStatus
		want   bool
	}{
		{"StatusTodo is valid", StatusTodo, true},
		{"StatusInProgress is valid", StatusInProgress, true},
		{"StatusReady is valid", StatusReady, true},
		{"StatusForReview is valid", StatusForReview, true},
		{"StatusDone is valid", StatusDone, true},
		{"empty string is invalid", TaskStatus(""), false},
		{"random string is invalid", TaskStatus("random"), false},
		{"lowercase is invalid", TaskStatus("todo"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("TaskStatus.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewTask(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	task := NewTask("Write docs")

	if task.Title != "Write docs" {
		t.Errorf("Title = %v, want %v", task.Title, "Write docs")
	}
	if task.Status != StatusTodo {
		t.Errorf("Status = %v, want %v", task.Status, StatusTodo)
	}
	if task.CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want after %v", task.CreatedAt, before)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("CreatedAt %v and UpdatedAt %v should match", task.CreatedAt, task.UpdatedAt)
	}
	if task.Description != nil || task.UserID != nil {
		t.Error("optional fields should be nil")
	}
}

func TestTask_Assign(t *testing.T) {
	rec := repository.Record{
		"id":          int64(7),
		"title":       "Fix login",
		"description": "Users cannot log in",
		"status":      "IN_PROGRESS",
		"user_id":     int64(5),
		"created_at":  "2024-03-01T10:00:00Z",
		"updated_at":  "2024-03-02T11:30:00Z",
		"users": repository.Record{
			"id":        int64(5),
			"email":     "ann@example.com",
			"name":      "Ann",
			"role":      "ADMIN",
			"is_active": int64(1),
		},
		"tags": []repository.Record{
			{"id": int64(1), "name": "bug"},
			{"id": int64(2), "name": "auth"},
		},
	}

	var task Task
	if err := task.Assign(rec); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if task.ID != 7 || task.Title != "Fix login" || task.Status != StatusInProgress {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Description == nil || *task.Description != "Users cannot log in" {
		t.Errorf("Description = %v", task.Description)
	}
	if task.UserID == nil || *task.UserID != 5 {
		t.Errorf("UserID = %v, want 5", task.UserID)
	}
	want := time.Date(2024, 3, 2, 11, 30, 0, 0, time.UTC)
	if !task.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", task.UpdatedAt, want)
	}
	if task.User == nil || task.User.Name != "Ann" || !task.User.IsActive {
		t.Errorf("User = %+v", task.User)
	}
	if len(task.Tags) != 2 || task.Tags[1].Name != "auth" {
		t.Errorf("Tags = %+v", task.Tags)
	}
	if task.Replies != nil {
		t.Errorf("Replies should stay nil when not loaded, got %+v", task.Replies)
	}
}

func TestTask_AssignNullRelations(t *testing.T) {
	rec := repository.Record{
		"id":         int64(1),
		"title":      "Orphan",
		"status":     "TODO",
		"user_id":    nil,
		"created_at": "2024-03-01T10:00:00Z",
		"updated_at": "2024-03-01T10:00:00Z",
		"users":      nil,
		"tags":       []repository.Record{},
	}

	var task Task
	if err := task.Assign(rec); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if task.User != nil {
		t.Errorf("User = %+v, want nil", task.User)
	}
	if task.Tags == nil || len(task.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty slice", task.Tags)
	}
}

func TestTask_AssignBadTimestamp(t *testing.T) {
	var task Task
	err := task.Assign(repository.Record{"id": int64(1), "created_at": "yesterday"})
	if err == nil {
		t.Fatal("Assign() should fail on a malformed timestamp")
	}
}

func TestTask_Values(t *testing.T) {
	task := NewTask("Ship it")
	task.SetUserID(3)
	task.SetDescription("soon")
	task.CreatedAt = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	v := task.Values()
	if v["status"] != "TODO" {
		t.Errorf("status = %v, want TODO", v["status"])
	}
	if v["created_at"] != "2024-01-15T10:00:00Z" {
		t.Errorf("created_at = %v", v["created_at"])
	}
	if id, ok := v["user_id"].(*int64); !ok || *id != 3 {
		t.Errorf("user_id = %v", v["user_id"])
	}
	if _, ok := v["id"]; ok {
		t.Error("Values() must not contain the primary key")
	}
}
