package service

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo *sqlite.TaskRepository
	tagRepo  *sqlite.TagRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo *sqlite.TaskRepository, tagRepo *sqlite.TagRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		tagRepo:  tagRepo,
	}
}

// CreateTaskInput contains the input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *domain.TaskStatus
	UserID      *int64
}

// Create creates a new task. The status defaults to TODO.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	task := domain.NewTask(input.Title)
	task.Description = input.Description
	task.UserID = input.UserID
	if input.Status != nil {
		task.Status = *input.Status
	}

	id, err := s.taskRepo.Create(ctx, task.Values())
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return s.Get(ctx, id)
}

// Get retrieves a task by ID with its assignee, tags and replies.
func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.taskRepo.FindDetailed(ctx, id)
	if err != nil {
		return nil, mapError(err, taskNotFound(id), nil)
	}
	return task, nil
}

// ListTasksInput contains the input for listing tasks.
type ListTasksInput struct {
	ID      *int64
	Title   string
	Status  *domain.TaskStatus
	UserID  *int64
	Sort    string
	Order   string
	Page    int
	PerPage int
}

// List retrieves one page of tasks and the total number of matches.
func (s *TaskService) List(ctx context.Context, input ListTasksInput) ([]domain.Task, int, error) {
	f := sqlite.TaskListFilter{
		ID:     input.ID,
		Title:  input.Title,
		UserID: input.UserID,
		Sort:   input.Sort,
		Order:  input.Order,
		Limit:  input.PerPage,
		Offset: (input.Page - 1) * input.PerPage,
	}
	if input.Status != nil {
		f.Status = *input.Status
	}
	tasks, total, err := s.taskRepo.Filtered(ctx, f)
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}
	return tasks, total, nil
}

// Board returns every task matching filter with assignee and tags loaded.
func (s *TaskService) Board(ctx context.Context, filter sqlite.TaskFilter) ([]domain.Task, error) {
	tasks, err := s.taskRepo.FindAllWithRelations(ctx, filter)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return tasks, nil
}

// UpdateTaskInput contains the input for updating a task. Nil fields are
// left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	UserID      *int64
}

// Update updates a task.
func (s *TaskService) Update(ctx context.Context, id int64, input UpdateTaskInput) (*domain.Task, error) {
	data := map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if input.Title != nil {
		data["title"] = *input.Title
	}
	if input.Description != nil {
		data["description"] = *input.Description
	}
	if input.Status != nil {
		data["status"] = string(*input.Status)
	}
	if input.UserID != nil {
		data["user_id"] = *input.UserID
	}

	if err := s.taskRepo.Update(ctx, id, data); err != nil {
		return nil, mapError(err, taskNotFound(id), nil)
	}
	return s.Get(ctx, id)
}

// Delete deletes a task. Its tag links and replies go with it.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return mapError(s.taskRepo.Delete(ctx, id), taskNotFound(id), nil)
}

// AttachTag links the named tag to a task, creating the tag when needed, and
// returns the task's tags.
func (s *TaskService) AttachTag(ctx context.Context, taskID int64, name string) ([]domain.Tag, error) {
	if _, err := s.taskRepo.Find(ctx, taskID); err != nil {
		return nil, mapError(err, taskNotFound(taskID), nil)
	}

	tag, err := s.tagRepo.FindByName(ctx, name)
	var tagID int64
	switch {
	case err == nil:
		tagID = tag.ID
	case isNotFound(err):
		tagID, err = s.tagRepo.Create(ctx, map[string]any{"name": name})
		if err != nil {
			return nil, mapError(err, nil, nil)
		}
	default:
		return nil, mapError(err, nil, nil)
	}

	if err := s.taskRepo.AddTag(ctx, taskID, tagID); err != nil {
		return nil, mapError(err, nil, nil)
	}
	return s.Tags(ctx, taskID)
}

// DetachTag unlinks a tag from a task.
func (s *TaskService) DetachTag(ctx context.Context, taskID, tagID int64) error {
	err := s.taskRepo.RemoveTag(ctx, taskID, tagID)
	return mapError(err, func() *domain.DomainError { return domain.NewTagNotFoundError(tagID) }, nil)
}

// Tags returns the tags of a task.
func (s *TaskService) Tags(ctx context.Context, taskID int64) ([]domain.Tag, error) {
	tags, err := s.tagRepo.ForTask(ctx, taskID)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return tags, nil
}
