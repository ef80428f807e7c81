package service

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

// ReplyService handles replies on tasks.
type ReplyService struct {
	replyRepo *sqlite.ReplyRepository
	taskRepo  *sqlite.TaskRepository
}

// NewReplyService creates a new ReplyService.
func NewReplyService(replyRepo *sqlite.ReplyRepository, taskRepo *sqlite.TaskRepository) *ReplyService {
	return &ReplyService{replyRepo: replyRepo, taskRepo: taskRepo}
}

// ListForTask returns the replies of a task, oldest first.
func (s *ReplyService) ListForTask(ctx context.Context, taskID int64) ([]domain.Reply, error) {
	if _, err := s.taskRepo.Find(ctx, taskID); err != nil {
		return nil, mapError(err, taskNotFound(taskID), nil)
	}
	replies, err := s.replyRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return replies, nil
}

// CreateReplyInput contains the input for replying to a task.
type CreateReplyInput struct {
	Text   string
	UserID *int64
}

// Create adds a reply to a task.
func (s *ReplyService) Create(ctx context.Context, taskID int64, input CreateReplyInput) (*domain.Reply, error) {
	if _, err := s.taskRepo.Find(ctx, taskID); err != nil {
		return nil, mapError(err, taskNotFound(taskID), nil)
	}

	now := time.Now().UTC().Truncate(time.Second)
	reply := &domain.Reply{
		Text:      input.Text,
		TaskID:    taskID,
		UserID:    input.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.replyRepo.Create(ctx, reply.Values())
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	reply.ID = id
	return reply, nil
}
