package sqlite

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/dql"
	"github.com/taskdesk/taskdesk/internal/repository"
	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/store"
)

// ReplyRepository handles reply persistence operations.
type ReplyRepository struct {
	*repository.Repository[domain.Reply, *domain.Reply]
}

// NewReplyRepository creates a new ReplyRepository.
func NewReplyRepository(db *store.DB, reg *schema.Registry) (*ReplyRepository, error) {
	repo, err := repository.New[domain.Reply](reg, "Reply", db)
	if err != nil {
		return nil, err
	}
	return &ReplyRepository{Repository: repo}, nil
}

// FindByTaskID returns the replies of a task, oldest first, with their
// author loaded.
func (r *ReplyRepository) FindByTaskID(ctx context.Context, taskID int64) ([]domain.Reply, error) {
	repo := r.With(dql.ManyToOneOf("users", "user_id"))
	q := repo.Select().Equals("task_id", taskID)
	q = repo.Group(q).Order("created_at", "ASC").Order("id", "ASC")
	return repo.Scan(ctx, q)
}
