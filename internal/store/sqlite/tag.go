package sqlite

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/dql"
	"github.com/taskdesk/taskdesk/internal/repository"
	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/store"
)

// TagRepository handles tag persistence operations.
type TagRepository struct {
	*repository.Repository[domain.Tag, *domain.Tag]
	db *store.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *store.DB, reg *schema.Registry) (*TagRepository, error) {
	repo, err := repository.New[domain.Tag](reg, "Tag", db)
	if err != nil {
		return nil, err
	}
	return &TagRepository{Repository: repo, db: db}, nil
}

// FindByName returns the tag with the given name.
func (r *TagRepository) FindByName(ctx context.Context, name string) (*domain.Tag, error) {
	return r.FirstWhere(ctx, "name", name)
}

// ForTask returns the tags linked to a task ordered by name.
func (r *TagRepository) ForTask(ctx context.Context, taskID int64) ([]domain.Tag, error) {
	q := r.Select().
		Join(dql.OneToManyOf("task_tags", "tag_id"), dql.InnerJoinType).
		SetSelectedField("task_tags", "task_id", "").
		Equals("task_id", taskID, "task_tags").
		WithoutGrouping().
		Order("name", "ASC")
	return r.Scan(ctx, q)
}

// Popular returns the tags used by at least one task, most used first, with
// UsageCount set.
func (r *TagRepository) Popular(ctx context.Context, limit int) ([]domain.Tag, error) {
	q := r.Select().
		Join(dql.OneToManyOf("task_tags", "tag_id"), dql.LeftJoinType).
		WithoutConditions().
		Group("", "id").
		SetSelectedField("task_tags", "task_id", "usage_count", dql.Count).
		Having(dql.Count, "task_tags", "task_id", dql.Greater, 0).
		OrderByAlias("usage_count", "DESC").
		Order("name", "ASC").
		Limit(limit)
	return r.Scan(ctx, q)
}

// CreateMany creates every named tag in one transaction and returns their
// ids in order. Nothing is created when one insert fails.
func (r *TagRepository) CreateMany(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	err := r.db.WithTx(ctx, func(tx *store.Tx) error {
		repo := r.WithExecutor(tx)
		for _, name := range names {
			id, err := repo.Create(ctx, map[string]any{"name": name})
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
