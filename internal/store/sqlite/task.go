package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/dql"
	"github.com/taskdesk/taskdesk/internal/repository"
	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/store"
)

// SortableTaskColumns are the columns task listings may be ordered by.
var SortableTaskColumns = []string{"id", "title", "status", "created_at", "updated_at", "user_id"}

// TaskFilter selects tasks for FindAllWithRelations. Zero values do not
// filter.
type TaskFilter struct {
	UserID *int64
	Status domain.TaskStatus
	Tag    string
	Sort   string
	Order  string
}

// TaskListFilter selects a page of tasks for Filtered.
type TaskListFilter struct {
	ID     *int64
	Title  string
	Status domain.TaskStatus
	UserID *int64
	Sort   string
	Order  string
	Limit  int
	Offset int
}

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	*repository.Repository[domain.Task, *domain.Task]
	db *store.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *store.DB, reg *schema.Registry) (*TaskRepository, error) {
	repo, err := repository.New[domain.Task](reg, "Task", db)
	if err != nil {
		return nil, err
	}
	return &TaskRepository{Repository: repo, db: db}, nil
}

func taskUser() dql.Relation { return dql.ManyToOneOf("users", "user_id") }

func taskTags() dql.Relation {
	return dql.NewManyToMany("tags", "task_tags", "task_id", "tag_id")
}

func taskReplies() dql.Relation { return dql.OneToManyOf("replies", "task_id") }

// FindAllWithRelations returns tasks with their assignee and tags loaded,
// filtered by assignee, status and tag. A tag filter keeps the full tag list
// of every matching task.
func (r *TaskRepository) FindAllWithRelations(ctx context.Context, f TaskFilter) ([]domain.Task, error) {
	repo, q, err := r.board(ctx, f)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return []domain.Task{}, nil
	}
	return repo.Scan(ctx, q)
}

// BoardSQL returns the statement FindAllWithRelations runs for f without
// running it. The tag lookup still runs; an unknown tag yields an empty
// statement.
func (r *TaskRepository) BoardSQL(ctx context.Context, f TaskFilter) (string, []any, error) {
	_, q, err := r.board(ctx, f)
	if err != nil || q == nil {
		return "", nil, err
	}
	return q.Build()
}

// board builds the listing query. A nil query means no task can match.
func (r *TaskRepository) board(ctx context.Context, f TaskFilter) (*repository.Repository[domain.Task, *domain.Task], *dql.Query, error) {
	sort, err := sortColumn(f.Sort)
	if err != nil {
		return nil, nil, err
	}

	var tagged []any
	if f.Tag != "" {
		tagged, err = r.taskIDsWithTag(ctx, f.Tag)
		if err != nil {
			return nil, nil, err
		}
		if len(tagged) == 0 {
			return nil, nil, nil
		}
	}

	repo := r.With(taskUser(), taskTags())
	q := repo.Select()
	filtered := false
	if f.UserID != nil {
		q.Equals("user_id", *f.UserID)
		filtered = true
	}
	if f.Status != "" {
		q.Equals("status", string(f.Status))
		filtered = true
	}
	if tagged != nil {
		q.In("id", tagged)
		filtered = true
	}
	if !filtered {
		q.WithoutConditions()
	}
	return repo, repo.Group(q).Order(sort, f.Order), nil
}

func (r *TaskRepository) taskIDsWithTag(ctx context.Context, tag string) ([]any, error) {
	q := dql.Select("task_tags", "tt").
		SetField("task_id").
		From().
		InnerJoin("tags", "tg", "tag_id").
		Equals("name", tag, "tags")
	query, args, err := q.Build()
	if err != nil {
		return nil, fmt.Errorf("build tag lookup: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row["task_id"])
	}
	return ids, nil
}

// FindDetailed returns one task with assignee, tags and replies loaded.
func (r *TaskRepository) FindDetailed(ctx context.Context, id int64) (*domain.Task, error) {
	return r.With(taskUser(), taskTags(), taskReplies()).Find(ctx, id)
}

// Filtered returns one page of tasks and the number of tasks matching the
// filter across all pages.
func (r *TaskRepository) Filtered(ctx context.Context, f TaskListFilter) ([]domain.Task, int, error) {
	sort, err := sortColumn(f.Sort)
	if err != nil {
		return nil, 0, err
	}

	cond := func(q *dql.Query) *dql.Query {
		if f.ID != nil {
			q.Equals("id", *f.ID)
		}
		if f.Title != "" {
			q.IsLike("title", f.Title, dql.LikeContains)
		}
		if f.Status != "" {
			q.Equals("status", string(f.Status))
		}
		if f.UserID != nil {
			q.Equals("user_id", *f.UserID)
		}
		return q
	}

	total, err := r.CountBy(ctx, cond)
	if err != nil {
		return nil, 0, err
	}

	repo := r.With(taskUser())
	q := cond(repo.Select())
	if q.Stage() == dql.StageTableDefinition {
		q.WithoutConditions()
	}
	q = repo.Group(q).Order(sort, f.Order)
	if f.Limit > 0 {
		q.Limit(f.Limit, f.Offset)
	}
	tasks, err := repo.Scan(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// AddTag links a tag to a task. Linking twice is not an error.
func (r *TaskRepository) AddTag(ctx context.Context, taskID, tagID int64) error {
	q := dql.Insert("task_tags").SetField("task_id", taskID).SetField("tag_id", tagID).From()
	query, args, err := q.Build()
	if err != nil {
		return fmt.Errorf("build tag link: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil && !errors.Is(err, store.ErrConflict) {
		return err
	}
	return nil
}

// RemoveTag unlinks a tag from a task. It returns repository.ErrNoEffect
// when the tag was not linked.
func (r *TaskRepository) RemoveTag(ctx context.Context, taskID, tagID int64) error {
	q := dql.Delete("task_tags").Equals("task_id", taskID).AndEquals("tag_id", tagID)
	query, args, err := q.Build()
	if err != nil {
		return fmt.Errorf("build tag unlink: %w", err)
	}
	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNoEffect
	}
	return nil
}

func sortColumn(name string) (string, error) {
	if name == "" {
		return "created_at", nil
	}
	for _, c := range SortableTaskColumns {
		if c == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: cannot sort by %q", repository.ErrUnknownColumn, name)
}
