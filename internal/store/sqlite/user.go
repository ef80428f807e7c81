package sqlite

import (
	"context"
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/dql"
	"github.com/taskdesk/taskdesk/internal/repository"
	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/store"
)

// UserFilter selects users for Filtered. Zero values do not filter.
type UserFilter struct {
	Role   domain.UserRole
	Active *bool
}

// UserRepository handles user persistence operations.
type UserRepository struct {
	*repository.Repository[domain.User, *domain.User]
	db *store.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *store.DB, reg *schema.Registry) (*UserRepository, error) {
	repo, err := repository.New[domain.User](reg, "User", db)
	if err != nil {
		return nil, err
	}
	return &UserRepository{Repository: repo, db: db}, nil
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FirstWhere(ctx, "email", email)
}

// FindByRole returns every user with the given role.
func (r *UserRepository) FindByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	return r.Where(ctx, "role", string(role))
}

// FindActive returns every user that may log in.
func (r *UserRepository) FindActive(ctx context.Context) ([]domain.User, error) {
	return r.Where(ctx, "is_active", 1)
}

// Filtered returns the users matching every set field of f, ordered by id.
func (r *UserRepository) Filtered(ctx context.Context, f UserFilter) ([]domain.User, error) {
	q := r.Select()
	if f.Role != "" {
		q.Equals("role", string(f.Role))
	}
	if f.Active != nil {
		active := 0
		if *f.Active {
			active = 1
		}
		q.Equals("is_active", active)
	}
	if q.Stage() == dql.StageTableDefinition {
		q.WithoutConditions()
	}
	return r.Scan(ctx, r.Group(q).Order("id", "ASC"))
}

// Credentials returns the id and password hash of the user with the given
// email. The hash is never loaded by the other lookups.
func (r *UserRepository) Credentials(ctx context.Context, email string) (int64, string, error) {
	q := dql.Select("users").
		SetField("id").
		SetField("password").
		From().
		Equals("email", email)
	query, args, err := q.Build()
	if err != nil {
		return 0, "", fmt.Errorf("build credentials lookup: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return 0, "", err
	}
	if len(rows) == 0 {
		return 0, "", repository.ErrNotFound
	}
	id, err := repository.ToInt64(rows[0]["id"])
	if err != nil {
		return 0, "", err
	}
	return id, repository.ToString(rows[0]["password"]), nil
}
