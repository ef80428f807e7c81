package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

// UserService handles user accounts.
type UserService struct {
	userRepo *sqlite.UserRepository
	cost     int
}

// NewUserService creates a new UserService. A cost of zero uses
// bcrypt.DefaultCost.
func NewUserService(userRepo *sqlite.UserRepository, cost int) *UserService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{userRepo: userRepo, cost: cost}
}

// RegisterInput contains the input for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
}

// Register creates an active account with a hashed password. The role
// defaults to USER.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	user := &domain.User{
		Email:     strings.ToLower(input.Email),
		Name:      input.Name,
		Role:      input.Role,
		IsActive:  true,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	id, err := s.userRepo.Create(ctx, user.Values())
	if err != nil {
		return nil, mapError(err, nil, func() *domain.DomainError {
			return domain.NewConflictError("User", "email", user.Email)
		})
	}
	user.ID = id
	user.Password = ""
	return user, nil
}

// Authenticate checks an email and password pair and returns the account.
// Unknown emails, wrong passwords and inactive accounts fail alike.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	id, hash, err := s.userRepo.Credentials(ctx, strings.ToLower(email))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewInvalidCredentialsError()
		}
		return nil, mapError(err, nil, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.NewInvalidCredentialsError()
		}
		return nil, domain.NewInternalError(err)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.NewInvalidCredentialsError()
	}
	return user, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.Find(ctx, id)
	if err != nil {
		return nil, mapError(err, func() *domain.DomainError { return domain.NewUserNotFoundError(id) }, nil)
	}
	return user, nil
}

// ListUsersInput filters List. Zero values do not filter.
type ListUsersInput struct {
	Role   domain.UserRole
	Active *bool
}

// List returns the users matching input.
func (s *UserService) List(ctx context.Context, input ListUsersInput) ([]domain.User, error) {
	var (
		users []domain.User
		err   error
	)
	switch {
	case input.Role == "" && input.Active == nil:
		users, err = s.userRepo.FindAll(ctx)
	case input.Active == nil:
		users, err = s.userRepo.FindByRole(ctx, input.Role)
	case input.Role == "" && *input.Active:
		users, err = s.userRepo.FindActive(ctx)
	default:
		users, err = s.userRepo.Filtered(ctx, sqlite.UserFilter{Role: input.Role, Active: input.Active})
	}
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return users, nil
}

// UpdateUserInput contains the input for updating an account. Nil fields
// are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *domain.UserRole
	IsActive *bool
}

// Update edits an account. The email must not belong to another user.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	data := map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if input.Name != nil {
		data["name"] = *input.Name
	}
	if input.Email != nil {
		email := strings.ToLower(*input.Email)
		other, err := s.userRepo.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != id:
			return nil, domain.NewConflictError("User", "email", email)
		case err != nil && !isNotFound(err):
			return nil, mapError(err, nil, nil)
		}
		data["email"] = email
	}
	if input.Role != nil {
		data["role"] = string(*input.Role)
	}
	if input.IsActive != nil {
		active := 0
		if *input.IsActive {
			active = 1
		}
		data["is_active"] = active
	}

	notFound := func() *domain.DomainError { return domain.NewUserNotFoundError(id) }
	if err := s.userRepo.Update(ctx, id, data); err != nil {
		return nil, mapError(err, notFound, func() *domain.DomainError {
			return domain.NewConflictError("User", "email", data["email"])
		})
	}
	return s.Get(ctx, id)
}
