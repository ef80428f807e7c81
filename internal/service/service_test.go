package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

type services struct {
	tasks   *TaskService
	tags    *TagService
	replies *ReplyService
	users   *UserService
}

func setup(t *testing.T) *services {
	t.Helper()
	db, err := store.Open(store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg, err := schema.Default()
	require.NoError(t, err)
	repos, err := sqlite.New(db, reg)
	require.NoError(t, err)

	return &services{
		tasks:   NewTaskService(repos.Tasks, repos.Tags),
		tags:    NewTagService(repos.Tags),
		replies: NewReplyService(repos.Replies, repos.Tasks),
		users:   NewUserService(repos.Users, bcrypt.MinCost),
	}
}

func requireCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var de *domain.DomainError
	require.True(t, errors.As(err, &de), "expected a DomainError, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestTaskService_CreateGetUpdateDelete(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	task, err := s.tasks.Create(ctx, CreateTaskInput{Title: "Write tests"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, task.Status)
	assert.NotZero(t, task.ID)
	assert.Empty(t, task.Tags)

	status := domain.StatusInProgress
	title := "Write more tests"
	updated, err := s.tasks.Update(ctx, task.ID, UpdateTaskInput{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, status, updated.Status)

	require.NoError(t, s.tasks.Delete(ctx, task.ID))
	_, err = s.tasks.Get(ctx, task.ID)
	requireCode(t, err, domain.ErrCodeTaskNotFound)
	requireCode(t, s.tasks.Delete(ctx, task.ID), domain.ErrCodeTaskNotFound)
	_, err = s.tasks.Update(ctx, task.ID, UpdateTaskInput{Title: &title})
	requireCode(t, err, domain.ErrCodeTaskNotFound)
}

func TestTaskService_InvalidReferences(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	missing := int64(42)
	_, err := s.tasks.Create(ctx, CreateTaskInput{Title: "Orphan", UserID: &missing})
	requireCode(t, err, domain.ErrCodeInvalidReference)

	bad := domain.TaskStatus("LATER")
	_, err = s.tasks.Create(ctx, CreateTaskInput{Title: "Bad", Status: &bad})
	requireCode(t, err, domain.ErrCodeValidationFailed)
}

func TestTaskService_ListAndBoard(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.tasks.Create(ctx, CreateTaskInput{Title: title})
		require.NoError(t, err)
	}
	_, err := s.tasks.AttachTag(ctx, 2, "urgent")
	require.NoError(t, err)

	tasks, total, err := s.tasks.List(ctx, ListTasksInput{Sort: "id", Order: "asc", Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "three", tasks[0].Title)

	board, err := s.tasks.Board(ctx, sqlite.TaskFilter{Tag: "urgent"})
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "two", board[0].Title)

	_, _, err = s.tasks.List(ctx, ListTasksInput{Sort: "secret", Page: 1, PerPage: 10})
	requireCode(t, err, domain.ErrCodeValidationFailed)
}

func TestTaskService_Tags(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	task, err := s.tasks.Create(ctx, CreateTaskInput{Title: "Tagged"})
	require.NoError(t, err)

	tags, err := s.tasks.AttachTag(ctx, task.ID, "backend")
	require.NoError(t, err)
	require.Len(t, tags, 1)

	tags, err = s.tasks.AttachTag(ctx, task.ID, "backend")
	require.NoError(t, err)
	assert.Len(t, tags, 1, "attaching twice keeps one link")

	_, err = s.tasks.AttachTag(ctx, 999, "backend")
	requireCode(t, err, domain.ErrCodeTaskNotFound)

	require.NoError(t, s.tasks.DetachTag(ctx, task.ID, tags[0].ID))
	requireCode(t, s.tasks.DetachTag(ctx, task.ID, tags[0].ID), domain.ErrCodeTagNotFound)

	all, err := s.tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "detaching keeps the tag")
}

func TestTagService(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	tags, err := s.tags.Create(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "b", tags[1].Name)

	_, err = s.tags.Create(ctx, []string{"c", "a"})
	requireCode(t, err, domain.ErrCodeConflict)

	_, err = s.tags.Get(ctx, 999)
	requireCode(t, err, domain.ErrCodeTagNotFound)

	task, err := s.tasks.Create(ctx, CreateTaskInput{Title: "x"})
	require.NoError(t, err)
	_, err = s.tasks.AttachTag(ctx, task.ID, "b")
	require.NoError(t, err)

	popular, err := s.tags.Popular(ctx, 0)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, "b", popular[0].Name)
}

func TestReplyService(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	user, err := s.users.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	task, err := s.tasks.Create(ctx, CreateTaskInput{Title: "Discuss"})
	require.NoError(t, err)

	reply, err := s.replies.Create(ctx, task.ID, CreateReplyInput{Text: "Agreed", UserID: &user.ID})
	require.NoError(t, err)
	assert.NotZero(t, reply.ID)

	replies, err := s.replies.ListForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.NotNil(t, replies[0].Author)
	assert.Equal(t, "Ann", replies[0].Author.Name)

	_, err = s.replies.ListForTask(ctx, 999)
	requireCode(t, err, domain.ErrCodeTaskNotFound)
	_, err = s.replies.Create(ctx, 999, CreateReplyInput{Text: "?"})
	requireCode(t, err, domain.ErrCodeTaskNotFound)
}

func TestUserService(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	user, err := s.users.Register(ctx, RegisterInput{Name: "Ann", Email: "Ann@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.Password)

	_, err = s.users.Register(ctx, RegisterInput{Name: "Ann 2", Email: "ann@example.com", Password: "secret2"})
	requireCode(t, err, domain.ErrCodeConflict)

	got, err := s.users.Authenticate(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.users.Authenticate(ctx, "ann@example.com", "wrong")
	requireCode(t, err, domain.ErrCodeInvalidCredentials)
	_, err = s.users.Authenticate(ctx, "nobody@example.com", "secret1")
	requireCode(t, err, domain.ErrCodeInvalidCredentials)

	_, err = s.users.Get(ctx, 999)
	requireCode(t, err, domain.ErrCodeUserNotFound)

	admins, err := s.users.List(ctx, ListUsersInput{Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Empty(t, admins)
	all, err := s.users.List(ctx, ListUsersInput{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserService_Update(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	ann, err := s.users.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	bob, err := s.users.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	name := "Annie"
	email := "Annie@Example.com"
	role := domain.RoleModerator
	inactive := false
	updated, err := s.users.Update(ctx, ann.ID, UpdateUserInput{Name: &name, Email: &email, Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, "annie@example.com", updated.Email)
	assert.Equal(t, domain.RoleModerator, updated.Role)
	assert.False(t, updated.IsActive)

	// Keeping one's own email is not a conflict.
	_, err = s.users.Update(ctx, ann.ID, UpdateUserInput{Email: &updated.Email})
	require.NoError(t, err)

	taken := "bob@example.com"
	_, err = s.users.Update(ctx, ann.ID, UpdateUserInput{Email: &taken})
	requireCode(t, err, domain.ErrCodeConflict)

	_, err = s.users.Update(ctx, 999, UpdateUserInput{Name: &name})
	requireCode(t, err, domain.ErrCodeUserNotFound)

	_, err = s.users.Authenticate(ctx, "annie@example.com", "secret1")
	requireCode(t, err, domain.ErrCodeInvalidCredentials)

	active := true
	users, err := s.users.List(ctx, ListUsersInput{Active: &active})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)

	users, err = s.users.List(ctx, ListUsersInput{Active: &inactive})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, ann.ID, users[0].ID)

	users, err = s.users.List(ctx, ListUsersInput{Role: domain.RoleModerator, Active: &active})
	require.NoError(t, err)
	assert.Empty(t, users)
}
