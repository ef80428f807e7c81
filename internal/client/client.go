// Package client is a Go client for the taskdesk HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taskdesk/taskdesk/internal/api/middleware"
	"github.com/taskdesk/taskdesk/internal/api/request"
	"github.com/taskdesk/taskdesk/internal/api/response"
	"github.com/taskdesk/taskdesk/internal/domain"
)

// Client is an HTTP client for the taskdesk API.
type Client struct {
	baseURL   string
	http      *http.Client
	requestID func() string
}

// Option configures NewClient.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRequestID sets a generator for the X-Request-ID header sent with each
// request. Without it the server assigns one.
func WithRequestID(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

// NewClient creates a client for the server at addr, given either as a URL
// or as host:port.
func NewClient(addr string, opts ...Option) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	c := &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server URL requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// TaskList is one page of tasks.
type TaskList struct {
	Data       []domain.Task           `json:"data"`
	Pagination response.PaginationMeta `json:"pagination"`
}

// ListOptions filters ListTasks. Zero values do not filter.
type ListOptions struct {
	Status  domain.TaskStatus
	Title   string
	UserID  *int64
	Sort    string
	Order   string
	Page    int
	PerPage int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Status != "" {
		v.Set("status", string(o.Status))
	}
	if o.Title != "" {
		v.Set("title", o.Title)
	}
	if o.UserID != nil {
		v.Set("user_id", strconv.FormatInt(*o.UserID, 10))
	}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(o.PerPage))
	}
	return v
}

// BoardOptions filters Board. Zero values do not filter.
type BoardOptions struct {
	Status domain.TaskStatus
	UserID *int64
	Tag    string
	Sort   string
	Order  string
}

func (o BoardOptions) values() url.Values {
	v := url.Values{}
	if o.Status != "" {
		v.Set("status", string(o.Status))
	}
	if o.UserID != nil {
		v.Set("user_id", strconv.FormatInt(*o.UserID, 10))
	}
	if o.Tag != "" {
		v.Set("tag", o.Tag)
	}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}
	return v
}

// =============================================================================
// Health
// =============================================================================

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/v1/health", nil, http.StatusOK, nil)
	if err != nil && !isTransport(err) {
		return ErrServerUnhealthy
	}
	return err
}

// =============================================================================
// Tasks
// =============================================================================

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, req request.CreateTaskRequest) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPost, "/v1/tasks", req, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask returns a task with assignee, tags and replies.
func (c *Client) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id, ""), nil, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns one page of tasks.
func (c *Client) ListTasks(ctx context.Context, opts ListOptions) (*TaskList, error) {
	var list TaskList
	if err := c.do(ctx, http.MethodGet, withQuery("/v1/tasks", opts.values()), nil, http.StatusOK, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Board returns every matching task with assignee and tags.
func (c *Client) Board(ctx context.Context, opts BoardOptions) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, withQuery("/v1/board", opts.values()), nil, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id int64, req request.UpdateTaskRequest) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id, ""), req, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id, ""), nil, http.StatusNoContent, nil)
}

// =============================================================================
// Task tags and replies
// =============================================================================

// TaskTags returns the tags of a task.
func (c *Client) TaskTags(ctx context.Context, taskID int64) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := c.do(ctx, http.MethodGet, taskPath(taskID, "/tags"), nil, http.StatusOK, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// AttachTag tags a task by name, creating the tag if needed, and returns the
// task's tags.
func (c *Client) AttachTag(ctx context.Context, taskID int64, name string) ([]domain.Tag, error) {
	var tags []domain.Tag
	body := request.AttachTagRequest{Name: name}
	if err := c.do(ctx, http.MethodPost, taskPath(taskID, "/tags"), body, http.StatusOK, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// DetachTag removes a tag from a task.
func (c *Client) DetachTag(ctx context.Context, taskID, tagID int64) error {
	path := taskPath(taskID, "/tags/"+strconv.FormatInt(tagID, 10))
	return c.do(ctx, http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// Replies returns the replies of a task, oldest first.
func (c *Client) Replies(ctx context.Context, taskID int64) ([]domain.Reply, error) {
	var replies []domain.Reply
	if err := c.do(ctx, http.MethodGet, taskPath(taskID, "/replies"), nil, http.StatusOK, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// Reply adds a reply to a task.
func (c *Client) Reply(ctx context.Context, taskID int64, req request.CreateReplyRequest) (*domain.Reply, error) {
	var reply domain.Reply
	if err := c.do(ctx, http.MethodPost, taskPath(taskID, "/replies"), req, http.StatusCreated, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// =============================================================================
// Tags
// =============================================================================

// Tags returns every tag.
func (c *Client) Tags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := c.do(ctx, http.MethodGet, "/v1/tags", nil, http.StatusOK, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTags creates tags in one transaction.
func (c *Client) CreateTags(ctx context.Context, names ...string) ([]domain.Tag, error) {
	var tags []domain.Tag
	body := request.CreateTagsRequest{Names: names}
	if err := c.do(ctx, http.MethodPost, "/v1/tags", body, http.StatusCreated, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// PopularTags returns the most used tags with their usage counts. A limit
// of zero uses the server default.
func (c *Client) PopularTags(ctx context.Context, limit int) ([]domain.Tag, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var tags []domain.Tag
	if err := c.do(ctx, http.MethodGet, withQuery("/v1/tags/popular", v), nil, http.StatusOK, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// =============================================================================
// Users
// =============================================================================

// Register creates an account.
func (c *Client) Register(ctx context.Context, req request.RegisterRequest) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/v1/users", req, http.StatusCreated, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and returns the account.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User
	body := request.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/v1/login", body, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser returns an account.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to an account.
func (c *Client) UpdateUser(ctx context.Context, id int64, req request.UpdateUserRequest) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPatch, userPath(id), req, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Users lists accounts. An empty role and a nil active do not filter.
func (c *Client) Users(ctx context.Context, role domain.UserRole, active *bool) ([]domain.User, error) {
	v := url.Values{}
	if role != "" {
		v.Set("role", string(role))
	}
	if active != nil {
		v.Set("is_active", strconv.FormatBool(*active))
	}
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, withQuery("/v1/users", v), nil, http.StatusOK, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// =============================================================================
// Helper Methods
// =============================================================================

func userPath(id int64) string {
	return "/v1/users/" + strconv.FormatInt(id, 10)
}

func taskPath(id int64, suffix string) string {
	return "/v1/tasks/" + strconv.FormatInt(id, 10) + suffix
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// transportError marks failures that happened before a response arrived.
type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isTransport(err error) bool {
	_, ok := err.(*transportError)
	return ok
}

// do sends a request with an optional JSON body, checks the status and
// decodes the response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.requestID != nil {
		req.Header.Set(middleware.RequestIDHeader, c.requestID())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &transportError{err: wrapConnectionError(method+" "+path, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return parseErrorResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
