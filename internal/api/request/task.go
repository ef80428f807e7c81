package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/taskdesk/taskdesk/internal/domain"
)

// Length limits for task fields.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
	UserID      *int64             `json:"user_id,omitempty"`
}

// Validate validates the create task request.
func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if r.Title == "" {
		errors = append(errors, "title is required")
	}
	errors = append(errors, validateTaskFields(&r.Title, r.Description, r.Status, r.UserID)...)

	return errors
}

// UpdateTaskRequest represents a request to update a task.
type UpdateTaskRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
	UserID      *int64             `json:"user_id,omitempty"`
}

// Validate validates the update task request.
func (r *UpdateTaskRequest) Validate() []string {
	var errors []string

	if r.Title != nil && *r.Title == "" {
		errors = append(errors, "title cannot be empty")
	}
	if r.Title == nil && r.Description == nil && r.Status == nil && r.UserID == nil {
		errors = append(errors, "no fields to update")
	}
	errors = append(errors, validateTaskFields(r.Title, r.Description, r.Status, r.UserID)...)

	return errors
}

func validateTaskFields(title, description *string, status *domain.TaskStatus, userID *int64) []string {
	var errors []string

	if title != nil && utf8.RuneCountInString(*title) > MaxTitleLength {
		errors = append(errors, fmt.Sprintf("title must not exceed %d characters", MaxTitleLength))
	}
	if description != nil && utf8.RuneCountInString(*description) > MaxDescriptionLength {
		errors = append(errors, fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength))
	}
	if status != nil && !status.IsValid() {
		errors = append(errors, fmt.Sprintf("status must be one of %v", domain.ValidStatuses))
	}
	if userID != nil && *userID <= 0 {
		errors = append(errors, "user_id must be a positive integer")
	}

	return errors
}

// DecodeJSON decodes JSON from request body into the given value.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Pagination contains pagination parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// DefaultPage is the default page number.
const DefaultPage = 1

// DefaultPerPage is the default items per page.
const DefaultPerPage = 50

// MaxPerPage is the maximum items per page.
const MaxPerPage = 100

// ParsePagination extracts pagination from query parameters.
func ParsePagination(r *http.Request) Pagination {
	page := DefaultPage
	perPage := DefaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if v, err := strconv.Atoi(pp); err == nil && v > 0 {
			perPage = v
		}
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Pagination{Page: page, PerPage: perPage}
}

// ParseStatus extracts status filter from query parameters.
func ParseStatus(r *http.Request) *domain.TaskStatus {
	s := r.URL.Query().Get("status")
	if s == "" {
		return nil
	}

	status := domain.TaskStatus(s)
	if !status.IsValid() {
		return nil
	}
	return &status
}

// ParseID reads a positive integer URL parameter.
func ParseID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError([]string{fmt.Sprintf("%s must be a positive integer", name)})
	}
	return id, nil
}

// QueryInt64 reads an optional positive integer query parameter. Invalid
// values are ignored.
func QueryInt64(r *http.Request, name string) *int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
