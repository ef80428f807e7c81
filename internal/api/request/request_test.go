package request

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/taskdesk/taskdesk/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTaskRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateTaskRequest
		errs int
	}{
		{"valid", CreateTaskRequest{Title: "ok"}, 0},
		{"missing title", CreateTaskRequest{}, 1},
		{"long title", CreateTaskRequest{Title: strings.Repeat("a", MaxTitleLength+1)}, 1},
		{"long description", CreateTaskRequest{Title: "ok", Description: ptr(strings.Repeat("d", MaxDescriptionLength+1))}, 1},
		{"bad status", CreateTaskRequest{Title: "ok", Status: ptr(domain.TaskStatus("LATER"))}, 1},
		{"bad user", CreateTaskRequest{Title: "ok", UserID: ptr(int64(0))}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Validate(); len(got) != tt.errs {
				t.Errorf("Validate() = %v, want %d errors", got, tt.errs)
			}
		})
	}
}

func TestUpdateTaskRequest_Validate(t *testing.T) {
	empty := UpdateTaskRequest{}
	if errs := empty.Validate(); len(errs) != 1 {
		t.Errorf("empty update: got %v", errs)
	}

	req := UpdateTaskRequest{Status: ptr(domain.StatusDone)}
	if errs := req.Validate(); len(errs) != 0 {
		t.Errorf("status update: got %v", errs)
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret", ConfirmPassword: "secret"}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Errorf("valid request: got %v", errs)
	}

	bad := RegisterRequest{Name: "A", Email: "Ann <ann@example.com>", Password: "abc", ConfirmPassword: "abd", Role: "ROOT"}
	if errs := bad.Validate(); len(errs) != 5 {
		t.Errorf("bad request: got %v, want 5 errors", errs)
	}
}

func TestCreateTagsRequest_Validate(t *testing.T) {
	req := CreateTagsRequest{Names: []string{" bug ", "bug", ""}}
	errs := req.Validate()
	if len(errs) != 2 {
		t.Errorf("Validate() = %v, want duplicate and empty errors", errs)
	}
	if req.Names[0] != "bug" {
		t.Errorf("names should be trimmed, got %q", req.Names[0])
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query   string
		page    int
		perPage int
	}{
		{"", DefaultPage, DefaultPerPage},
		{"?page=3&per_page=10", 3, 10},
		{"?page=-1&per_page=abc", DefaultPage, DefaultPerPage},
		{"?per_page=1000", DefaultPage, MaxPerPage},
	}

	for _, tt := range tests {
		p := ParsePagination(httptest.NewRequest("GET", "/v1/tasks"+tt.query, nil))
		if p.Page != tt.page || p.PerPage != tt.perPage {
			t.Errorf("ParsePagination(%q) = %+v, want page %d per_page %d", tt.query, p, tt.page, tt.perPage)
		}
	}
}

func TestQueryInt64(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/board?user_id=5&bad=x", nil)
	if v := QueryInt64(r, "user_id"); v == nil || *v != 5 {
		t.Errorf("user_id = %v, want 5", v)
	}
	if v := QueryInt64(r, "bad"); v != nil {
		t.Errorf("bad = %v, want nil", *v)
	}
}
