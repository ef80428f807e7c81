package handler

import (
	"net/http"

	"github.com/taskdesk/taskdesk/internal/api/request"
	"github.com/taskdesk/taskdesk/internal/api/response"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/service"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

// TaskHandler handles task CRUD operations.
type TaskHandler struct {
	svc *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	task, err := h.svc.Create(r.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      req.UserID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, task)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	task, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)
	q := r.URL.Query()

	tasks, total, err := h.svc.List(r.Context(), service.ListTasksInput{
		ID:      request.QueryInt64(r, "id"),
		Title:   q.Get("title"),
		Status:  request.ParseStatus(r),
		UserID:  request.QueryInt64(r, "user_id"),
		Sort:    q.Get("sort"),
		Order:   q.Get("order"),
		Page:    pagination.Page,
		PerPage: pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, tasks, pagination.Page, pagination.PerPage, total)
}

// Board handles GET /board: every matching task with assignee and tags.
func (h *TaskHandler) Board(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := sqlite.TaskFilter{
		UserID: request.QueryInt64(r, "user_id"),
		Tag:    q.Get("tag"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}
	if status := request.ParseStatus(r); status != nil {
		filter.Status = *status
	}

	tasks, err := h.svc.Board(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, tasks)
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req request.UpdateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	task, err := h.svc.Update(r.Context(), id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      req.UserID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// ListTags handles GET /tasks/{id}/tags.
func (h *TaskHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if _, err := h.svc.Get(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	tags, err := h.svc.Tags(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, tags)
}

// AttachTag handles POST /tasks/{id}/tags.
func (h *TaskHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req request.AttachTagRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	tags, err := h.svc.AttachTag(r.Context(), id, req.Name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, tags)
}

// DetachTag handles DELETE /tasks/{id}/tags/{tagID}.
func (h *TaskHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	tagID, err := request.ParseID(r, "tagID")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.svc.DetachTag(r.Context(), id, tagID); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
