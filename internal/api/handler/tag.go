package handler

import (
	"net/http"
	"strconv"

	"github.com/taskdesk/taskdesk/internal/api/request"
	"github.com/taskdesk/taskdesk/internal/api/response"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/service"
)

// TagHandler handles tag operations.
type TagHandler struct {
	svc *service.TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(svc *service.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// ListTags handles GET /tags.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, tags)
}

// GetTag handles GET /tags/{id}.
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	tag, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, tag)
}

// CreateTags handles POST /tags.
func (h *TagHandler) CreateTags(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTagsRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	tags, err := h.svc.Create(r.Context(), req.Names)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, tags)
}

// Popular handles GET /tags/popular.
func (h *TagHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > request.MaxPerPage {
		limit = request.MaxPerPage
	}

	tags, err := h.svc.Popular(r.Context(), limit)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, tags)
}
