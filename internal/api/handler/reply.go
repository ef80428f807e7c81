package handler

import (
	"net/http"

	"github.com/taskdesk/taskdesk/internal/api/request"
	"github.com/taskdesk/taskdesk/internal/api/response"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/service"
)

// ReplyHandler handles replies on tasks.
type ReplyHandler struct {
	svc *service.ReplyService
}

// NewReplyHandler creates a new ReplyHandler.
func NewReplyHandler(svc *service.ReplyService) *ReplyHandler {
	return &ReplyHandler{svc: svc}
}

// ListReplies handles GET /tasks/{id}/replies.
func (h *ReplyHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	replies, err := h.svc.ListForTask(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, replies)
}

// CreateReply handles POST /tasks/{id}/replies.
func (h *ReplyHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	id, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req request.CreateReplyRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	reply, err := h.svc.Create(r.Context(), id, service.CreateReplyInput{
		Text:   req.Text,
		UserID: req.UserID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, reply)
}
