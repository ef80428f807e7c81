package handler

import (
	"net/http"

	"github.com/taskdesk/taskdesk/internal/api/response"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/store"
)

// SystemHandler handles system-level operations.
type SystemHandler struct {
	db *store.DB
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db *store.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health handles GET /v1/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}
	response.OK(w, map[string]string{"status": "ok"})
}
