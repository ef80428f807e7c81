package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/taskdesk/taskdesk/internal/api/response"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/logger"
)

// Recovery middleware catches panics and returns a 500 error.
func Recovery(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.FromContext(r.Context(), log).Error("panic recovered",
						"panic", fmt.Sprint(err),
						"stack", string(debug.Stack()),
					)
					response.Error(w, domain.NewInternalError(nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
