package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/taskdesk/taskdesk/internal/domain"
)

// Client-specific errors.
var (
	// ErrServerNotRunning indicates the server is not reachable.
	ErrServerNotRunning = errors.New("server is not running or unreachable")
	// ErrServerUnhealthy indicates the health check failed.
	ErrServerUnhealthy = errors.New("server health check failed")
)

// apiErrorResponse is the error envelope the API writes.
type apiErrorResponse struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	} `json:"error"`
}

// parseErrorResponse turns a non-success response into a *domain.DomainError
// carrying the server's code, or a plain error when the body is not the API
// error envelope.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Code == "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}

	return &domain.DomainError{
		Code:    domain.ErrorCode(apiErr.Error.Code),
		Message: apiErr.Error.Message,
		Context: apiErr.Error.Context,
	}
}

// wrapConnectionError marks refused connections with ErrServerNotRunning.
func wrapConnectionError(op string, err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return errors.Join(ErrServerNotRunning, err)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

// IsNotFound reports whether err is any of the API's not-found errors.
func IsNotFound(err error) bool {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Code {
	case domain.ErrCodeTaskNotFound, domain.ErrCodeUserNotFound,
		domain.ErrCodeTagNotFound, domain.ErrCodeReplyNotFound:
		return true
	}
	return false
}
