package request

// CreateReplyRequest represents a request to reply to a task.
type CreateReplyRequest struct {
	Text   string `json:"text"`
	UserID *int64 `json:"user_id,omitempty"`
}

// Validate validates the create reply request.
func (r *CreateReplyRequest) Validate() []string {
	var errors []string

	if r.Text == "" {
		errors = append(errors, "text is required")
	}
	if r.UserID != nil && *r.UserID <= 0 {
		errors = append(errors, "user_id must be a positive integer")
	}

	return errors
}
