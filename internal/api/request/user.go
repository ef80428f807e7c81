package request

import (
	"net/mail"

	"github.com/taskdesk/taskdesk/internal/domain"
)

// MinPasswordLength is the minimum length of a password.
const MinPasswordLength = 6

// RegisterRequest represents a request to create an account.
type RegisterRequest struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"confirm_password"`
	Role            domain.UserRole `json:"role,omitempty"`
}

// Validate validates the register request.
func (r *RegisterRequest) Validate() []string {
	var errors []string

	switch {
	case r.Name == "":
		errors = append(errors, "name is required")
	case len(r.Name) < 3:
		errors = append(errors, "name must be at least 3 characters")
	}
	errors = append(errors, validateEmail(r.Email)...)
	switch {
	case r.Password == "":
		errors = append(errors, "password is required")
	case len(r.Password) < MinPasswordLength:
		errors = append(errors, "password must be at least 6 characters")
	}
	if r.Password != r.ConfirmPassword {
		errors = append(errors, "passwords do not match")
	}
	if r.Role != "" && !r.Role.IsValid() {
		errors = append(errors, "role is invalid")
	}

	return errors
}

// UpdateUserRequest represents a request to edit an account.
type UpdateUserRequest struct {
	Name     *string          `json:"name,omitempty"`
	Email    *string          `json:"email,omitempty"`
	Role     *domain.UserRole `json:"role,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// Validate validates the update user request.
func (r *UpdateUserRequest) Validate() []string {
	var errors []string

	if r.Name == nil && r.Email == nil && r.Role == nil && r.IsActive == nil {
		errors = append(errors, "no fields to update")
	}
	if r.Name != nil && len(*r.Name) < 3 {
		errors = append(errors, "name must be at least 3 characters")
	}
	if r.Email != nil {
		errors = append(errors, validateEmail(*r.Email)...)
	}
	if r.Role != nil && !r.Role.IsValid() {
		errors = append(errors, "role is invalid")
	}

	return errors
}

// LoginRequest represents a request to check credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request.
func (r *LoginRequest) Validate() []string {
	errors := validateEmail(r.Email)
	if r.Password == "" {
		errors = append(errors, "password is required")
	}
	return errors
}

func validateEmail(email string) []string {
	if email == "" {
		return []string{"email is required"}
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return []string{"email is invalid"}
	}
	return nil
}
