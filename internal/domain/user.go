package domain

import (
	"time"

	"github.com/taskdesk/taskdesk/internal/repository"
)

// UserRole is the access level of a user.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleModerator UserRole = "MODERATOR"
	RoleUser      UserRole = "USER"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []UserRole{RoleAdmin, RoleModerator, RoleUser}

// IsValid checks if the role is a valid user role.
func (r UserRole) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User is an account that owns tasks and writes replies.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assign fills the user from a record. The password hash is never part of
// a loaded record.
func (u *User) Assign(rec repository.Record) error {
	f := fields{rec: rec}
	u.ID = f.integer("id")
	u.Email = f.text("email")
	u.Name = f.text("name")
	u.Role = UserRole(f.text("role"))
	u.IsActive = f.flag("is_active")
	u.CreatedAt = f.timestamp("created_at")
	u.UpdatedAt = f.timestamp("updated_at")
	return f.err
}

// Values returns the persisted columns of the user. The password is only
// included when set.
func (u *User) Values() map[string]any {
	active := 0
	if u.IsActive {
		active = 1
	}
	v := map[string]any{
		"email":      u.Email,
		"name":       u.Name,
		"role":       string(u.Role),
		"is_active":  active,
		"created_at": formatTime(u.CreatedAt),
		"updated_at": formatTime(u.UpdatedAt),
	}
	if u.Password != "" {
		v["password"] = u.Password
	}
	return v
}
