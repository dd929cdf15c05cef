package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRole is the authorization tier stored on the user record
type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// User represents a platform account
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may open admin sessions
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserRepository defines the interface for user lookups
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}
