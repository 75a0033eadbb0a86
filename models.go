package auth

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the user's role as reported by the remote API
type UserRole = string

const (
	// RoleUser is a regular site visitor with an account
	RoleUser UserRole = "user"
	// RoleEditor can manage content (blogs, pages, podcasts)
	RoleEditor UserRole = "editor"
	// RoleAdmin has full access to the admin back office
	RoleAdmin UserRole = "admin"
)

// User mirrors the profile record returned by the remote astro-site API.
// JSON tags match the wire payload of GET /api/auth/me.
type User struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	Username          string     `json:"username"`
	FullName          string     `json:"full_name"`
	Phone             string     `json:"phone,omitempty"`
	Role              UserRole   `json:"role"`
	IsActive          bool       `json:"is_active"`
	IsVerified        bool       `json:"is_verified"`
	PreferredLanguage string     `json:"preferred_language"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName returns the best human-readable label for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// RegisterPayload is the record sent to POST /api/auth/register.
type RegisterPayload struct {
	Email             string `json:"email" form:"email"`
	Username          string `json:"username" form:"username"`
	FullName          string `json:"full_name" form:"full_name"`
	Password          string `json:"password" form:"password"`
	Phone             string `json:"phone,omitempty" form:"phone"`
	PreferredLanguage string `json:"preferred_language,omitempty" form:"preferred_language"`
}
