package auth

import (
	"fmt"
)

// Session is an immutable snapshot of the current auth state. User and Token
// are set and cleared together; a Session with only one of them present never
// escapes the Manager.
type Session struct {
	User  *User  `json:"user,omitempty"`
	Token string `json:"-"`
}

// IsAuthenticated reports whether both a user and a token are present.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// IsAdmin reports whether the session belongs to an admin user.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.Role == RoleAdmin
}

// IsVerified reports whether the user's email has been verified. False for
// anonymous sessions.
func (s Session) IsVerified() bool {
	return s.User != nil && s.User.IsVerified
}

// HasRole checks if the session user has a specific role
func (s Session) HasRole(role string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return s.User.Role == UserRole(role)
}

// IsAtLeast checks if the session user's role meets the minimum required role
func (s Session) IsAtLeast(minRole UserRole) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return RoleAtLeast(s.User.Role, minRole)
}

func (s Session) String() string {
	if !s.IsAuthenticated() {
		return "Session{anonymous}"
	}
	return fmt.Sprintf(
		"Session{user_id: %s, username: %s, role: %s, verified: %t}",
		s.User.ID, s.User.Username, s.User.Role, s.User.IsVerified,
	)
}
