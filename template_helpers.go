package auth

import (
	"github.com/goliatone/go-router"
)

var TemplateUserKey = "current_user"

// TemplateHelpers returns a map of helper functions and data for the view
// engine's global data, so server-rendered pages can consult the session.
//
// In templates:
//
//	{% if current_user %}
//	{% if current_user|is_admin %}
//	{% if current_user|has_role:"editor" %}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated": isAuthenticated,
		"is_admin":         isAdmin,
		"is_verified":      isVerified,
		"has_role":         hasRole,
		"is_at_least":      isAtLeast,

		// Role constants for easy template access
		"roles": map[string]string{
			"user":   string(RoleUser),
			"editor": string(RoleEditor),
			"admin":  string(RoleAdmin),
		},
	}
}

// TemplateHelpersWithUser returns template helpers with a specific user set
// as current_user.
func TemplateHelpersWithUser(user *User) map[string]any {
	helpers := TemplateHelpers()
	helpers[TemplateUserKey] = user
	return helpers
}

// TemplateHelpersWithRouter returns template helpers with the user extracted
// from the session snapshot the guard middleware stored in the router context.
func TemplateHelpersWithRouter(ctx router.Context, sessionKey string) map[string]any {
	helpers := TemplateHelpers()

	if session, ok := SessionFromRouterContext(ctx, sessionKey); ok && session.User != nil {
		helpers[TemplateUserKey] = session.User
	}

	return helpers
}

// isAuthenticated checks if the provided user object is not nil
func isAuthenticated(user any) bool {
	switch u := user.(type) {
	case *User:
		return u != nil
	case User:
		return true
	case Session:
		return u.IsAuthenticated()
	default:
		return false
	}
}

func isAdmin(user any) bool {
	return hasRole(user, string(RoleAdmin))
}

func isVerified(user any) bool {
	switch u := user.(type) {
	case *User:
		return u != nil && u.IsVerified
	case User:
		return u.IsVerified
	case Session:
		return u.IsVerified()
	default:
		return false
	}
}

func hasRole(user any, role string) bool {
	switch u := user.(type) {
	case *User:
		return u != nil && u.Role == UserRole(role)
	case User:
		return u.Role == UserRole(role)
	case Session:
		return u.HasRole(role)
	default:
		return false
	}
}

func isAtLeast(user any, minRole string) bool {
	switch u := user.(type) {
	case *User:
		return u != nil && RoleAtLeast(u.Role, UserRole(minRole))
	case User:
		return RoleAtLeast(u.Role, UserRole(minRole))
	case Session:
		return u.IsAtLeast(UserRole(minRole))
	default:
		return false
	}
}
