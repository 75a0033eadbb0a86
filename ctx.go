package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

var userCtxKey = &contextKey{"user"}
var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithSessionContext sets the Session snapshot in the given context
func WithSessionContext(r context.Context, session Session) context.Context {
	return context.WithValue(r, sessionCtxKey, session)
}

// SessionFromContext extracts the Session snapshot from the standard context
func SessionFromContext(ctx context.Context) (Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(Session)
	return raw, ok
}

// SessionFromRouterContext extracts the Session snapshot stored in the router
// context by the guard middleware.
func SessionFromRouterContext(ctx router.Context, key string) (Session, bool) {
	if key == "" {
		key = RouterSessionKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return Session{}, false
	}
	session, ok := raw.(Session)
	return session, ok
}

// RouterSessionKey is the default Locals key the guard middleware stores the
// session snapshot under.
var RouterSessionKey = "auth_session"
