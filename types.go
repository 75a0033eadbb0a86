package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// SessionManager is the surface consumers (guards, controllers, templates)
// depend on. *Manager is the canonical implementation.
type SessionManager interface {
	Initialize(ctx context.Context) error
	Login(ctx context.Context, username, password string) Result
	Register(ctx context.Context, payload RegisterPayload) Result
	Logout()
	Current() Session
	Loading() bool
	IsAuthenticated() bool
	IsAdmin() bool
	IsVerified() bool
}

// APIClient issues the remote astro-site API calls the session core depends
// on. The backend itself is external; this interface is its whole footprint.
type APIClient interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, payload RegisterPayload) (string, error)
	Me(ctx context.Context, token string) (*User, error)
}

// TokenStore persists the single bearer-token slot that survives restarts.
// Load returns "" with a nil error when no token is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Config holds session core options
type Config interface {
	GetBaseURL() string
	GetRequestTimeout() int
	GetStorageKey() string
	GetSignInRoute() string
	GetRegisterRoute() string
	GetAdminRoot() string
	GetSiteRoot() string
	GetPublicAdminRoutes() []string
}

// Result is the uniform outcome of a credential operation. Failures from
// transport errors, rejected credentials, and malformed payloads all collapse
// into the same shape; callers distinguish them by message text only.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
