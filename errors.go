package auth

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNoToken is returned when the token store holds no persisted token
var ErrNoToken = errors.New("no persisted token")

// ErrNotAuthenticated is the error we return when a session is required
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrSessionResolving is returned when a credential operation is attempted
// while the initializer has not resolved the persisted token yet
var ErrSessionResolving = errors.New("session is still resolving")

// ErrTokenRejected means the remote API refused the persisted token
var ErrTokenRejected = errors.New("persisted token rejected")

// Default user-facing messages. Server-provided detail strings take
// precedence over these.
const (
	MsgLoginFailed      = "Login failed. Please check your credentials and try again."
	MsgRegisterFailed   = "Registration failed. Please try again."
	MsgRegisterSuccess  = "Registration successful. Please check your email to verify your account."
	MsgSessionResolving = "Your session is still being restored. Please try again in a moment."
	MsgProfileFetch     = "Signed in, but your profile could not be loaded. Please reload the page."
)

// IsUnauthorizedError will check for rejected-credential responses
func IsUnauthorizedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryAuth
	}

	return strings.Contains(err.Error(), "unauthorized")
}
