package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInspector inspects a persisted bearer token without verifying its
// signature. The remote API issues JWTs; a token whose exp claim has already
// passed is guaranteed to be rejected by GET /api/auth/me, so the initializer
// can treat it as invalid without spending a round trip. Signature
// verification stays with the backend — this is a fast-path check only.
type TokenInspector interface {
	Expired(token string, now time.Time) bool
}

// TokenInspectorFunc adapts a function into a TokenInspector.
type TokenInspectorFunc func(token string, now time.Time) bool

// Expired satisfies the TokenInspector interface.
func (f TokenInspectorFunc) Expired(token string, now time.Time) bool {
	if f == nil {
		return false
	}
	return f(token, now)
}

type jwtInspector struct {
	parser *jwt.Parser
}

// NewTokenInspector returns the default JWT-based inspector.
func NewTokenInspector() TokenInspector {
	return &jwtInspector{
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// Expired reports whether token is a JWT with an exp claim in the past.
// Opaque tokens and tokens without an exp claim are never considered expired
// here; the remote verification call decides for them.
func (i *jwtInspector) Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Time.Before(now)
}
