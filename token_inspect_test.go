package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/mikias1219/astro-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenInspectorExpired(t *testing.T) {
	inspector := auth.NewTokenInspector()
	now := time.Now()

	expired := signedToken(t, jwt.MapClaims{
		"sub": "jyoti",
		"exp": now.Add(-time.Hour).Unix(),
	})
	assert.True(t, inspector.Expired(expired, now))

	live := signedToken(t, jwt.MapClaims{
		"sub": "jyoti",
		"exp": now.Add(time.Hour).Unix(),
	})
	assert.False(t, inspector.Expired(live, now))
}

func TestTokenInspectorNoExpiryClaim(t *testing.T) {
	inspector := auth.NewTokenInspector()

	// Tokens without an exp claim are never considered expired locally; the
	// remote API has the final say.
	token := signedToken(t, jwt.MapClaims{"sub": "jyoti"})
	assert.False(t, inspector.Expired(token, time.Now()))
}

func TestTokenInspectorOpaqueToken(t *testing.T) {
	inspector := auth.NewTokenInspector()

	assert.False(t, inspector.Expired("not-a-jwt", time.Now()))
	assert.False(t, inspector.Expired("", time.Now()))
}

func TestTokenInspectorFunc(t *testing.T) {
	always := auth.TokenInspectorFunc(func(token string, now time.Time) bool {
		return true
	})
	assert.True(t, always.Expired("anything", time.Now()))
}
