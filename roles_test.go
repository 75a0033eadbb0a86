package auth_test

import (
	"testing"

	auth "github.com/mikias1219/astro-auth"
	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, auth.ValidRole(auth.RoleUser))
	assert.True(t, auth.ValidRole(auth.RoleEditor))
	assert.True(t, auth.ValidRole(auth.RoleAdmin))
	assert.False(t, auth.ValidRole("superuser"))
	assert.False(t, auth.ValidRole(""))
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, auth.RoleAtLeast(auth.RoleAdmin, auth.RoleUser))
	assert.True(t, auth.RoleAtLeast(auth.RoleAdmin, auth.RoleAdmin))
	assert.True(t, auth.RoleAtLeast(auth.RoleEditor, auth.RoleUser))
	assert.False(t, auth.RoleAtLeast(auth.RoleUser, auth.RoleEditor))
	assert.False(t, auth.RoleAtLeast(auth.RoleEditor, auth.RoleAdmin))
	assert.False(t, auth.RoleAtLeast("superuser", auth.RoleUser))
	assert.False(t, auth.RoleAtLeast(auth.RoleAdmin, "superuser"))
}

func TestParseRole(t *testing.T) {
	role, ok := auth.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleAdmin, role)

	_, ok = auth.ParseRole("wizard")
	assert.False(t, ok)
}

func TestAllRoles(t *testing.T) {
	roles := auth.AllRoles()
	assert.Equal(t, []auth.UserRole{auth.RoleUser, auth.RoleEditor, auth.RoleAdmin}, roles)
}
