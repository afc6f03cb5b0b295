package portal_test

import (
	"testing"

	portal "github.com/placementhub/portal"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	t.Run("parses known roles", func(t *testing.T) {
		role, ok := portal.ParseRole("user")
		assert.True(t, ok)
		assert.Equal(t, portal.RoleUser, role)

		role, ok = portal.ParseRole("admin")
		assert.True(t, ok)
		assert.Equal(t, portal.RoleAdmin, role)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		for _, input := range []string{"", "root", "Admin", "ADMIN", "superuser"} {
			_, ok := portal.ParseRole(input)
			assert.False(t, ok, "expected %q to be rejected", input)
		}
	})
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, portal.RoleUser.IsValid())
	assert.True(t, portal.RoleAdmin.IsValid())
	assert.False(t, portal.Role("guest").IsValid())
	assert.False(t, portal.Role("").IsValid())
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, portal.RoleAdmin.IsAtLeast(portal.RoleUser))
	assert.True(t, portal.RoleAdmin.IsAtLeast(portal.RoleAdmin))
	assert.True(t, portal.RoleUser.IsAtLeast(portal.RoleUser))
	assert.False(t, portal.RoleUser.IsAtLeast(portal.RoleAdmin))
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, portal.RoleAdmin.IsAdmin())
	assert.False(t, portal.RoleUser.IsAdmin())
}
