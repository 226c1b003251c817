package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("USER"))
	assert.True(t, IsValidRole("ORGANIZER"))
	assert.False(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole(""))
}

func TestRoleFor(t *testing.T) {
	assert.Equal(t, RoleOrganizer, RoleFor(true))
	assert.Equal(t, RoleUser, RoleFor(false))

	u := &User{Role: RoleFor(true)}
	assert.True(t, u.IsOrganizer())
}
