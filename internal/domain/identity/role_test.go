package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsElevated(t *testing.T) {
	tests := []struct {
		role     Role
		elevated bool
	}{
		{RoleSuperAdmin, true},
		{RoleAdmin, true},
		{RoleUser, false},
		{Role("GUEST"), false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.elevated, tt.role.IsElevated())
		})
	}
}

func TestNewRoleSet_DropsUnknownRoles(t *testing.T) {
	set := NewRoleSet("ADMIN", "bogus", "USER")
	assert.Len(t, set, 2)
	assert.True(t, set.Contains(RoleAdmin))
	assert.True(t, set.Contains(RoleUser))
	assert.False(t, set.Contains(RoleSuperAdmin))
}

func TestRoleSet_HasElevated(t *testing.T) {
	assert.True(t, NewRoleSet("USER", "ADMIN").HasElevated())
	assert.True(t, NewRoleSet("SUPER_ADMIN").HasElevated())
	assert.False(t, NewRoleSet("USER").HasElevated())
	assert.False(t, NewRoleSet().HasElevated())
}
