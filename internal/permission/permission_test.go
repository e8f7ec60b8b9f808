package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talkincode/toughstock/internal/domain"
)

func TestIsAllowed(t *testing.T) {
	testCases := []struct {
		role   domain.Role
		action Action
		want   bool
	}{
		{domain.RoleAdmin, ActionView, true},
		{domain.RoleAdmin, ActionCreate, true},
		{domain.RoleAdmin, ActionEdit, true},
		{domain.RoleAdmin, ActionDelete, true},
		{domain.RoleManager, ActionView, true},
		{domain.RoleManager, ActionCreate, false},
		{domain.RoleManager, ActionEdit, true},
		{domain.RoleManager, ActionDelete, false},
		{domain.RoleViewer, ActionView, true},
		{domain.RoleViewer, ActionCreate, false},
		{domain.RoleViewer, ActionEdit, false},
		{domain.RoleViewer, ActionDelete, false},
		{domain.Role("guest"), ActionView, true},
		{domain.Role("guest"), ActionEdit, false},
		{domain.RoleAdmin, Action("export"), false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsAllowed(tc.action, tc.role), "%s/%s", tc.role, tc.action)
	}
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction(" Edit ")
	assert.True(t, ok)
	assert.Equal(t, ActionEdit, a)

	_, ok = ParseAction("publish")
	assert.False(t, ok)
}

func TestAllowed(t *testing.T) {
	assert.Equal(t, Actions(), Allowed(domain.RoleAdmin))
	assert.Equal(t, []Action{ActionView, ActionEdit}, Allowed(domain.RoleManager))
	assert.Equal(t, []Action{ActionView}, Allowed(domain.RoleViewer))
}
