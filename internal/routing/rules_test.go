package routing_test

import (
	"testing"

	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/routing"

	"github.com/stretchr/testify/assert"
)

func TestActionTable(t *testing.T) {
	tests := []struct {
		role    models.Role
		action  models.Action
		allowed bool
	}{
		{models.RoleHandler, models.ActionEscalate, true},
		{models.RoleHandler, models.ActionResolve, true},
		{models.RoleHandler, models.ActionSendBack, true},
		{models.RoleHandler, models.ActionAssign, false},
		{models.RoleAuthority, models.ActionAssign, true},
		{models.RoleVicePresident, models.ActionEscalate, true},
		{models.RolePresident, models.ActionEscalate, false},
		{models.RolePresident, models.ActionResolve, true},
		{models.RoleSubmitter, models.ActionResolve, false},
		{models.RoleSubmitter, models.ActionAssign, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, routing.Allowed(tt.role, tt.action),
			"%s / %s", tt.role, tt.action)
	}
}

func TestNextRole(t *testing.T) {
	next, ok := routing.NextRole(models.RoleHandler)
	assert.True(t, ok)
	assert.Equal(t, models.RoleAuthority, next)

	next, ok = routing.NextRole(models.RoleAuthority)
	assert.True(t, ok)
	assert.Equal(t, models.RoleVicePresident, next)

	next, ok = routing.NextRole(models.RoleVicePresident)
	assert.True(t, ok)
	assert.Equal(t, models.RolePresident, next)

	_, ok = routing.NextRole(models.RolePresident)
	assert.False(t, ok, "nobody above the president")

	_, ok = routing.NextRole(models.RoleSubmitter)
	assert.False(t, ok)
}
