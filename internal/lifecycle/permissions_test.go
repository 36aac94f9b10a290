package lifecycle

import (
	"testing"

	. "xrayserver/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	tests := []struct {
		role    Role
		action  Action
		allowed bool
	}{
		{RoleDoctor, ActionSubmit, true},
		{RoleDoctor, ActionEdit, true},
		{RoleDoctor, ActionAccept, false},
		{RoleDoctor, ActionFinish, false},
		{RoleDoctor, ActionManageUsers, false},

		{RoleRadiographer, ActionAccept, true},
		{RoleRadiographer, ActionReject, true},
		{RoleRadiographer, ActionMarkArrived, true},
		{RoleRadiographer, ActionStartExam, true},
		{RoleRadiographer, ActionFinish, true},
		{RoleRadiographer, ActionSubmit, false},
		{RoleRadiographer, ActionExportReports, false},

		{RoleAdmin, ActionManageUsers, true},
		{RoleAdmin, ActionManageParts, true},
		{RoleAdmin, ActionExportReports, true},
		{RoleAdmin, ActionSubmit, false},
		{RoleAdmin, ActionAccept, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanPerform(tt.role, tt.action),
			"%s / %s", tt.role, tt.action)
	}
}

func TestCanPerform_UnknownRole(t *testing.T) {
	assert.False(t, CanPerform(Role("VISITOR"), ActionSubmit))
	assert.False(t, CanPerform(Role(""), ActionManageUsers))
}

func TestRoleActionSets_Disjoint(t *testing.T) {
	seen := make(map[Action]Role)
	for role, actions := range roleActions {
		for action := range actions {
			if prev, ok := seen[action]; ok {
				t.Fatalf("action %s granted to both %s and %s", action, prev, role)
			}
			seen[action] = role
		}
	}
}
