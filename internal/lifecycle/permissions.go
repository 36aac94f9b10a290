package lifecycle

import . "xrayserver/internal/models"

type Action string

const (
	ActionSubmit      Action = "SUBMIT"
	ActionEdit        Action = "EDIT"
	ActionAccept      Action = "ACCEPT"
	ActionReject      Action = "REJECT"
	ActionMarkArrived Action = "MARK_ARRIVED"
	ActionStartExam   Action = "START_EXAM"
	ActionFinish      Action = "FINISH"

	ActionManageUsers   Action = "MANAGE_USERS"
	ActionManageParts   Action = "MANAGE_PARTS"
	ActionExportReports Action = "EXPORT_REPORTS"
)

// roleActions gives each role a disjoint action set. Admin holds no
// lifecycle transition rights.
var roleActions = map[Role]map[Action]bool{
	RoleDoctor: {
		ActionSubmit: true,
		ActionEdit:   true,
	},
	RoleRadiographer: {
		ActionAccept:      true,
		ActionReject:      true,
		ActionMarkArrived: true,
		ActionStartExam:   true,
		ActionFinish:      true,
	},
	RoleAdmin: {
		ActionManageUsers:   true,
		ActionManageParts:   true,
		ActionExportReports: true,
	},
}

// CanPerform is the permission predicate consulted before any transition is
// applied. It is independent of any transport or rendering concern.
func CanPerform(role Role, action Action) bool {
	return roleActions[role][action]
}
