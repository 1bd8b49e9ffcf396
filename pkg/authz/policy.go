// Package authz is the role-based authorization policy. It is a pure
// decision table over (role, action); every resource service consults it
// before mutating or listing, so there is exactly one place permissions
// live. Row-level scoping (which projects a member may read, whose
// comments a manager sees) stays in the service queries.
package authz

import "github.com/taskhive-inc/taskhive/pkg/models"

// Action names a permission-checked operation.
type Action string

const (
	ActionUserCreate Action = "user:create"
	ActionUserList   Action = "user:list"
	ActionUserGet    Action = "user:get"
	ActionUserUpdate Action = "user:update"
	ActionUserDelete Action = "user:delete"

	ActionOverviewView Action = "overview:view"

	ActionProjectCreate  Action = "project:create"
	ActionProjectListAll Action = "project:list-all"
	ActionProjectUpdate  Action = "project:update"
	ActionProjectDelete  Action = "project:delete"

	ActionTaskCreate  Action = "task:create"
	ActionTaskListAll Action = "task:list-all"
	ActionTaskUpdate  Action = "task:update"
	ActionTaskDelete  Action = "task:delete"

	ActionCommentCreate Action = "comment:create"
	ActionCommentUpdate Action = "comment:update"
	ActionCommentDelete Action = "comment:delete"

	ActionReplyCreate Action = "reply:create"
)

// managerActions are the permissions a Project Manager holds beyond a
// Team Member's. Managers run tasks; they do not manage users or projects.
var managerActions = map[Action]bool{
	ActionTaskCreate:    true,
	ActionTaskUpdate:    true,
	ActionTaskDelete:    true,
	ActionProjectUpdate: true,
	ActionCommentCreate: true,
	ActionCommentUpdate: true,
	ActionCommentDelete: true,
	ActionReplyCreate:   true,
}

// memberActions are the permissions every authenticated role holds.
var memberActions = map[Action]bool{
	ActionCommentCreate: true,
	ActionCommentUpdate: true,
	ActionCommentDelete: true,
	ActionReplyCreate:   true,
}

// Can reports whether the given role may perform the action.
// Admin is unrestricted.
func Can(role models.Role, action Action) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleProjectManager:
		return managerActions[action]
	case models.RoleTeamMember:
		return memberActions[action]
	default:
		return false
	}
}
