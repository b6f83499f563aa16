package access

import (
	"errors"

	"taskboard/internal/model"
)

// ErrForbidden is the uniform denial. It carries no detail about whether the
// resource exists so that a 403 never leaks existence.
var ErrForbidden = errors.New("forbidden")

var policy = map[Role]map[Operation]bool{
	RoleOwner: {
		OpRead:            true,
		OpComment:         true,
		OpEditContent:     true,
		OpMove:            true,
		OpManageMembers:   true,
		OpDeleteStructure: true,
	},
	RoleEditor: {
		OpRead:        true,
		OpComment:     true,
		OpEditContent: true,
		OpMove:        true,
	},
	RoleViewer: {
		OpRead:    true,
		OpComment: true,
	},
	RoleNone: {},
}

// Allowed reports whether the policy table permits op for role. It knows
// nothing about admins; use Authorize for the full decision.
func Allowed(role Role, op Operation) bool {
	return policy[role][op]
}

// Authorize is the single place the system admin override lives. Everything
// else is a pure table lookup.
func Authorize(user *model.User, role Role, op Operation) error {
	if user != nil && user.IsAdmin() {
		return nil
	}
	if !Allowed(role, op) {
		return ErrForbidden
	}
	return nil
}
