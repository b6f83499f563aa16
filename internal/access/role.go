package access

import "taskboard/internal/model"

// Role is the effective permission level of a user on a board, ordered
// weakest to strongest so that comparisons read naturally.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleEditor
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return model.RoleOwner
	case RoleEditor:
		return model.RoleEditor
	case RoleViewer:
		return model.RoleViewer
	}
	return "none"
}

// RoleFromString maps a stored membership role to a Role. Unknown values
// classify as none rather than guessing upward.
func RoleFromString(s string) Role {
	switch s {
	case model.RoleOwner:
		return RoleOwner
	case model.RoleEditor:
		return RoleEditor
	case model.RoleViewer:
		return RoleViewer
	}
	return RoleNone
}

// Operation is the taxonomy of things a caller can do to board resources.
type Operation string

const (
	OpRead            Operation = "read"
	OpComment         Operation = "comment"
	OpEditContent     Operation = "edit-content"
	OpMove            Operation = "move"
	OpManageMembers   Operation = "manage-members"
	OpDeleteStructure Operation = "delete-structure"
)
