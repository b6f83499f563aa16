package handler

import (
	"testing"

	"taskboard/internal/access"
	"taskboard/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	authorID := uuid.New()
	author := &model.User{ID: authorID, SystemRole: model.SystemRoleUser}
	stranger := &model.User{ID: uuid.New(), SystemRole: model.SystemRoleUser}
	admin := &model.User{ID: uuid.New(), SystemRole: model.SystemRoleAdmin}
	comment := &model.Comment{ID: uuid.New(), UserID: &authorID}

	// Authors may always touch their own comments, whatever their role.
	assert.True(t, canModify(author, access.RoleViewer, comment))
	assert.True(t, canModify(author, access.RoleEditor, comment))

	// Everyone else needs owner-level rights from the gate.
	assert.True(t, canModify(stranger, access.RoleOwner, comment))
	assert.False(t, canModify(stranger, access.RoleEditor, comment))
	assert.False(t, canModify(stranger, access.RoleViewer, comment))

	// The admin override comes out of Authorize, not a local check.
	assert.True(t, canModify(admin, access.RoleNone, comment))
}

func TestCanModify_OrphanedComment(t *testing.T) {
	// A comment whose author account was deleted keeps its snapshot name but
	// has no author id; only owner-level users may modify it.
	comment := &model.Comment{ID: uuid.New(), UserID: nil}
	editor := &model.User{ID: uuid.New(), SystemRole: model.SystemRoleUser}

	assert.False(t, canModify(editor, access.RoleEditor, comment))
	assert.True(t, canModify(editor, access.RoleOwner, comment))
}
