package access_test

import (
	"testing"

	"taskboard/internal/access"
	"taskboard/internal/model"

	"github.com/stretchr/testify/assert"
)

var allOperations = []access.Operation{
	access.OpRead,
	access.OpComment,
	access.OpEditContent,
	access.OpMove,
	access.OpManageMembers,
	access.OpDeleteStructure,
}

func TestAllowed_OwnerHasEverything(t *testing.T) {
	for _, op := range allOperations {
		assert.True(t, access.Allowed(access.RoleOwner, op), "owner should be allowed %s", op)
	}
}

func TestAllowed_EditorCannotManageOrDelete(t *testing.T) {
	assert.True(t, access.Allowed(access.RoleEditor, access.OpRead))
	assert.True(t, access.Allowed(access.RoleEditor, access.OpComment))
	assert.True(t, access.Allowed(access.RoleEditor, access.OpEditContent))
	assert.True(t, access.Allowed(access.RoleEditor, access.OpMove))
	assert.False(t, access.Allowed(access.RoleEditor, access.OpManageMembers))
	assert.False(t, access.Allowed(access.RoleEditor, access.OpDeleteStructure))
}

func TestAllowed_ViewerReadsAndComments(t *testing.T) {
	assert.True(t, access.Allowed(access.RoleViewer, access.OpRead))
	assert.True(t, access.Allowed(access.RoleViewer, access.OpComment))
	assert.False(t, access.Allowed(access.RoleViewer, access.OpEditContent))
	assert.False(t, access.Allowed(access.RoleViewer, access.OpMove))
	assert.False(t, access.Allowed(access.RoleViewer, access.OpManageMembers))
	assert.False(t, access.Allowed(access.RoleViewer, access.OpDeleteStructure))
}

func TestAllowed_NoneDeniedEverything(t *testing.T) {
	for _, op := range allOperations {
		assert.False(t, access.Allowed(access.RoleNone, op), "none should be denied %s", op)
	}
}

// Every grant a weaker role holds must also be held by each stronger role.
func TestAllowed_RolesAreMonotonic(t *testing.T) {
	order := []access.Role{access.RoleNone, access.RoleViewer, access.RoleEditor, access.RoleOwner}
	for i := 1; i < len(order); i++ {
		weaker, stronger := order[i-1], order[i]
		for _, op := range allOperations {
			if access.Allowed(weaker, op) {
				assert.True(t, access.Allowed(stronger, op),
					"%v allows %s but %v does not", weaker, op, stronger)
			}
		}
	}
}

func TestAuthorize_AdminOverridesPolicy(t *testing.T) {
	admin := &model.User{SystemRole: model.SystemRoleAdmin}

	for _, op := range allOperations {
		assert.NoError(t, access.Authorize(admin, access.RoleNone, op))
	}
}

func TestAuthorize_RegularUserFollowsPolicy(t *testing.T) {
	user := &model.User{SystemRole: model.SystemRoleUser}

	assert.NoError(t, access.Authorize(user, access.RoleViewer, access.OpRead))
	assert.ErrorIs(t, access.Authorize(user, access.RoleViewer, access.OpEditContent), access.ErrForbidden)
	assert.ErrorIs(t, access.Authorize(user, access.RoleNone, access.OpRead), access.ErrForbidden)
}

func TestAuthorize_NilUserDenied(t *testing.T) {
	assert.ErrorIs(t, access.Authorize(nil, access.RoleNone, access.OpRead), access.ErrForbidden)
}

func TestRoleFromString_RoundTrip(t *testing.T) {
	assert.Equal(t, access.RoleOwner, access.RoleFromString(model.RoleOwner))
	assert.Equal(t, access.RoleEditor, access.RoleFromString(model.RoleEditor))
	assert.Equal(t, access.RoleViewer, access.RoleFromString(model.RoleViewer))
	assert.Equal(t, access.RoleNone, access.RoleFromString("gibberish"))
	assert.Equal(t, access.RoleNone, access.RoleFromString(""))
}
