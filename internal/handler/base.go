package handler

import (
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/audit"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Base carries the cross-cutting collaborators every protected handler
// needs: the actor lookup, the membership resolver and the audit recorder.
type Base struct {
	users    repository.UserRepositoryInterface
	resolver *access.Resolver
	recorder *audit.Recorder
}

func NewBase(users repository.UserRepositoryInterface, resolver *access.Resolver, recorder *audit.Recorder) Base {
	return Base{users: users, resolver: resolver, recorder: recorder}
}

// actor loads the authenticated user. The middleware guarantees a user id is
// present; a missing row means the account was deleted under a live session.
func (b *Base) actor(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		message(c, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		message(c, http.StatusInternalServerError, "Invalid user ID format")
		return nil, false
	}
	user, err := b.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to load user")
		return nil, false
	}
	if user == nil {
		message(c, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return user, true
}

// authorizeBoard resolves the actor's role on board and checks op against
// the policy table. On denial it writes the uniform 403 and returns !ok.
func (b *Base) authorizeBoard(c *gin.Context, board *model.Board, op access.Operation) (*model.User, access.Role, bool) {
	user, ok := b.actor(c)
	if !ok {
		return nil, access.RoleNone, false
	}
	role, err := b.resolver.Role(c.Request.Context(), user.ID, board)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to check board access")
		return nil, access.RoleNone, false
	}
	if err := access.Authorize(user, role, op); err != nil {
		message(c, http.StatusForbidden, "You don't have permission to perform this action")
		return nil, access.RoleNone, false
	}
	return user, role, true
}

// record fills the request context into an audit entry and writes it.
func (b *Base) record(c *gin.Context, action, entityType string, entityID *uuid.UUID, old, new any, metadata map[string]any) {
	e := audit.FromRequest(c)
	e.Action = action
	e.EntityType = entityType
	e.EntityID = entityID
	e.Old = old
	e.New = new
	e.Metadata = metadata
	b.recorder.Record(c.Request.Context(), e)
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
