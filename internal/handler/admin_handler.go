package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AdminHandler exposes the administrative surface. Every route behind it
// requires the caller's system role to be admin; reads here are recorded
// in the audit trail like mutations.
type AdminHandler struct {
	Base
	auditRepo *repository.AuditLogRepository
}

func NewAdminHandler(b Base, auditRepo *repository.AuditLogRepository) *AdminHandler {
	return &AdminHandler{Base: b, auditRepo: auditRepo}
}

type AdminUserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	SystemRole string    `json:"system_role"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuditLogResponse struct {
	ID         string         `json:"id"`
	ActorID    *string        `json:"actor_id,omitempty"`
	SessionID  *string        `json:"session_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Old        map[string]any `json:"old,omitempty"`
	New        map[string]any `json:"new,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// requireAdmin loads the caller and rejects non-admins with the same
// uniform 403 every other denial uses.
func (h *AdminHandler) requireAdmin(c *gin.Context) (*model.User, bool) {
	user, ok := h.actor(c)
	if !ok {
		return nil, false
	}
	if !user.IsAdmin() {
		message(c, http.StatusForbidden, "You don't have permission to perform this action")
		return nil, false
	}
	return user, true
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	search := c.Query("search")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			message(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	users, err := h.users.List(c.Request.Context(), search, limit)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	response := make([]AdminUserResponse, len(users))
	for i, u := range users {
		response[i] = AdminUserResponse{
			ID:         u.ID.String(),
			Username:   u.Username,
			Email:      u.Email,
			Name:       u.Name,
			SystemRole: u.SystemRole,
			CreatedAt:  u.CreatedAt,
		}
	}

	h.record(c, "read", "user_list", nil, nil, nil, map[string]any{"count": len(users)})
	c.JSON(http.StatusOK, response)
}

// DeleteUser removes an account. Admins cannot delete themselves, which
// guarantees the system always keeps at least one admin.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	admin, ok := h.requireAdmin(c)
	if !ok {
		return
	}
	userID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if userID == admin.ID {
		message(c, http.StatusBadRequest, "Administrators cannot delete their own account")
		return
	}

	target, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	if target == nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	h.record(c, "delete", "user", &userID,
		map[string]any{"username": target.Username, "email": target.Email}, nil, nil)
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	filter := repository.AuditLogFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if raw := c.Query("actor_id"); raw != "" {
		actorID, err := uuid.Parse(raw)
		if err != nil {
			message(c, http.StatusBadRequest, "Invalid actor ID format")
			return
		}
		filter.ActorID = &actorID
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			message(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	entries, err := h.auditRepo.List(c.Request.Context(), filter)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve audit log")
		return
	}

	response := make([]AuditLogResponse, len(entries))
	for i := range entries {
		response[i] = auditLogResponse(&entries[i])
	}

	h.record(c, "read", "audit_log", nil, nil, nil, map[string]any{"count": len(entries)})
	c.JSON(http.StatusOK, response)
}

func auditLogResponse(entry *model.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         entry.ID.String(),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		IP:         entry.IP,
		UserAgent:  entry.UserAgent,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.ActorID != nil {
		id := entry.ActorID.String()
		resp.ActorID = &id
	}
	if entry.SessionID != nil {
		id := entry.SessionID.String()
		resp.SessionID = &id
	}
	if entry.EntityID != nil {
		id := entry.EntityID.String()
		resp.EntityID = &id
	}
	resp.Old = decodeSnapshot(entry.OldState)
	resp.New = decodeSnapshot(entry.NewState)
	resp.Metadata = decodeSnapshot(entry.Metadata)
	return resp
}

func decodeSnapshot(raw datatypes.JSON) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	return decoded
}
