package handler

import (
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MemberHandler manages board memberships: invite, role change, removal.
// All of it is owner-or-admin territory (OpManageMembers).
type MemberHandler struct {
	Base
	boardRepo    *repository.BoardRepository
	memberRepo   *repository.BoardMemberRepository
	notification *repository.NotificationRepository
}

func NewMemberHandler(b Base, boardRepo *repository.BoardRepository, memberRepo *repository.BoardMemberRepository, notification *repository.NotificationRepository) *MemberHandler {
	return &MemberHandler{Base: b, boardRepo: boardRepo, memberRepo: memberRepo, notification: notification}
}

type InviteMemberRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=editor viewer"`
}

type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required,oneof=editor viewer"`
}

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (h *MemberHandler) loadBoard(c *gin.Context) (*model.Board, bool) {
	boardID, ok := parseUUID(c, "id")
	if !ok {
		return nil, false
	}
	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve board")
		return nil, false
	}
	if board == nil {
		message(c, http.StatusNotFound, "Board not found")
		return nil, false
	}
	return board, true
}

func (h *MemberHandler) List(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	members, err := h.memberRepo.ListByBoard(c.Request.Context(), board.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve members")
		return
	}

	response := make([]MemberResponse, len(members))
	for i, m := range members {
		response[i] = MemberResponse{
			UserID:   m.UserID.String(),
			Username: m.User.Username,
			Name:     m.User.Name,
			Role:     m.Role,
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Invite(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	actor, _, ok := h.authorizeBoard(c, board, access.OpManageMembers)
	if !ok {
		return
	}

	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	invitee, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if invitee == nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}
	if invitee.ID == board.OwnerID {
		message(c, http.StatusBadRequest, "The board owner is already a member")
		return
	}

	if err := h.memberRepo.Upsert(c.Request.Context(), board.ID, invitee.ID, req.Role); err != nil {
		message(c, http.StatusInternalServerError, "Failed to add member")
		return
	}

	// Notification delivery is best-effort; the membership stands.
	notification := &model.Notification{
		UserID:  invitee.ID,
		Type:    model.NotificationInvite,
		Title:   "You were added to a board",
		Message: actor.Name + " added you to " + board.Title,
		Link:    "/boards/" + board.ID.String(),
		ActorID: &actor.ID,
	}
	_ = h.notification.Create(c.Request.Context(), notification)

	h.record(c, "invite", "board_member", &board.ID, nil,
		MemberResponse{UserID: invitee.ID.String(), Username: invitee.Username, Name: invitee.Name, Role: req.Role},
		map[string]any{"board_id": board.ID.String()})

	c.JSON(http.StatusCreated, MemberResponse{
		UserID:   invitee.ID.String(),
		Username: invitee.Username,
		Name:     invitee.Name,
		Role:     req.Role,
	})
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpManageMembers); !ok {
		return
	}

	userID, ok := parseUUID(c, "user_id")
	if !ok {
		return
	}
	if userID == board.OwnerID {
		message(c, http.StatusBadRequest, "The owner's role cannot be changed")
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	current, err := h.memberRepo.GetRole(c.Request.Context(), board.ID, userID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to look up membership")
		return
	}
	if current == "" {
		message(c, http.StatusNotFound, "Membership not found")
		return
	}

	if err := h.memberRepo.Upsert(c.Request.Context(), board.ID, userID, req.Role); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update member")
		return
	}

	h.record(c, "update", "board_member", &board.ID,
		map[string]any{"user_id": userID.String(), "role": current},
		map[string]any{"user_id": userID.String(), "role": req.Role}, nil)
	c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "role": req.Role})
}

func (h *MemberHandler) Remove(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpManageMembers); !ok {
		return
	}

	userID, ok := parseUUID(c, "user_id")
	if !ok {
		return
	}
	if userID == board.OwnerID {
		message(c, http.StatusBadRequest, "The owner cannot be removed")
		return
	}

	if err := h.memberRepo.Remove(c.Request.Context(), board.ID, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			message(c, http.StatusNotFound, "Membership not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to remove member")
		return
	}

	h.record(c, "delete", "board_member", &board.ID,
		map[string]any{"user_id": userID.String()}, nil, nil)
	c.Status(http.StatusNoContent)
}
