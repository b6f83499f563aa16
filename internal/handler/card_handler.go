package handler

import (
	"net/http"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	Base
	cardRepo     *repository.CardRepository
	listRepo     *repository.ListRepository
	boardRepo    *repository.BoardRepository
	memberRepo   *repository.BoardMemberRepository
	notification *repository.NotificationRepository
}

func NewCardHandler(b Base, cardRepo *repository.CardRepository, listRepo *repository.ListRepository, boardRepo *repository.BoardRepository, memberRepo *repository.BoardMemberRepository, notification *repository.NotificationRepository) *CardHandler {
	return &CardHandler{
		Base:         b,
		cardRepo:     cardRepo,
		listRepo:     listRepo,
		boardRepo:    boardRepo,
		memberRepo:   memberRepo,
		notification: notification,
	}
}

type CreateCardRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type UpdateCardRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Completed   *bool      `json:"completed"`
	Archived    *bool      `json:"archived"`
}

type MoveCardRequest struct {
	ListID   string `json:"list_id" binding:"required"`
	NewIndex *int   `json:"new_index" binding:"required"`
}

type CardResponse struct {
	ID          string     `json:"id"`
	ListID      string     `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Completed   bool            `json:"completed"`
	Archived    bool            `json:"archived"`
	Position    int             `json:"position"`
	Labels      []LabelResponse `json:"labels,omitempty"`
}

func cardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:          card.ID.String(),
		ListID:      card.ListID.String(),
		Title:       card.Title,
		Description: card.Description,
		DueDate:     card.DueDate,
		StartDate:   card.StartDate,
		EndDate:     card.EndDate,
		Completed:   card.Completed,
		Archived:    card.Archived,
		Position:    card.Position,
	}
	for i := range card.Labels {
		resp.Labels = append(resp.Labels, labelResponse(&card.Labels[i]))
	}
	return resp
}

// validDateRange enforces start <= end when both are set.
func validDateRange(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !start.After(*end)
}

// loadCard fetches the card from :id and walks up to its board.
func (h *CardHandler) loadCard(c *gin.Context) (*model.Card, *model.Board, bool) {
	cardID, ok := parseUUID(c, "id")
	if !ok {
		return nil, nil, false
	}
	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve card")
		return nil, nil, false
	}
	if card == nil {
		message(c, http.StatusNotFound, "Card not found")
		return nil, nil, false
	}
	board, err := h.resolver.BoardForList(c.Request.Context(), card.ListID)
	if err != nil || board == nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve board")
		return nil, nil, false
	}
	return card, board, true
}

func (h *CardHandler) Create(c *gin.Context) {
	listID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve list")
		return
	}
	if list == nil {
		message(c, http.StatusNotFound, "List not found")
		return
	}
	board, err := h.boardRepo.GetByID(c.Request.Context(), list.BoardID)
	if err != nil || board == nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve board")
		return
	}
	user, _, ok := h.authorizeBoard(c, board, access.OpEditContent)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	if !validDateRange(req.StartDate, req.EndDate) {
		message(c, http.StatusBadRequest, "Start date must not be after end date")
		return
	}

	card := &model.Card{
		ListID:      list.ID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   &user.ID,
	}

	if err := h.cardRepo.Create(c.Request.Context(), card); err != nil {
		message(c, http.StatusInternalServerError, "Failed to create card")
		return
	}

	h.record(c, "create", "card", &card.ID, nil, cardResponse(card), nil)
	c.JSON(http.StatusCreated, cardResponse(card))
}

func (h *CardHandler) GetByList(c *gin.Context) {
	listID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	board, err := h.resolver.BoardForList(c.Request.Context(), listID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve list")
		return
	}
	if board == nil {
		message(c, http.StatusNotFound, "List not found")
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	cards, err := h.cardRepo.GetWithLabels(c.Request.Context(), listID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *CardHandler) GetByID(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}
	c.JSON(http.StatusOK, cardResponse(card))
}

func (h *CardHandler) Update(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := cardResponse(card)

	if req.Title != "" {
		card.Title = req.Title
	}
	if req.Description != nil {
		card.Description = *req.Description
	}
	if req.DueDate != nil {
		card.DueDate = req.DueDate
	}
	if req.StartDate != nil {
		card.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		card.EndDate = req.EndDate
	}
	if !validDateRange(card.StartDate, card.EndDate) {
		message(c, http.StatusBadRequest, "Start date must not be after end date")
		return
	}
	if req.Completed != nil {
		card.Completed = *req.Completed
	}
	if req.Archived != nil {
		card.Archived = *req.Archived
	}

	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update card")
		return
	}

	h.record(c, "update", "card", &card.ID, old, cardResponse(card), nil)
	c.JSON(http.StatusOK, cardResponse(card))
}

func (h *CardHandler) Delete(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	if err := h.cardRepo.Delete(c.Request.Context(), card.ID); err != nil {
		if err == repository.ErrCardNotFound {
			message(c, http.StatusNotFound, "Card not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to delete card")
		return
	}

	h.record(c, "delete", "card", &card.ID, cardResponse(card), nil, nil)
	c.Status(http.StatusNoContent)
}

type CompleteCardRequest struct {
	Completed *bool `json:"completed"`
}

// Complete marks a card done. A body of {"completed": false} reopens it;
// no body means complete.
func (h *CardHandler) Complete(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	completed := true
	var req CompleteCardRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Completed != nil {
		completed = *req.Completed
	}

	old := cardResponse(card)
	card.Completed = completed

	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update card")
		return
	}

	h.record(c, "complete", "card", &card.ID, old, cardResponse(card), nil)
	c.JSON(http.StatusOK, cardResponse(card))
}

// Move re-parents a card (possibly across lists) and recomputes positions in
// both affected lists. The destination must belong to the same board.
func (h *CardHandler) Move(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpMove); !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	destListID, err := uuid.Parse(req.ListID)
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid list ID format")
		return
	}

	destList, err := h.listRepo.GetByID(c.Request.Context(), destListID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve list")
		return
	}
	if destList == nil {
		message(c, http.StatusNotFound, "List not found")
		return
	}
	if destList.BoardID != board.ID {
		message(c, http.StatusBadRequest, "Cards can only move within their board")
		return
	}

	sourceListID := card.ListID
	if err := h.cardRepo.Move(c.Request.Context(), card.ID, destListID, *req.NewIndex); err != nil {
		if err == repository.ErrCardNotFound {
			message(c, http.StatusNotFound, "Card not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to move card")
		return
	}

	// The audit pair records landed positions, so re-fetch before recording.
	position := *req.NewIndex
	moved, err := h.cardRepo.GetByID(c.Request.Context(), card.ID)
	if err == nil && moved != nil {
		position = moved.Position
	}

	h.record(c, "move", "card", &card.ID,
		map[string]any{"list_id": sourceListID.String(), "position": card.Position},
		map[string]any{"list_id": destListID.String(), "position": position}, nil)

	if moved == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Card moved successfully"})
		return
	}
	c.JSON(http.StatusOK, cardResponse(moved))
}

// AddMember assigns a user to the card. Assignees must already be board
// members: assignment never grants access by itself.
func (h *CardHandler) AddMember(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	actor, _, ok := h.authorizeBoard(c, board, access.OpEditContent)
	if !ok {
		return
	}

	userID, ok := parseUUID(c, "user_id")
	if !ok {
		return
	}

	role, err := h.memberRepo.GetRole(c.Request.Context(), board.ID, userID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to look up membership")
		return
	}
	if role == "" && userID != board.OwnerID {
		message(c, http.StatusBadRequest, "Assignees must be members of the board")
		return
	}

	if err := h.cardRepo.AddMember(c.Request.Context(), card.ID, userID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to assign user")
		return
	}

	if userID != actor.ID {
		notification := &model.Notification{
			UserID:  userID,
			Type:    model.NotificationAssigned,
			Title:   "You were assigned a card",
			Message: actor.Name + " assigned you to " + card.Title,
			Link:    "/cards/" + card.ID.String(),
			CardID:  &card.ID,
			ActorID: &actor.ID,
		}
		_ = h.notification.Create(c.Request.Context(), notification)
	}

	h.record(c, "create", "card_member", &card.ID, nil,
		map[string]any{"user_id": userID.String()}, nil)
	c.Status(http.StatusCreated)
}

func (h *CardHandler) RemoveMember(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	userID, ok := parseUUID(c, "user_id")
	if !ok {
		return
	}

	if err := h.cardRepo.RemoveMember(c.Request.Context(), card.ID, userID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to unassign user")
		return
	}

	h.record(c, "delete", "card_member", &card.ID,
		map[string]any{"user_id": userID.String()}, nil, nil)
	c.Status(http.StatusNoContent)
}

func (h *CardHandler) Members(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	members, err := h.cardRepo.Members(c.Request.Context(), card.ID)
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
		}
	}
	c.JSON(http.StatusOK, response)
}
