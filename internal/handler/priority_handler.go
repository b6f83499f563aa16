package handler

import (
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type PriorityHandler struct {
	Base
	priorityRepo *repository.PriorityRepository
	cardRepo     *repository.CardRepository
	boardRepo    *repository.BoardRepository
}

func NewPriorityHandler(b Base, priorityRepo *repository.PriorityRepository, cardRepo *repository.CardRepository, boardRepo *repository.BoardRepository) *PriorityHandler {
	return &PriorityHandler{Base: b, priorityRepo: priorityRepo, cardRepo: cardRepo, boardRepo: boardRepo}
}

type PriorityRequest struct {
	Name  string `json:"name" binding:"required,max=64"`
	Color string `json:"color" binding:"required,max=32"`
	Rank  int    `json:"rank"`
}

type PriorityResponse struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Rank    int    `json:"rank"`
}

func priorityResponse(p *model.Priority) PriorityResponse {
	return PriorityResponse{
		ID:      p.ID.String(),
		BoardID: p.BoardID.String(),
		Name:    p.Name,
		Color:   p.Color,
		Rank:    p.Rank,
	}
}

func (h *PriorityHandler) loadBoard(c *gin.Context) (*model.Board, bool) {
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

func (h *PriorityHandler) loadPriority(c *gin.Context) (*model.Priority, *model.Board, bool) {
	priorityID, ok := parseUUID(c, "id")
	if !ok {
		return nil, nil, false
	}
	priority, err := h.priorityRepo.GetByID(c.Request.Context(), priorityID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve priority")
		return nil, nil, false
	}
	if priority == nil {
		message(c, http.StatusNotFound, "Priority not found")
		return nil, nil, false
	}
	board, err := h.boardRepo.GetByID(c.Request.Context(), priority.BoardID)
	if err != nil || board == nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve board")
		return nil, nil, false
	}
	return priority, board, true
}

func (h *PriorityHandler) Create(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	priority := &model.Priority{BoardID: board.ID, Name: req.Name, Color: req.Color, Rank: req.Rank}
	if err := h.priorityRepo.Create(c.Request.Context(), priority); err != nil {
		if err == repository.ErrDuplicate {
			message(c, http.StatusConflict, "A priority with this name already exists on the board")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to create priority")
		return
	}

	h.record(c, "create", "priority", &priority.ID, nil, priorityResponse(priority), nil)
	c.JSON(http.StatusCreated, priorityResponse(priority))
}

func (h *PriorityHandler) GetByBoard(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	priorities, err := h.priorityRepo.GetByBoardID(c.Request.Context(), board.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve priorities")
		return
	}

	response := make([]PriorityResponse, len(priorities))
	for i := range priorities {
		response[i] = priorityResponse(&priorities[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *PriorityHandler) Update(c *gin.Context) {
	priority, board, ok := h.loadPriority(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := priorityResponse(priority)
	priority.Name = req.Name
	priority.Color = req.Color
	priority.Rank = req.Rank

	if err := h.priorityRepo.Update(c.Request.Context(), priority); err != nil {
		if err == repository.ErrDuplicate {
			message(c, http.StatusConflict, "A priority with this name already exists on the board")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to update priority")
		return
	}

	h.record(c, "update", "priority", &priority.ID, old, priorityResponse(priority), nil)
	c.JSON(http.StatusOK, priorityResponse(priority))
}

func (h *PriorityHandler) Delete(c *gin.Context) {
	priority, board, ok := h.loadPriority(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpDeleteStructure); !ok {
		return
	}

	if err := h.priorityRepo.Delete(c.Request.Context(), priority.ID); err != nil {
		if err == repository.ErrPriorityNotFound {
			message(c, http.StatusNotFound, "Priority not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to delete priority")
		return
	}

	h.record(c, "delete", "priority", &priority.ID, priorityResponse(priority), nil, nil)
	c.Status(http.StatusNoContent)
}

func (h *PriorityHandler) loadCardBoard(c *gin.Context) (*model.Card, *model.Board, bool) {
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

// SetOnCard assigns a priority to a card, replacing any existing one.
func (h *PriorityHandler) SetOnCard(c *gin.Context) {
	card, board, ok := h.loadCardBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	priorityID, ok := parseUUID(c, "priority_id")
	if !ok {
		return
	}
	priority, err := h.priorityRepo.GetByID(c.Request.Context(), priorityID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve priority")
		return
	}
	if priority == nil {
		message(c, http.StatusNotFound, "Priority not found")
		return
	}
	if priority.BoardID != board.ID {
		message(c, http.StatusBadRequest, "Priority belongs to a different board")
		return
	}

	if err := h.priorityRepo.SetCardPriority(c.Request.Context(), card.ID, priority.ID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to set priority")
		return
	}

	h.record(c, "update", "card_priority", &card.ID, nil,
		map[string]any{"priority_id": priority.ID.String()}, nil)
	c.JSON(http.StatusOK, priorityResponse(priority))
}

func (h *PriorityHandler) ClearFromCard(c *gin.Context) {
	card, board, ok := h.loadCardBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	if err := h.priorityRepo.ClearCardPriority(c.Request.Context(), card.ID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to clear priority")
		return
	}

	h.record(c, "delete", "card_priority", &card.ID, nil, nil, nil)
	c.Status(http.StatusNoContent)
}

func (h *PriorityHandler) GetForCard(c *gin.Context) {
	card, board, ok := h.loadCardBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	priority, err := h.priorityRepo.GetCardPriority(c.Request.Context(), card.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve priority")
		return
	}
	if priority == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, priorityResponse(priority))
}
