package handler

import (
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type LabelHandler struct {
	Base
	labelRepo *repository.LabelRepository
	cardRepo  *repository.CardRepository
	boardRepo *repository.BoardRepository
}

func NewLabelHandler(b Base, labelRepo *repository.LabelRepository, cardRepo *repository.CardRepository, boardRepo *repository.BoardRepository) *LabelHandler {
	return &LabelHandler{Base: b, labelRepo: labelRepo, cardRepo: cardRepo, boardRepo: boardRepo}
}

type LabelRequest struct {
	Name  string `json:"name" binding:"required,max=64"`
	Color string `json:"color" binding:"required,max=32"`
}

type LabelResponse struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

func labelResponse(label *model.Label) LabelResponse {
	return LabelResponse{
		ID:      label.ID.String(),
		BoardID: label.BoardID.String(),
		Name:    label.Name,
		Color:   label.Color,
	}
}

func (h *LabelHandler) loadBoard(c *gin.Context) (*model.Board, bool) {
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

func (h *LabelHandler) loadLabel(c *gin.Context) (*model.Label, *model.Board, bool) {
	labelID, ok := parseUUID(c, "id")
	if !ok {
		return nil, nil, false
	}
	label, err := h.labelRepo.GetByID(c.Request.Context(), labelID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve label")
		return nil, nil, false
	}
	if label == nil {
		message(c, http.StatusNotFound, "Label not found")
		return nil, nil, false
	}
	board, err := h.boardRepo.GetByID(c.Request.Context(), label.BoardID)
	if err != nil || board == nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve board")
		return nil, nil, false
	}
	return label, board, true
}

func (h *LabelHandler) Create(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	label := &model.Label{BoardID: board.ID, Name: req.Name, Color: req.Color}
	if err := h.labelRepo.Create(c.Request.Context(), label); err != nil {
		if err == repository.ErrDuplicate {
			message(c, http.StatusConflict, "A label with this name already exists on the board")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to create label")
		return
	}

	h.record(c, "create", "label", &label.ID, nil, labelResponse(label), nil)
	c.JSON(http.StatusCreated, labelResponse(label))
}

func (h *LabelHandler) GetByBoard(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	labels, err := h.labelRepo.GetByBoardID(c.Request.Context(), board.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve labels")
		return
	}

	response := make([]LabelResponse, len(labels))
	for i := range labels {
		response[i] = labelResponse(&labels[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *LabelHandler) Update(c *gin.Context) {
	label, board, ok := h.loadLabel(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := labelResponse(label)
	label.Name = req.Name
	label.Color = req.Color

	if err := h.labelRepo.Update(c.Request.Context(), label); err != nil {
		if err == repository.ErrDuplicate {
			message(c, http.StatusConflict, "A label with this name already exists on the board")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to update label")
		return
	}

	h.record(c, "update", "label", &label.ID, old, labelResponse(label), nil)
	c.JSON(http.StatusOK, labelResponse(label))
}

func (h *LabelHandler) Delete(c *gin.Context) {
	label, board, ok := h.loadLabel(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpDeleteStructure); !ok {
		return
	}

	if err := h.labelRepo.Delete(c.Request.Context(), label.ID); err != nil {
		if err == repository.ErrLabelNotFound {
			message(c, http.StatusNotFound, "Label not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to delete label")
		return
	}

	h.record(c, "delete", "label", &label.ID, labelResponse(label), nil, nil)
	c.Status(http.StatusNoContent)
}

// loadCardBoard resolves the card from :id and the board it ultimately
// belongs to.
func (h *LabelHandler) loadCardBoard(c *gin.Context) (*model.Card, *model.Board, bool) {
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

// AddToCard attaches a board label to a card. Repeating the call is a no-op.
func (h *LabelHandler) AddToCard(c *gin.Context) {
	card, board, ok := h.loadCardBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	labelID, ok := parseUUID(c, "label_id")
	if !ok {
		return
	}
	label, err := h.labelRepo.GetByID(c.Request.Context(), labelID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve label")
		return
	}
	if label == nil {
		message(c, http.StatusNotFound, "Label not found")
		return
	}
	if label.BoardID != board.ID {
		message(c, http.StatusBadRequest, "Label belongs to a different board")
		return
	}

	if err := h.labelRepo.AddToCard(c.Request.Context(), card.ID, label.ID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to attach label")
		return
	}

	h.record(c, "create", "card_label", &card.ID, nil,
		map[string]any{"label_id": label.ID.String()}, nil)
	c.Status(http.StatusCreated)
}

func (h *LabelHandler) RemoveFromCard(c *gin.Context) {
	card, board, ok := h.loadCardBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	labelID, ok := parseUUID(c, "label_id")
	if !ok {
		return
	}

	if err := h.labelRepo.RemoveFromCard(c.Request.Context(), card.ID, labelID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to detach label")
		return
	}

	h.record(c, "delete", "card_label", &card.ID,
		map[string]any{"label_id": labelID.String()}, nil, nil)
	c.Status(http.StatusNoContent)
}

func (h *LabelHandler) GetByCard(c *gin.Context) {
	card, board, ok := h.loadCardBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	labels, err := h.labelRepo.GetByCard(c.Request.Context(), card.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve labels")
		return
	}

	response := make([]LabelResponse, len(labels))
	for i := range labels {
		response[i] = labelResponse(&labels[i])
	}
	c.JSON(http.StatusOK, response)
}
