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

type ChecklistHandler struct {
	Base
	checklistRepo *repository.ChecklistRepository
	cardRepo      *repository.CardRepository
}

func NewChecklistHandler(b Base, checklistRepo *repository.ChecklistRepository, cardRepo *repository.CardRepository) *ChecklistHandler {
	return &ChecklistHandler{Base: b, checklistRepo: checklistRepo, cardRepo: cardRepo}
}

type ChecklistRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

type ChecklistItemRequest struct {
	Content     string     `json:"content" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	ParentID    *string    `json:"parent_id"`
}

type UpdateChecklistItemRequest struct {
	Content     string     `json:"content"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assignee_id"`
}

type ReorderItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	NewIndex *int   `json:"new_index" binding:"required"`
}

type ChecklistResponse struct {
	ID       string `json:"id"`
	CardID   string `json:"card_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type ChecklistItemResponse struct {
	ID          string     `json:"id"`
	ChecklistID string     `json:"checklist_id"`
	Content     string     `json:"content"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Position    int        `json:"position"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
}

func checklistResponse(cl *model.Checklist) ChecklistResponse {
	return ChecklistResponse{
		ID:       cl.ID.String(),
		CardID:   cl.CardID.String(),
		Title:    cl.Title,
		Position: cl.Position,
	}
}

func checklistItemResponse(item *model.ChecklistItem) ChecklistItemResponse {
	resp := ChecklistItemResponse{
		ID:          item.ID.String(),
		ChecklistID: item.ChecklistID.String(),
		Content:     item.Content,
		Description: item.Description,
		Completed:   item.Completed,
		Position:    item.Position,
		DueDate:     item.DueDate,
	}
	if item.AssigneeID != nil {
		id := item.AssigneeID.String()
		resp.AssigneeID = &id
	}
	if item.ParentID != nil {
		id := item.ParentID.String()
		resp.ParentID = &id
	}
	return resp
}

// boardForCard walks card -> list -> board.
func (h *ChecklistHandler) boardForCard(c *gin.Context, cardID uuid.UUID) (*model.Card, *model.Board, bool) {
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

func (h *ChecklistHandler) loadChecklist(c *gin.Context) (*model.Checklist, *model.Board, bool) {
	checklistID, ok := parseUUID(c, "id")
	if !ok {
		return nil, nil, false
	}
	checklist, err := h.checklistRepo.GetByID(c.Request.Context(), checklistID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve checklist")
		return nil, nil, false
	}
	if checklist == nil {
		message(c, http.StatusNotFound, "Checklist not found")
		return nil, nil, false
	}
	_, board, ok := h.boardForCard(c, checklist.CardID)
	if !ok {
		return nil, nil, false
	}
	return checklist, board, true
}

func (h *ChecklistHandler) loadItem(c *gin.Context) (*model.ChecklistItem, *model.Checklist, *model.Board, bool) {
	itemID, ok := parseUUID(c, "id")
	if !ok {
		return nil, nil, nil, false
	}
	item, err := h.checklistRepo.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve checklist item")
		return nil, nil, nil, false
	}
	if item == nil {
		message(c, http.StatusNotFound, "Checklist item not found")
		return nil, nil, nil, false
	}
	checklist, err := h.checklistRepo.GetByID(c.Request.Context(), item.ChecklistID)
	if err != nil || checklist == nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve checklist")
		return nil, nil, nil, false
	}
	_, board, ok := h.boardForCard(c, checklist.CardID)
	if !ok {
		return nil, nil, nil, false
	}
	return item, checklist, board, true
}

func (h *ChecklistHandler) Create(c *gin.Context) {
	cardID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	card, board, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	checklist := &model.Checklist{CardID: card.ID, Title: req.Title}
	if err := h.checklistRepo.Create(c.Request.Context(), checklist); err != nil {
		message(c, http.StatusInternalServerError, "Failed to create checklist")
		return
	}

	h.record(c, "create", "checklist", &checklist.ID, nil, checklistResponse(checklist), nil)
	c.JSON(http.StatusCreated, checklistResponse(checklist))
}

func (h *ChecklistHandler) GetByCard(c *gin.Context) {
	cardID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	card, board, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	checklists, err := h.checklistRepo.GetByCardID(c.Request.Context(), card.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve checklists")
		return
	}

	response := make([]ChecklistResponse, len(checklists))
	for i := range checklists {
		response[i] = checklistResponse(&checklists[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ChecklistHandler) Update(c *gin.Context) {
	checklist, board, ok := h.loadChecklist(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := checklistResponse(checklist)
	checklist.Title = req.Title

	if err := h.checklistRepo.Update(c.Request.Context(), checklist); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update checklist")
		return
	}

	h.record(c, "update", "checklist", &checklist.ID, old, checklistResponse(checklist), nil)
	c.JSON(http.StatusOK, checklistResponse(checklist))
}

func (h *ChecklistHandler) Delete(c *gin.Context) {
	checklist, board, ok := h.loadChecklist(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	if err := h.checklistRepo.Delete(c.Request.Context(), checklist.ID); err != nil {
		if err == repository.ErrChecklistNotFound {
			message(c, http.StatusNotFound, "Checklist not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to delete checklist")
		return
	}

	h.record(c, "delete", "checklist", &checklist.ID, checklistResponse(checklist), nil, nil)
	c.Status(http.StatusNoContent)
}

// CreateItem appends an item to a checklist. Items nest one level deep:
// a parent must belong to the same checklist and be a top-level item.
func (h *ChecklistHandler) CreateItem(c *gin.Context) {
	checklist, board, ok := h.loadChecklist(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req ChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	item := &model.ChecklistItem{
		ChecklistID: checklist.ID,
		Content:     req.Content,
		Description: req.Description,
		DueDate:     req.DueDate,
	}

	if req.ParentID != nil && *req.ParentID != "" {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			message(c, http.StatusBadRequest, "Invalid parent ID format")
			return
		}
		parent, err := h.checklistRepo.GetItemByID(c.Request.Context(), parentID)
		if err != nil {
			message(c, http.StatusInternalServerError, "Failed to retrieve parent item")
			return
		}
		if parent == nil || parent.ChecklistID != checklist.ID {
			message(c, http.StatusBadRequest, "Parent item must belong to the same checklist")
			return
		}
		if parent.ParentID != nil {
			message(c, http.StatusBadRequest, "Checklist items nest at most one level")
			return
		}
		item.ParentID = &parent.ID
	}

	if err := h.checklistRepo.CreateItem(c.Request.Context(), item); err != nil {
		message(c, http.StatusInternalServerError, "Failed to create checklist item")
		return
	}

	h.record(c, "create", "checklist_item", &item.ID, nil, checklistItemResponse(item), nil)
	c.JSON(http.StatusCreated, checklistItemResponse(item))
}

func (h *ChecklistHandler) GetItems(c *gin.Context) {
	checklist, board, ok := h.loadChecklist(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	items, err := h.checklistRepo.GetItems(c.Request.Context(), checklist.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve checklist items")
		return
	}

	response := make([]ChecklistItemResponse, len(items))
	for i := range items {
		response[i] = checklistItemResponse(&items[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ChecklistHandler) UpdateItem(c *gin.Context) {
	item, _, board, ok := h.loadItem(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req UpdateChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := checklistItemResponse(item)

	if req.Content != "" {
		item.Content = req.Content
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Completed != nil {
		item.Completed = *req.Completed
	}
	if req.DueDate != nil {
		item.DueDate = req.DueDate
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			item.AssigneeID = nil
		} else {
			assigneeID, err := uuid.Parse(*req.AssigneeID)
			if err != nil {
				message(c, http.StatusBadRequest, "Invalid assignee ID format")
				return
			}
			item.AssigneeID = &assigneeID
		}
	}

	if err := h.checklistRepo.UpdateItem(c.Request.Context(), item); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update checklist item")
		return
	}

	h.record(c, "update", "checklist_item", &item.ID, old, checklistItemResponse(item), nil)
	c.JSON(http.StatusOK, checklistItemResponse(item))
}

func (h *ChecklistHandler) DeleteItem(c *gin.Context) {
	item, _, board, ok := h.loadItem(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	if err := h.checklistRepo.DeleteItem(c.Request.Context(), item.ID); err != nil {
		if err == repository.ErrChecklistItemNotFound {
			message(c, http.StatusNotFound, "Checklist item not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to delete checklist item")
		return
	}

	h.record(c, "delete", "checklist_item", &item.ID, checklistItemResponse(item), nil, nil)
	c.Status(http.StatusNoContent)
}

func (h *ChecklistHandler) ReorderItems(c *gin.Context) {
	checklist, board, ok := h.loadChecklist(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpMove); !ok {
		return
	}

	var req ReorderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	if err := h.checklistRepo.ReorderItems(c.Request.Context(), checklist.ID, itemID, *req.NewIndex); err != nil {
		if err == repository.ErrChecklistItemNotFound {
			message(c, http.StatusNotFound, "Checklist item not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to reorder checklist items")
		return
	}

	h.record(c, "reorder", "checklist_item", &itemID, nil, nil,
		map[string]any{"checklist_id": checklist.ID.String(), "new_index": *req.NewIndex})
	c.JSON(http.StatusOK, gin.H{"message": "Checklist items reordered"})
}

func (h *ChecklistHandler) AddItemMember(c *gin.Context) {
	item, _, board, ok := h.loadItem(c)
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

	if err := h.checklistRepo.AddItemMember(c.Request.Context(), item.ID, userID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to assign user")
		return
	}

	h.record(c, "create", "checklist_item_member", &item.ID, nil,
		map[string]any{"user_id": userID.String()}, nil)
	c.Status(http.StatusCreated)
}

func (h *ChecklistHandler) RemoveItemMember(c *gin.Context) {
	item, _, board, ok := h.loadItem(c)
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

	if err := h.checklistRepo.RemoveItemMember(c.Request.Context(), item.ID, userID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to unassign user")
		return
	}

	h.record(c, "delete", "checklist_item_member", &item.ID,
		map[string]any{"user_id": userID.String()}, nil, nil)
	c.Status(http.StatusNoContent)
}
