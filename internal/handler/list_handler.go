package handler

import (
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListHandler struct {
	Base
	listRepo  *repository.ListRepository
	boardRepo *repository.BoardRepository
}

func NewListHandler(b Base, listRepo *repository.ListRepository, boardRepo *repository.BoardRepository) *ListHandler {
	return &ListHandler{Base: b, listRepo: listRepo, boardRepo: boardRepo}
}

type CreateListRequest struct {
	Title string `json:"title" binding:"required"`
}

type UpdateListRequest struct {
	Title string `json:"title" binding:"required"`
}

type ReorderListRequest struct {
	ListID   string `json:"list_id" binding:"required"`
	NewIndex *int   `json:"new_index" binding:"required"`
}

type ListResponse struct {
	ID       string `json:"id"`
	BoardID  string `json:"board_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

func listResponse(list *model.List) ListResponse {
	return ListResponse{
		ID:       list.ID.String(),
		BoardID:  list.BoardID.String(),
		Title:    list.Title,
		Position: list.Position,
	}
}

func (h *ListHandler) loadBoard(c *gin.Context) (*model.Board, bool) {
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

// loadList fetches the list from :id and its owning board.
func (h *ListHandler) loadList(c *gin.Context) (*model.List, *model.Board, bool) {
	listID, ok := parseUUID(c, "id")
	if !ok {
		return nil, nil, false
	}
	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve list")
		return nil, nil, false
	}
	if list == nil {
		message(c, http.StatusNotFound, "List not found")
		return nil, nil, false
	}
	board, err := h.boardRepo.GetByID(c.Request.Context(), list.BoardID)
	if err != nil || board == nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve board")
		return nil, nil, false
	}
	return list, board, true
}

// Create appends a list to the board; the repository assigns max+1.
func (h *ListHandler) Create(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	list := &model.List{BoardID: board.ID, Title: req.Title}
	if err := h.listRepo.Create(c.Request.Context(), list); err != nil {
		message(c, http.StatusInternalServerError, "Failed to create list")
		return
	}

	h.record(c, "create", "list", &list.ID, nil, listResponse(list), nil)
	c.JSON(http.StatusCreated, listResponse(list))
}

func (h *ListHandler) GetByBoard(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	lists, err := h.listRepo.GetByBoardID(c.Request.Context(), board.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve lists")
		return
	}

	response := make([]ListResponse, len(lists))
	for i := range lists {
		response[i] = listResponse(&lists[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ListHandler) Update(c *gin.Context) {
	list, board, ok := h.loadList(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpEditContent); !ok {
		return
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := listResponse(list)
	list.Title = req.Title
	if err := h.listRepo.Update(c.Request.Context(), list); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update list")
		return
	}

	h.record(c, "update", "list", &list.ID, old, listResponse(list), nil)
	c.JSON(http.StatusOK, listResponse(list))
}

func (h *ListHandler) Delete(c *gin.Context) {
	list, board, ok := h.loadList(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpDeleteStructure); !ok {
		return
	}

	if err := h.listRepo.Delete(c.Request.Context(), list.ID); err != nil {
		if err == repository.ErrListNotFound {
			message(c, http.StatusNotFound, "List not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to delete list")
		return
	}

	h.record(c, "delete", "list", &list.ID, listResponse(list), nil, nil)
	c.Status(http.StatusNoContent)
}

// Reorder moves one list to a new index and rewrites the whole board's list
// positions in a single transaction.
func (h *ListHandler) Reorder(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpMove); !ok {
		return
	}

	var req ReorderListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid list ID format")
		return
	}

	if err := h.listRepo.Reorder(c.Request.Context(), board.ID, listID, *req.NewIndex); err != nil {
		if err == repository.ErrListNotFound {
			message(c, http.StatusNotFound, "List not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to reorder lists")
		return
	}

	h.record(c, "reorder", "list", &listID, nil, nil,
		map[string]any{"board_id": board.ID.String(), "new_index": *req.NewIndex})
	c.JSON(http.StatusOK, gin.H{"message": "Lists reordered successfully"})
}
