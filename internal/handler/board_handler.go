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

type BoardHandler struct {
	Base
	boardRepo     *repository.BoardRepository
	portfolioRepo *repository.PortfolioRepository
}

func NewBoardHandler(b Base, boardRepo *repository.BoardRepository, portfolioRepo *repository.PortfolioRepository) *BoardHandler {
	return &BoardHandler{Base: b, boardRepo: boardRepo, portfolioRepo: portfolioRepo}
}

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	PortfolioID string `json:"portfolio_id"`
}

type UpdateBoardRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	PortfolioID *string `json:"portfolio_id"`
	Archived    *bool   `json:"archived"`
}

type BoardResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	PortfolioID string `json:"portfolio_id,omitempty"`
	Archived    bool   `json:"archived"`
	CreatedAt   string `json:"created_at"`
}

func boardResponse(board *model.Board) BoardResponse {
	resp := BoardResponse{
		ID:          board.ID.String(),
		Title:       board.Title,
		Description: board.Description,
		OwnerID:     board.OwnerID.String(),
		Archived:    board.Archived,
		CreatedAt:   board.CreatedAt.Format(time.RFC3339),
	}
	if board.PortfolioID != nil {
		resp.PortfolioID = board.PortfolioID.String()
	}
	return resp
}

func (h *BoardHandler) Create(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	board := &model.Board{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     user.ID,
	}

	if req.PortfolioID != "" {
		portfolioID, err := uuid.Parse(req.PortfolioID)
		if err != nil {
			message(c, http.StatusBadRequest, "Invalid portfolio ID format")
			return
		}
		portfolio, err := h.portfolioRepo.GetByID(c.Request.Context(), portfolioID)
		if err != nil {
			message(c, http.StatusInternalServerError, "Failed to retrieve portfolio")
			return
		}
		if portfolio == nil || portfolio.OwnerID != user.ID {
			message(c, http.StatusNotFound, "Portfolio not found")
			return
		}
		board.PortfolioID = &portfolioID
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		message(c, http.StatusInternalServerError, "Failed to create board")
		return
	}

	h.record(c, "create", "board", &board.ID, nil, boardResponse(board), nil)
	c.JSON(http.StatusCreated, boardResponse(board))
}

func (h *BoardHandler) GetAll(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetForUser(c.Request.Context(), user.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve boards")
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// loadBoard fetches the board from the :id param, 404s when absent.
func (h *BoardHandler) loadBoard(c *gin.Context) (*model.Board, bool) {
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

func (h *BoardHandler) GetByID(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}
	c.JSON(http.StatusOK, boardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	// Archiving is a structural toggle reserved for the owner; content
	// edits are open to editors.
	op := access.OpEditContent
	if req.Archived != nil {
		op = access.OpDeleteStructure
	}
	user, _, ok := h.authorizeBoard(c, board, op)
	if !ok {
		return
	}

	old := boardResponse(board)

	if req.Title != "" {
		board.Title = req.Title
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.Archived != nil {
		board.Archived = *req.Archived
	}
	if req.PortfolioID != nil {
		if *req.PortfolioID == "" {
			board.PortfolioID = nil
		} else {
			portfolioID, err := uuid.Parse(*req.PortfolioID)
			if err != nil {
				message(c, http.StatusBadRequest, "Invalid portfolio ID format")
				return
			}
			portfolio, err := h.portfolioRepo.GetByID(c.Request.Context(), portfolioID)
			if err != nil {
				message(c, http.StatusInternalServerError, "Failed to retrieve portfolio")
				return
			}
			if portfolio == nil || portfolio.OwnerID != user.ID {
				message(c, http.StatusNotFound, "Portfolio not found")
				return
			}
			board.PortfolioID = &portfolioID
		}
	}

	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update board")
		return
	}

	h.record(c, "update", "board", &board.ID, old, boardResponse(board), nil)
	c.JSON(http.StatusOK, boardResponse(board))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	board, ok := h.loadBoard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpDeleteStructure); !ok {
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), board.ID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to delete board")
		return
	}

	h.record(c, "delete", "board", &board.ID, boardResponse(board), nil, nil)
	c.Status(http.StatusNoContent)
}
