package handler

import (
	"net/http"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PortfolioHandler struct {
	Base
	portfolioRepo *repository.PortfolioRepository
	boardRepo     *repository.BoardRepository
}

func NewPortfolioHandler(b Base, portfolioRepo *repository.PortfolioRepository, boardRepo *repository.BoardRepository) *PortfolioHandler {
	return &PortfolioHandler{Base: b, portfolioRepo: portfolioRepo, boardRepo: boardRepo}
}

type CreatePortfolioRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type UpdatePortfolioRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PortfolioResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	OwnerID string `json:"owner_id"`
}

func portfolioResponse(p *model.Portfolio) PortfolioResponse {
	return PortfolioResponse{
		ID:      p.ID.String(),
		Name:    p.Name,
		Color:   p.Color,
		OwnerID: p.OwnerID.String(),
	}
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	portfolio := &model.Portfolio{
		Name:    req.Name,
		OwnerID: user.ID,
	}
	if req.Color != "" {
		portfolio.Color = req.Color
	}

	if err := h.portfolioRepo.Create(c.Request.Context(), portfolio); err != nil {
		message(c, http.StatusInternalServerError, "Failed to create portfolio")
		return
	}

	h.record(c, "create", "portfolio", &portfolio.ID, nil, portfolioResponse(portfolio), nil)
	c.JSON(http.StatusCreated, portfolioResponse(portfolio))
}

func (h *PortfolioHandler) GetAll(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	portfolios, err := h.portfolioRepo.GetByOwner(c.Request.Context(), user.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve portfolios")
		return
	}

	response := make([]PortfolioResponse, len(portfolios))
	for i := range portfolios {
		response[i] = portfolioResponse(&portfolios[i])
	}
	c.JSON(http.StatusOK, response)
}

// load fetches the portfolio and verifies the caller owns it (or is the
// system admin). Portfolios have no membership layer: owner-or-admin only.
func (h *PortfolioHandler) load(c *gin.Context) (*model.User, *model.Portfolio, bool) {
	user, ok := h.actor(c)
	if !ok {
		return nil, nil, false
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return nil, nil, false
	}
	portfolio, err := h.portfolioRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve portfolio")
		return nil, nil, false
	}
	if portfolio == nil {
		message(c, http.StatusNotFound, "Portfolio not found")
		return nil, nil, false
	}
	if portfolio.OwnerID != user.ID && !user.IsAdmin() {
		message(c, http.StatusForbidden, "You don't have permission to perform this action")
		return nil, nil, false
	}
	return user, portfolio, true
}

func (h *PortfolioHandler) GetByID(c *gin.Context) {
	_, portfolio, ok := h.load(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetByPortfolio(c.Request.Context(), portfolio.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve boards")
		return
	}

	boardsOut := make([]BoardResponse, len(boards))
	for i := range boards {
		boardsOut[i] = boardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"portfolio": portfolioResponse(portfolio),
		"boards":    boardsOut,
	})
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	_, portfolio, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := portfolioResponse(portfolio)
	if req.Name != "" {
		portfolio.Name = req.Name
	}
	if req.Color != "" {
		portfolio.Color = req.Color
	}

	if err := h.portfolioRepo.Update(c.Request.Context(), portfolio); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update portfolio")
		return
	}

	h.record(c, "update", "portfolio", &portfolio.ID, old, portfolioResponse(portfolio), nil)
	c.JSON(http.StatusOK, portfolioResponse(portfolio))
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	_, portfolio, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.portfolioRepo.Delete(c.Request.Context(), portfolio.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			message(c, http.StatusNotFound, "Portfolio not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to delete portfolio")
		return
	}

	h.record(c, "delete", "portfolio", &portfolio.ID, portfolioResponse(portfolio), nil, nil)
	c.Status(http.StatusNoContent)
}
