package handler

import (
	"net/http"
	"time"

	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves cross-board views of the caller's assigned cards.
type DashboardHandler struct {
	Base
	cardRepo *repository.CardRepository
}

func NewDashboardHandler(b Base, cardRepo *repository.CardRepository) *DashboardHandler {
	return &DashboardHandler{Base: b, cardRepo: cardRepo}
}

const dueSoonWindow = 72 * time.Hour

type DashboardResponse struct {
	Assigned []CardResponse `json:"assigned"`
	DueSoon  []CardResponse `json:"due_soon"`
	Overdue  []CardResponse `json:"overdue"`
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}
	now := time.Now().UTC()

	assigned, err := h.cardRepo.AssignedTo(c.Request.Context(), user.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve dashboard")
		return
	}
	dueSoon, err := h.cardRepo.DueSoonForUser(c.Request.Context(), user.ID, now, dueSoonWindow)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve dashboard")
		return
	}
	overdue, err := h.cardRepo.OverdueForUser(c.Request.Context(), user.ID, now)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve dashboard")
		return
	}

	response := DashboardResponse{
		Assigned: make([]CardResponse, len(assigned)),
		DueSoon:  make([]CardResponse, len(dueSoon)),
		Overdue:  make([]CardResponse, len(overdue)),
	}
	for i := range assigned {
		response.Assigned[i] = cardResponse(&assigned[i])
	}
	for i := range dueSoon {
		response.DueSoon[i] = cardResponse(&dueSoon[i])
	}
	for i := range overdue {
		response.Overdue[i] = cardResponse(&overdue[i])
	}

	h.record(c, "read", "dashboard", nil, nil, nil, map[string]any{
		"assigned": len(assigned),
		"due_soon": len(dueSoon),
		"overdue":  len(overdue),
	})
	c.JSON(http.StatusOK, response)
}

func (h *DashboardHandler) Overdue(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	overdue, err := h.cardRepo.OverdueForUser(c.Request.Context(), user.ID, time.Now().UTC())
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve overdue cards")
		return
	}

	response := make([]CardResponse, len(overdue))
	for i := range overdue {
		response[i] = cardResponse(&overdue[i])
	}
	c.JSON(http.StatusOK, response)
}
