package handler

import (
	"net/http"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Base
	notificationRepo *repository.NotificationRepository
}

func NewNotificationHandler(b Base, notificationRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Base: b, notificationRepo: notificationRepo}
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func notificationResponse(n *model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// List returns the caller's notifications, newest first. Soft-deleted
// entries are excluded.
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	notifications, err := h.notificationRepo.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}

	response := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		response[i] = notificationResponse(&notifications[i])
	}
	c.JSON(http.StatusOK, response)
}

// MarkRead flags a notification as read. Only the recipient can do this;
// anyone else gets a 404 since the row is scoped to the caller.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}
	notificationID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationRepo.MarkRead(c.Request.Context(), notificationID, user.ID); err != nil {
		if err == repository.ErrNotificationNotFound {
			message(c, http.StatusNotFound, "Notification not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to update notification")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}
	notificationID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationRepo.SoftDelete(c.Request.Context(), notificationID, user.ID); err != nil {
		if err == repository.ErrNotificationNotFound {
			message(c, http.StatusNotFound, "Notification not found")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to delete notification")
		return
	}

	c.Status(http.StatusNoContent)
}
