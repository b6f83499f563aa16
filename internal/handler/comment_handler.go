package handler

import (
	"net/http"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	Base
	commentRepo  *repository.CommentRepository
	cardRepo     *repository.CardRepository
	notification *repository.NotificationRepository
}

func NewCommentHandler(b Base, commentRepo *repository.CommentRepository, cardRepo *repository.CardRepository, notification *repository.NotificationRepository) *CommentHandler {
	return &CommentHandler{Base: b, commentRepo: commentRepo, cardRepo: cardRepo, notification: notification}
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	CardID     string    `json:"card_id"`
	UserID     *string   `json:"user_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func commentResponse(comment *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:         comment.ID.String(),
		CardID:     comment.CardID.String(),
		AuthorName: comment.AuthorName,
		Text:       comment.Content,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
	if comment.UserID != nil {
		id := comment.UserID.String()
		resp.UserID = &id
	}
	return resp
}

func (h *CommentHandler) loadCard(c *gin.Context) (*model.Card, *model.Board, bool) {
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

func (h *CommentHandler) loadComment(c *gin.Context) (*model.Comment, *model.Board, bool) {
	commentID, ok := parseUUID(c, "id")
	if !ok {
		return nil, nil, false
	}
	comment, err := h.commentRepo.GetByID(c.Request.Context(), commentID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve comment")
		return nil, nil, false
	}
	if comment == nil {
		message(c, http.StatusNotFound, "Comment not found")
		return nil, nil, false
	}
	board, err := h.resolver.BoardForCard(c.Request.Context(), comment.CardID)
	if err != nil || board == nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve board")
		return nil, nil, false
	}
	return comment, board, true
}

// Create posts a comment. The author's display name is copied onto the row so
// the comment keeps its attribution if the account is later deleted.
func (h *CommentHandler) Create(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	user, _, ok := h.authorizeBoard(c, board, access.OpComment)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	comment := &model.Comment{
		CardID:     card.ID,
		UserID:     &user.ID,
		AuthorName: user.Name,
		Content:    req.Text,
	}
	if err := h.commentRepo.Create(c.Request.Context(), comment); err != nil {
		message(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	// Notify the card creator, unless they wrote the comment themselves.
	if card.CreatedBy != nil && *card.CreatedBy != user.ID {
		notification := &model.Notification{
			UserID:  *card.CreatedBy,
			Type:    model.NotificationComment,
			Title:   "New comment on " + card.Title,
			Message: user.Name + " commented on " + card.Title,
			Link:    "/cards/" + card.ID.String(),
			CardID:  &card.ID,
			ActorID: &user.ID,
		}
		_ = h.notification.Create(c.Request.Context(), notification)
	}

	h.record(c, "create", "comment", &comment.ID, nil, commentResponse(comment), nil)
	c.JSON(http.StatusCreated, commentResponse(comment))
}

func (h *CommentHandler) GetByCard(c *gin.Context) {
	card, board, ok := h.loadCard(c)
	if !ok {
		return
	}
	if _, _, ok := h.authorizeBoard(c, board, access.OpRead); !ok {
		return
	}

	comments, err := h.commentRepo.GetByCardID(c.Request.Context(), card.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to retrieve comments")
		return
	}

	response := make([]CommentResponse, len(comments))
	for i := range comments {
		response[i] = commentResponse(&comments[i])
	}
	c.JSON(http.StatusOK, response)
}

// canModify reports whether the user may edit or delete the comment.
// Authors always may; anyone else needs owner-level rights, decided by the
// gate so the admin override stays in Authorize.
func canModify(user *model.User, role access.Role, comment *model.Comment) bool {
	if comment.UserID != nil && *comment.UserID == user.ID {
		return true
	}
	return access.Authorize(user, role, access.OpDeleteStructure) == nil
}

func (h *CommentHandler) Update(c *gin.Context) {
	comment, board, ok := h.loadComment(c)
	if !ok {
		return
	}
	user, role, ok := h.authorizeBoard(c, board, access.OpComment)
	if !ok {
		return
	}
	if !canModify(user, role, comment) {
		message(c, http.StatusForbidden, "You don't have permission to perform this action")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := commentResponse(comment)
	comment.Content = req.Text

	if err := h.commentRepo.Update(c.Request.Context(), comment); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	h.record(c, "update", "comment", &comment.ID, old, commentResponse(comment), nil)
	c.JSON(http.StatusOK, commentResponse(comment))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	comment, board, ok := h.loadComment(c)
	if !ok {
		return
	}
	user, role, ok := h.authorizeBoard(c, board, access.OpComment)
	if !ok {
		return
	}
	if !canModify(user, role, comment) {
		message(c, http.StatusForbidden, "You don't have permission to perform this action")
		return
	}

	if err := h.commentRepo.Delete(c.Request.Context(), comment.ID); err != nil {
		message(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	h.record(c, "delete", "comment", &comment.ID, commentResponse(comment), nil, nil)
	c.Status(http.StatusNoContent)
}
