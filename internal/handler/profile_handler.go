package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type ProfileHandler struct {
	Base
	cfg *config.Config
}

func NewProfileHandler(b Base, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{Base: b, cfg: cfg}
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2"`
	Email string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	old := userResponse(user)

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = strings.ToLower(req.Email)
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		if err == repository.ErrDuplicate {
			message(c, http.StatusConflict, "Email is already in use")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	h.record(c, "update", "user", &user.ID, old, userResponse(user), nil)
	c.JSON(http.StatusOK, userResponse(user))
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.CurrentPassword)); err != nil {
		message(c, http.StatusForbidden, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	user.HashedPassword = string(hash)

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	// Credentials never go into snapshots; the event alone is recorded.
	h.record(c, "change-password", "user", &user.ID, nil, nil, nil)
	c.Status(http.StatusNoContent)
}

// UploadAvatar accepts an image file, size-capped, stored under a
// server-managed path with a generated name.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		message(c, http.StatusBadRequest, "Missing avatar file")
		return
	}
	if file.Size > h.cfg.AvatarMaxBytes {
		message(c, http.StatusBadRequest, "Avatar file is too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := avatarExtensions[contentType]
	if !ok {
		message(c, http.StatusBadRequest, "Avatar must be a PNG, JPEG or WebP image")
		return
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dest := filepath.Join(h.cfg.AvatarDir, filename)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		message(c, http.StatusInternalServerError, "Failed to store avatar")
		return
	}

	old := userResponse(user)
	user.AvatarURL = "/uploads/avatars/" + filename
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		message(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	h.record(c, "update", "user", &user.ID, old, userResponse(user), map[string]any{"avatar": filename})
	c.JSON(http.StatusOK, userResponse(user))
}

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}
