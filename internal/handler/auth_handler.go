package handler

import (
	"net/http"
	"strings"
	"time"

	"taskboard/internal/audit"
	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Base
	cfg *config.Config
}

func NewAuthHandler(b Base, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Base: b, cfg: cfg}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	SystemRole string `json:"system_role"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func userResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		SystemRole: u.SystemRole,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	req.Email = strings.ToLower(req.Email)

	if existing, err := h.users.FindByEmail(c.Request.Context(), req.Email); err != nil {
		message(c, http.StatusInternalServerError, "Failed to check existing users")
		return
	} else if existing != nil {
		message(c, http.StatusConflict, "User with this email already exists")
		return
	}
	if existing, err := h.users.FindByUsername(c.Request.Context(), req.Username); err != nil {
		message(c, http.StatusInternalServerError, "Failed to check existing users")
		return
	} else if existing != nil {
		message(c, http.StatusConflict, "Username is already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// The very first account becomes the system admin.
	count, err := h.users.Count(c.Request.Context())
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to check existing users")
		return
	}
	systemRole := model.SystemRoleUser
	if count == 0 {
		systemRole = model.SystemRoleAdmin
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: string(hash),
		SystemRole:     systemRole,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if err == repository.ErrDuplicate {
			message(c, http.StatusConflict, "User with this email already exists")
			return
		}
		message(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, sessionID, err := h.issueSession(c, user)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	e := audit.FromRequest(c)
	e.ActorID = &user.ID
	e.SessionID = &sessionID
	e.Action = "register"
	e.EntityType = "user"
	e.EntityID = &user.ID
	e.New = userResponse(user)
	h.recorder.Record(c.Request.Context(), e)

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: userResponse(user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if user == nil {
		message(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		message(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, sessionID, err := h.issueSession(c, user)
	if err != nil {
		message(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	e := audit.FromRequest(c)
	e.ActorID = &user.ID
	e.SessionID = &sessionID
	e.Action = "login"
	e.EntityType = "user"
	e.EntityID = &user.ID
	h.recorder.Record(c.Request.Context(), e)

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: userResponse(user)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cfg.SecureCookie, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// issueSession mints the session token and sets it as an HttpOnly cookie.
// The token is also returned in the body for non-browser clients.
func (h *AuthHandler) issueSession(c *gin.Context, user *model.User) (string, uuid.UUID, error) {
	ttl := time.Duration(h.cfg.SessionHours) * time.Hour
	token, sessionID, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, ttl)
	if err != nil {
		return "", sessionID, err
	}
	c.SetCookie(middleware.SessionCookie, token, int(ttl.Seconds()), "/", "", h.cfg.SecureCookie, true)
	return token, sessionID, nil
}
