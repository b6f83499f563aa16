package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.SessionAuth(testSecret))
	protected.GET("/resource", func(c *gin.Context) {
		userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
		sessionID := c.MustGet(middleware.SessionIDKey).(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{
			"user_id":    userID.String(),
			"session_id": sessionID.String(),
		})
	})

	return r
}

func TestSessionAuth_ValidCookie(t *testing.T) {
	router := setupRouter()
	userID := uuid.New()
	token, _, err := auth.GenerateToken(testSecret, userID, time.Hour)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), userID.String())
}

func TestSessionAuth_BearerFallback(t *testing.T) {
	router := setupRouter()
	userID := uuid.New()
	token, _, err := auth.GenerateToken(testSecret, userID, time.Hour)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), userID.String())
}

func TestSessionAuth_NoCredentials(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest(http.MethodGet, "/protected/resource", nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "message")
}

func TestSessionAuth_InvalidToken(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest(http.MethodGet, "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "garbage"})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	router := setupRouter()
	token, _, err := auth.GenerateToken(testSecret, uuid.New(), -time.Minute)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSessionAuth_CookieTakesPrecedence(t *testing.T) {
	router := setupRouter()
	cookieUser := uuid.New()
	cookieToken, _, err := auth.GenerateToken(testSecret, cookieUser, time.Hour)
	assert.NoError(t, err)
	headerToken, _, err := auth.GenerateToken(testSecret, uuid.New(), time.Hour)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), cookieUser.String())
}
