package middleware

import (
	"net/http"
	"strings"

	"taskboard/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDKey is the gin context key holding the authenticated user's uuid.
	UserIDKey = "userID"
	// SessionIDKey holds the session uuid from the token, used by the audit trail.
	SessionIDKey = "sessionID"

	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "session"
)

// SessionAuth authenticates a request from the session cookie, falling back
// to an Authorization: Bearer header. Missing or invalid credentials end the
// request with 401.
func SessionAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""

		if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
			tokenStr = cookie
		} else if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}

		claims, err := auth.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired session"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(SessionIDKey, claims.SessionID)
		c.Next()
	}
}
