package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a session token. SessionID identifies the login session
// for the audit trail; a fresh one is minted on every login.
type Claims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

func GenerateToken(secret string, userID uuid.UUID, ttl time.Duration) (string, uuid.UUID, error) {
	sessionID := uuid.New()
	claims := jwt.MapClaims{
		"user_id":    userID.String(),
		"session_id": sessionID.String(),
		"exp":        time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, sessionID, err
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil {
		return nil, errors.New("invalid claims")
	}

	userStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return nil, errors.New("invalid claims")
	}

	out := &Claims{UserID: userID}
	if s, ok := claims["session_id"].(string); ok {
		if sessionID, err := uuid.Parse(s); err == nil {
			out.SessionID = sessionID
		}
	}
	return out, nil
}
