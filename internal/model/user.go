package model

import (
	"time"

	"github.com/google/uuid"
)

// System-wide roles. Board-level roles live on BoardMember.
const (
	SystemRoleAdmin = "admin"
	SystemRoleUser  = "user"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Username       string    `gorm:"uniqueIndex;not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`
	AvatarURL      string
	SystemRole     string    `gorm:"not null;default:'user';check:system_role IN ('admin', 'user')"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (u *User) IsAdmin() bool {
	return u.SystemRole == SystemRoleAdmin
}
