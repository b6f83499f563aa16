package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationInvite      = "board_invite"
	NotificationAssigned    = "card_assigned"
	NotificationComment     = "card_comment"
	NotificationCardOverdue = "card_overdue"
)

type Notification struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type            string     `gorm:"not null"`
	Title           string     `gorm:"not null"`
	Message         string
	Read            bool `gorm:"not null;default:false"`
	Deleted         bool `gorm:"not null;default:false"`
	Link            string
	CardID          *uuid.UUID `gorm:"type:uuid"`
	ChecklistItemID *uuid.UUID `gorm:"type:uuid"`
	ActorID         *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`

	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Actor *User `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL"`
}
