package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a card, optionally to a checklist item of that card.
// AuthorName is a snapshot taken at creation so the comment survives the
// author's deletion with its attribution intact; it is never refreshed.
type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CardID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	ChecklistItemID *uuid.UUID `gorm:"type:uuid;index"`
	UserID          *uuid.UUID `gorm:"type:uuid"`
	AuthorName      string     `gorm:"not null"`
	Content         string     `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Card          Card           `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	ChecklistItem *ChecklistItem `gorm:"foreignKey:ChecklistItemID;constraint:OnDelete:CASCADE"`
	User          *User          `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}
