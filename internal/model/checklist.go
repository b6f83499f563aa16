package model

import (
	"time"

	"github.com/google/uuid"
)

type Checklist struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title    string    `gorm:"not null"`
	Position int       `gorm:"not null"`

	Card Card `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
}

// ChecklistItem supports one level of nesting: an item may reference a
// parent item in the same checklist, a parent may not have a parent itself.
type ChecklistItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ChecklistID uuid.UUID `gorm:"type:uuid;not null;index"`
	Content     string    `gorm:"not null"`
	Description string
	Completed   bool `gorm:"not null;default:false"`
	Position    int  `gorm:"not null"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid"`
	DueDate     *time.Time
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`

	Checklist Checklist      `gorm:"foreignKey:ChecklistID;constraint:OnDelete:CASCADE"`
	Assignee  *User          `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL"`
	Parent    *ChecklistItem `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

type ChecklistItemMember struct {
	ChecklistItemID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	ChecklistItem ChecklistItem `gorm:"foreignKey:ChecklistItemID;constraint:OnDelete:CASCADE"`
	User          User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
