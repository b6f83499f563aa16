package model

import (
	"time"

	"github.com/google/uuid"
)

// Portfolio groups boards for its owner. Deleting a portfolio detaches its
// boards (portfolio_id set NULL), it never deletes them.
type Portfolio struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	Color     string    `gorm:"not null;default:'#6366f1'"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
