package model

import (
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string     `gorm:"not null"`
	Description string
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PortfolioID *uuid.UUID `gorm:"type:uuid;index"`
	Archived    bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner     User       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Portfolio *Portfolio `gorm:"foreignKey:PortfolioID;constraint:OnDelete:SET NULL"`
}
