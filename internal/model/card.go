package model

import (
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ListID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	DueDate     *time.Time
	StartDate   *time.Time
	EndDate     *time.Time
	Completed   bool `gorm:"not null;default:false"`
	Archived    bool `gorm:"not null;default:false"`
	Position    int  `gorm:"not null"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	List    List   `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	Creator *User  `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
	Labels  []Label `gorm:"many2many:card_labels"`
}

// CardMember marks a user as responsible for a card. It is an assignment,
// not an access grant: visibility still comes from the board role.
type CardMember struct {
	CardID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Card Card `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
