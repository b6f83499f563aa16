package model

import (
	"time"

	"github.com/google/uuid"
)

type Label struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_labels_board_name"`
	Name    string    `gorm:"not null;uniqueIndex:idx_labels_board_name"`
	Color   string    `gorm:"not null"`

	Board Board  `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	Cards []Card `gorm:"many2many:card_labels"`
}

// CardLabel is the explicit join row behind the card<->label many2many.
// The composite primary key keeps a label from being attached twice.
type CardLabel struct {
	CardID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	LabelID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Card  Card  `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	Label Label `gorm:"foreignKey:LabelID;constraint:OnDelete:CASCADE"`
}

func (CardLabel) TableName() string { return "card_labels" }

type Priority struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_priorities_board_name"`
	Name    string    `gorm:"not null;uniqueIndex:idx_priorities_board_name"`
	Color   string    `gorm:"not null"`
	Rank    int       `gorm:"not null;default:0"`

	Board Board `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
}

// CardPriority links a card to at most one priority (unique on card_id).
type CardPriority struct {
	CardID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	PriorityID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Card     Card     `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	Priority Priority `gorm:"foreignKey:PriorityID;constraint:OnDelete:CASCADE"`
}
