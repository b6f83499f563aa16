package model

import (
	"time"

	"github.com/google/uuid"
)

// Board-level roles, ordered weakest to strongest.
const (
	RoleViewer = "viewer" // read and comment only
	RoleEditor = "editor" // edit content and move cards
	RoleOwner  = "owner"  // everything, including members and deletion
)

// BoardMember grants a user a role on a board. The (board, user) pair is the
// primary key, so a user holds at most one role per board.
type BoardMember struct {
	BoardID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"not null;check:role IN ('owner', 'editor', 'viewer')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Board Board `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
