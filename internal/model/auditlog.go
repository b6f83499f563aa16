package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is append-only: rows are written after a mutation commits and are
// never updated or deleted by the application. ActorID is nullable because
// system-initiated events (overdue scans) have no acting user.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index"`
	SessionID  *uuid.UUID `gorm:"type:uuid"`
	Action     string     `gorm:"not null;index"`
	EntityType string     `gorm:"not null;index"`
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	IP         string
	UserAgent  string
	OldState   datatypes.JSON
	NewState   datatypes.JSON
	Metadata   datatypes.JSON
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`

	Actor *User `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL"`
}
