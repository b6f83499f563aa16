package repository

import (
	"context"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository only ever inserts and reads. There is deliberately no
// update or delete: the trail is append-only.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// AuditLogFilter narrows the admin listing. Zero values mean "any".
type AuditLogFilter struct {
	Action     string
	EntityType string
	ActorID    *uuid.UUID
	Limit      int
}

func (r *AuditLogRepository) List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []model.AuditLog
	err := query.Limit(limit).Find(&entries).Error
	return entries, err
}
