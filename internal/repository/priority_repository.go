package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPriorityNotFound = errors.New("priority not found")

type PriorityRepository struct {
	db *gorm.DB
}

func NewPriorityRepository(db *gorm.DB) *PriorityRepository {
	return &PriorityRepository{db: db}
}

func (r *PriorityRepository) Create(ctx context.Context, priority *model.Priority) error {
	err := r.db.WithContext(ctx).Create(priority).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *PriorityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Priority, error) {
	var priority model.Priority
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&priority).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &priority, nil
}

func (r *PriorityRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Priority, error) {
	var priorities []model.Priority
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("name").Find(&priorities).Error
	return priorities, err
}

func (r *PriorityRepository) Update(ctx context.Context, priority *model.Priority) error {
	err := r.db.WithContext(ctx).Save(priority).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *PriorityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Priority{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPriorityNotFound
	}
	return nil
}

// SetCardPriority gives the card the priority, replacing any previous one.
// The card_id primary key makes "one priority per card" a constraint, the
// upsert makes setting it race-safe.
func (r *PriorityRepository) SetCardPriority(ctx context.Context, cardID, priorityID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO card_priorities (card_id, priority_id, created_at) VALUES (?, ?, NOW())
		 ON CONFLICT (card_id) DO UPDATE SET priority_id = EXCLUDED.priority_id`,
		cardID, priorityID,
	).Error
}

func (r *PriorityRepository) ClearCardPriority(ctx context.Context, cardID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM card_priorities WHERE card_id = ?", cardID,
	).Error
}

// GetCardPriority returns the card's priority, nil when unset.
func (r *PriorityRepository) GetCardPriority(ctx context.Context, cardID uuid.UUID) (*model.Priority, error) {
	var priority model.Priority
	err := r.db.WithContext(ctx).
		Joins("JOIN card_priorities ON card_priorities.priority_id = priorities.id").
		Where("card_priorities.card_id = ?", cardID).
		First(&priority).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &priority, nil
}
