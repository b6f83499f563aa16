package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"
	"taskboard/internal/position"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create inserts the list at the end of its board (max position + 1, 0 for
// an empty board).
func (r *ListRepository) Create(ctx context.Context, list *model.List) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var siblings []model.List
		if err := tx.Where("board_id = ?", list.BoardID).Find(&siblings).Error; err != nil {
			return err
		}
		list.Position = position.Append(listEntries(siblings))
		return tx.Create(list).Error
	})
}

func (r *ListRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.List, error) {
	var list model.List
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

func (r *ListRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.List, error) {
	var lists []model.List
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position").Find(&lists).Error
	return lists, err
}

func (r *ListRepository) Update(ctx context.Context, list *model.List) error {
	return r.db.WithContext(ctx).Save(list).Error
}

// Delete removes the list (cards cascade away) and compacts the positions of
// the remaining lists so the board keeps a dense order.
func (r *ListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list model.List
		if err := tx.Where("id = ?", id).First(&list).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListNotFound
			}
			return err
		}
		if err := tx.Delete(&model.List{}, "id = ?", id).Error; err != nil {
			return err
		}
		var siblings []model.List
		if err := tx.Where("board_id = ?", list.BoardID).Order("position").Find(&siblings).Error; err != nil {
			return err
		}
		for id, pos := range position.Compact(listEntries(siblings)) {
			if err := tx.Model(&model.List{}).Where("id = ?", id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Reorder recomputes positions for the whole board after moving one list to
// newIndex. All rows are rewritten in one transaction or none are.
func (r *ListRepository) Reorder(ctx context.Context, boardID, movedID uuid.UUID, newIndex int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var siblings []model.List
		if err := tx.Where("board_id = ?", boardID).Order("position").Find(&siblings).Error; err != nil {
			return err
		}
		updates, err := position.Reorder(listEntries(siblings), movedID, newIndex)
		if err != nil {
			return ErrListNotFound
		}
		for id, pos := range updates {
			if err := tx.Model(&model.List{}).Where("id = ?", id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func listEntries(lists []model.List) []position.Entry {
	entries := make([]position.Entry, len(lists))
	for i, l := range lists {
		entries[i] = position.Entry{ID: l.ID, Position: l.Position}
	}
	return entries
}
