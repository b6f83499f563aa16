package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"
	"taskboard/internal/position"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrChecklistNotFound     = errors.New("checklist not found")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
)

type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// Create inserts the checklist at the end of its card.
func (r *ChecklistRepository) Create(ctx context.Context, checklist *model.Checklist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var siblings []model.Checklist
		if err := tx.Where("card_id = ?", checklist.CardID).Find(&siblings).Error; err != nil {
			return err
		}
		entries := make([]position.Entry, len(siblings))
		for i, s := range siblings {
			entries[i] = position.Entry{ID: s.ID, Position: s.Position}
		}
		checklist.Position = position.Append(entries)
		return tx.Create(checklist).Error
	})
}

func (r *ChecklistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Checklist, error) {
	var checklist model.Checklist
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&checklist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &checklist, nil
}

func (r *ChecklistRepository) GetByCardID(ctx context.Context, cardID uuid.UUID) ([]model.Checklist, error) {
	var checklists []model.Checklist
	err := r.db.WithContext(ctx).Where("card_id = ?", cardID).Order("position").Find(&checklists).Error
	return checklists, err
}

func (r *ChecklistRepository) Update(ctx context.Context, checklist *model.Checklist) error {
	return r.db.WithContext(ctx).Save(checklist).Error
}

func (r *ChecklistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Checklist{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChecklistNotFound
	}
	return nil
}

// CreateItem inserts the item at the end of its checklist. Sub-items share
// the checklist's position space; ordering among siblings of a parent is the
// same dense sequence filtered by parent.
func (r *ChecklistRepository) CreateItem(ctx context.Context, item *model.ChecklistItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var siblings []model.ChecklistItem
		if err := tx.Where("checklist_id = ?", item.ChecklistID).Find(&siblings).Error; err != nil {
			return err
		}
		item.Position = position.Append(itemEntries(siblings))
		return tx.Create(item).Error
	})
}

func (r *ChecklistRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *ChecklistRepository) GetItems(ctx context.Context, checklistID uuid.UUID) ([]model.ChecklistItem, error) {
	var items []model.ChecklistItem
	err := r.db.WithContext(ctx).Where("checklist_id = ?", checklistID).Order("position").Find(&items).Error
	return items, err
}

func (r *ChecklistRepository) UpdateItem(ctx context.Context, item *model.ChecklistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ChecklistRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.ChecklistItem
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChecklistItemNotFound
			}
			return err
		}
		if err := tx.Delete(&model.ChecklistItem{}, "id = ?", id).Error; err != nil {
			return err
		}
		var siblings []model.ChecklistItem
		if err := tx.Where("checklist_id = ?", item.ChecklistID).Order("position").Find(&siblings).Error; err != nil {
			return err
		}
		for id, pos := range position.Compact(itemEntries(siblings)) {
			if err := tx.Model(&model.ChecklistItem{}).Where("id = ?", id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReorderItems recomputes positions for a checklist after moving one item.
func (r *ChecklistRepository) ReorderItems(ctx context.Context, checklistID, movedID uuid.UUID, newIndex int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var siblings []model.ChecklistItem
		if err := tx.Where("checklist_id = ?", checklistID).Order("position").Find(&siblings).Error; err != nil {
			return err
		}
		updates, err := position.Reorder(itemEntries(siblings), movedID, newIndex)
		if err != nil {
			return ErrChecklistItemNotFound
		}
		for id, pos := range updates {
			if err := tx.Model(&model.ChecklistItem{}).Where("id = ?", id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddItemMember assigns a user to a checklist item; duplicates are no-ops.
func (r *ChecklistRepository) AddItemMember(ctx context.Context, itemID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO checklist_item_members (checklist_item_id, user_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT DO NOTHING",
		itemID, userID,
	).Error
}

func (r *ChecklistRepository) RemoveItemMember(ctx context.Context, itemID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM checklist_item_members WHERE checklist_item_id = ? AND user_id = ?",
		itemID, userID,
	).Error
}

func itemEntries(items []model.ChecklistItem) []position.Entry {
	entries := make([]position.Entry, len(items))
	for i, it := range items {
		entries[i] = position.Entry{ID: it.ID, Position: it.Position}
	}
	return entries
}
