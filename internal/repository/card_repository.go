package repository

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/position"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts the card at the end of its list (max position + 1, 0 for
// an empty list).
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var siblings []model.Card
		if err := tx.Where("list_id = ?", card.ListID).Find(&siblings).Error; err != nil {
			return err
		}
		card.Position = position.Append(cardEntries(siblings))
		return tx.Create(card).Error
	})
}

// GetByID retrieves a card by its ID
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &card, nil
}

// GetWithLabels retrieves cards in a list with their labels preloaded
func (r *CardRepository) GetWithLabels(ctx context.Context, listID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Preload("Labels").
		Where("list_id = ?", listID).
		Order("position").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// Update updates an existing card
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	result := r.db.WithContext(ctx).Save(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// Delete removes a card and compacts the source list. Comments, checklists,
// label links and member links cascade away.
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}
		if err := tx.Delete(&model.Card{}, "id = ?", id).Error; err != nil {
			return err
		}
		return compactList(tx, card.ListID)
	})
}

// Move re-parents a card into destListID at newIndex and recomputes both
// sibling sets. Same-list moves are a plain reorder. Everything happens in
// one transaction; a concurrent move of the same list is last-writer-wins.
func (r *CardRepository) Move(ctx context.Context, cardID, destListID uuid.UUID, newIndex int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		sourceListID := card.ListID

		if sourceListID == destListID {
			var siblings []model.Card
			if err := tx.Where("list_id = ?", destListID).Order("position").Find(&siblings).Error; err != nil {
				return err
			}
			updates, err := position.Reorder(cardEntries(siblings), cardID, newIndex)
			if err != nil {
				return ErrCardNotFound
			}
			return applyCardPositions(tx, updates)
		}

		// Cross-list move: re-parent first, then recompute the destination
		// around the moved card and compact what is left at the source.
		if err := tx.Model(&model.Card{}).Where("id = ?", cardID).
			Update("list_id", destListID).Error; err != nil {
			return err
		}
		var dest []model.Card
		if err := tx.Where("list_id = ?", destListID).Order("position").Find(&dest).Error; err != nil {
			return err
		}
		updates, err := position.Reorder(cardEntries(dest), cardID, newIndex)
		if err != nil {
			return ErrCardNotFound
		}
		if err := applyCardPositions(tx, updates); err != nil {
			return err
		}
		return compactList(tx, sourceListID)
	})
}

// Overdue returns incomplete, unarchived cards whose due date has passed.
func (r *CardRepository) Overdue(ctx context.Context, now time.Time) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ? AND completed = false AND archived = false", now).
		Order("due_date").
		Find(&cards).Error
	return cards, err
}

// AssignedTo returns unarchived cards the user is a member of.
func (r *CardRepository) AssignedTo(ctx context.Context, userID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN card_members ON card_members.card_id = cards.id").
		Where("card_members.user_id = ? AND cards.archived = false", userID).
		Order("cards.due_date NULLS LAST").
		Find(&cards).Error
	return cards, err
}

// OverdueForUser returns the user's assigned cards whose due date has passed.
func (r *CardRepository) OverdueForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN card_members ON card_members.card_id = cards.id").
		Where("card_members.user_id = ?", userID).
		Where("cards.due_date IS NOT NULL AND cards.due_date < ? AND cards.completed = false AND cards.archived = false", now).
		Order("cards.due_date").
		Find(&cards).Error
	return cards, err
}

// DueSoonForUser returns the user's assigned cards due within the window.
func (r *CardRepository) DueSoonForUser(ctx context.Context, userID uuid.UUID, now time.Time, window time.Duration) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN card_members ON card_members.card_id = cards.id").
		Where("card_members.user_id = ?", userID).
		Where("cards.due_date IS NOT NULL AND cards.due_date >= ? AND cards.due_date < ? AND cards.completed = false AND cards.archived = false",
			now, now.Add(window)).
		Order("cards.due_date").
		Find(&cards).Error
	return cards, err
}

// AddMember assigns a user to a card; a second identical call is a no-op.
func (r *CardRepository) AddMember(ctx context.Context, cardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO card_members (card_id, user_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT DO NOTHING",
		cardID, userID,
	).Error
}

// RemoveMember removes a user's assignment from a card
func (r *CardRepository) RemoveMember(ctx context.Context, cardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM card_members WHERE card_id = ? AND user_id = ?",
		cardID, userID,
	).Error
}

// Members returns the users assigned to a card
func (r *CardRepository) Members(ctx context.Context, cardID uuid.UUID) ([]model.CardMember, error) {
	var members []model.CardMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("card_id = ?", cardID).
		Find(&members).Error
	return members, err
}

func cardEntries(cards []model.Card) []position.Entry {
	entries := make([]position.Entry, len(cards))
	for i, c := range cards {
		entries[i] = position.Entry{ID: c.ID, Position: c.Position}
	}
	return entries
}

func applyCardPositions(tx *gorm.DB, updates map[uuid.UUID]int) error {
	for id, pos := range updates {
		if err := tx.Model(&model.Card{}).Where("id = ?", id).
			Update("position", pos).Error; err != nil {
			return err
		}
	}
	return nil
}

func compactList(tx *gorm.DB, listID uuid.UUID) error {
	var siblings []model.Card
	if err := tx.Where("list_id = ?", listID).Order("position").Find(&siblings).Error; err != nil {
		return err
	}
	return applyCardPositions(tx, position.Compact(cardEntries(siblings)))
}
