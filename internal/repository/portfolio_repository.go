package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) Create(ctx context.Context, portfolio *model.Portfolio) error {
	return r.db.WithContext(ctx).Create(portfolio).Error
}

func (r *PortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Portfolio, error) {
	var portfolio model.Portfolio
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &portfolio, nil
}

func (r *PortfolioRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Portfolio, error) {
	var portfolios []model.Portfolio
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&portfolios).Error
	return portfolios, err
}

func (r *PortfolioRepository) Update(ctx context.Context, portfolio *model.Portfolio) error {
	return r.db.WithContext(ctx).Save(portfolio).Error
}

// Delete removes the portfolio and detaches its boards. Boards are never
// deleted here; losing the grouping must not lose the work.
func (r *PortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Board{}).
			Where("portfolio_id = ?", id).
			Update("portfolio_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Portfolio{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
