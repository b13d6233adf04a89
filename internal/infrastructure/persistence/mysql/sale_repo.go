package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/sale"
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
)

// saleRepository is the MySQL sale repository.
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates the sale repository.
func NewSaleRepository(db *gorm.DB) sale.Repository {
	return &saleRepository{db: db}
}

// Create inserts a sale row.
// Must be called within TxManager.Transaction together with the stock update.
func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	model := &SaleModel{
		RollID:     s.RollID,
		MetersSold: s.MetersSold,
		SaleDate:   s.SaleDate,
	}

	// The Roll association exists for the FK only; never upsert it.
	if err := dbFrom(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isForeignKeyError(err) {
			return roll.ErrRollNotFound
		}
		return apperrors.Wrap(err, "create sale failed")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	return nil
}
