package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalesReturnRepository implements SalesReturnRepository using GORM
type GormSalesReturnRepository struct {
	db *gorm.DB
}

// NewGormSalesReturnRepository creates a new GormSalesReturnRepository
func NewGormSalesReturnRepository(db *gorm.DB) *GormSalesReturnRepository {
	return &GormSalesReturnRepository{db: db}
}

// Save inserts a sales return with its items. Returns are never modified.
func (r *GormSalesReturnRepository) Save(ctx context.Context, ret *billing.SalesReturn) error {
	model := models.SalesReturnModelFromDomain(ret)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// ListByBill returns the returns of a bill, oldest first
func (r *GormSalesReturnRepository) ListByBill(ctx context.Context, billID uuid.UUID) ([]billing.SalesReturn, error) {
	var rows []models.SalesReturnModel
	if err := r.db.WithContext(ctx).
		Preload("Items", byLineNo).
		Where("bill_id = ?", billID).
		Order("return_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	returns := make([]billing.SalesReturn, len(rows))
	for i := range rows {
		returns[i] = rows[i].ToDomain()
	}
	return returns, nil
}

// Ensure GormSalesReturnRepository implements SalesReturnRepository
var _ billing.SalesReturnRepository = (*GormSalesReturnRepository)(nil)
