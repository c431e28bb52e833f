package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/hms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill and its lines by ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).
		Preload("Items", byLineNo).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.Errorf(shared.ErrNotFound, "Bill %s not found", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns bills newest first
func (r *GormBillRepository) List(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", string(filter.Status))
		}
		if filter.CustomerID != "" {
			db = db.Where("patient_id = ?", filter.CustomerID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.BillModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BillModel
	if err := r.db.WithContext(ctx).
		Scopes(scope, paginate(filter.Filter)).
		Preload("Items", byLineNo).
		Order("bill_date DESC, bill_number DESC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	bills := make([]billing.Bill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills, total, nil
}

// Save creates or replaces the bill and its lines
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	model := models.BillModelFromDomain(bill)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRoot(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "bill_id", model.ID, model.Items)
	})
}

// Ensure GormBillRepository implements BillRepository
var _ billing.BillRepository = (*GormBillRepository)(nil)
