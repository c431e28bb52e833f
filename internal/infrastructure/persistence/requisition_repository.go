package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/requisition"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/hms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRequisitionRepository implements requisition.Repository using GORM
type GormRequisitionRepository struct {
	db *gorm.DB
}

// NewGormRequisitionRepository creates a new GormRequisitionRepository
func NewGormRequisitionRepository(db *gorm.DB) *GormRequisitionRepository {
	return &GormRequisitionRepository{db: db}
}

// FindByID finds a requisition and its items by ID
func (r *GormRequisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*requisition.Requisition, error) {
	var model models.RequisitionModel
	if err := r.db.WithContext(ctx).
		Preload("Items", byPosition).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.Errorf(shared.ErrNotFound, "Requisition %s not found", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or replaces a requisition and its items
func (r *GormRequisitionRepository) Save(ctx context.Context, req *requisition.Requisition) error {
	model := models.RequisitionModelFromDomain(req)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRoot(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "requisition_id", model.ID, model.Items)
	})
}

// Ensure GormRequisitionRepository implements requisition.Repository
var _ requisition.Repository = (*GormRequisitionRepository)(nil)
