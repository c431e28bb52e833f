package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/hms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByCode finds an inventory item and its batches by item code
func (r *GormInventoryItemRepository) FindByCode(ctx context.Context, code string) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Preload("Batches", byPosition).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.Errorf(shared.ErrItemNotFound, "Item %s not found", code)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks if an item with the code exists
func (r *GormInventoryItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryItemModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of items ordered by code
func (r *GormInventoryItemRepository) List(ctx context.Context, filter inventory.ItemFilter) ([]inventory.InventoryItem, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Category != "" {
			db = db.Where("category = ?", string(filter.Category))
		}
		if filter.LowStockOnly {
			db = db.Where("total_stock <= reorder_level")
		}
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			like := "%" + search + "%"
			db = db.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", like, like)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Scopes(scope, paginate(filter.Filter)).
		Preload("Batches", byPosition).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]inventory.InventoryItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// Save creates or replaces the item together with all of its batches
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	model := models.InventoryItemModelFromDomain(item)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRoot(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "inventory_item_id", model.ID, model.Batches)
	})
}

// Delete removes an item and its batches
func (r *GormInventoryItemRepository) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.InventoryItemModel
		if err := tx.Select("id").Where("code = ?", code).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.Errorf(shared.ErrItemNotFound, "Item %s not found", code)
			}
			return err
		}
		if err := tx.Where("inventory_item_id = ?", model.ID).Delete(&models.StockBatchModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.InventoryItemModel{}, "id = ?", model.ID).Error
	})
}

// Ensure GormInventoryItemRepository implements InventoryItemRepository
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
