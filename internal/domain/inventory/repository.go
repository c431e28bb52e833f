package inventory

import (
	"context"

	"github.com/hms/backend/internal/domain/shared"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	shared.Filter
	Category     Category
	LowStockOnly bool
}

// InventoryItemRepository defines the interface for inventory item persistence
type InventoryItemRepository interface {
	// FindByCode returns ErrItemNotFound when no item has the code
	FindByCode(ctx context.Context, code string) (*InventoryItem, error)

	ExistsByCode(ctx context.Context, code string) (bool, error)

	// List returns a page of items ordered by code, with the total match count
	List(ctx context.Context, filter ItemFilter) ([]InventoryItem, int64, error)

	// Save creates or replaces the item together with all of its batches
	Save(ctx context.Context, item *InventoryItem) error

	Delete(ctx context.Context, code string) error
}
