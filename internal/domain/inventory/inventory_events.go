package inventory

import (
	"time"

	"github.com/hms/backend/internal/domain/shared"
)

// Event type constants for inventory
const (
	EventTypeStockBelowReorderLevel = "StockBelowReorderLevel"
)

// StockBelowReorderLevelEvent is raised when a deduction leaves an item at or
// under its reorder level.
type StockBelowReorderLevelEvent struct {
	shared.BaseDomainEvent
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`
	TotalStock   int64  `json:"total_stock"`
	ReorderLevel int64  `json:"reorder_level"`
}

// NewStockBelowReorderLevelEvent creates a new StockBelowReorderLevelEvent
func NewStockBelowReorderLevelEvent(item *InventoryItem, totalStock int64, at time.Time) *StockBelowReorderLevelEvent {
	return &StockBelowReorderLevelEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderLevel, AggregateTypeInventoryItem, item.ID, at),
		ItemCode:        item.Code,
		ItemName:        item.Name,
		TotalStock:      totalStock,
		ReorderLevel:    item.ReorderLevel,
	}
}
