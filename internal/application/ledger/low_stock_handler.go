package ledger

import (
	"context"
	"fmt"

	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlert is raised when an item reaches its reorder level
type LowStockAlert struct {
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`
	TotalStock   int64  `json:"total_stock"`
	ReorderLevel int64  `json:"reorder_level"`
	AlertType    string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// LowStockHandler turns StockBelowReorderLevel events into alerts
type LowStockHandler struct {
	logger  *zap.Logger
	metrics Metrics
}

// NewLowStockHandler creates a new handler for low stock events. A nil
// metrics sink only logs.
func NewLowStockHandler(logger *zap.Logger, metrics Metrics) *LowStockHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &LowStockHandler{logger: logger, metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowReorderLevel}
}

// Handle processes a StockBelowReorderLevelEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.StockBelowReorderLevelEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowReorderLevel, event.EventType())
	}

	alert := LowStockAlert{
		ItemCode:     e.ItemCode,
		ItemName:     e.ItemName,
		TotalStock:   e.TotalStock,
		ReorderLevel: e.ReorderLevel,
		AlertType:    "low_stock",
	}
	if e.TotalStock == 0 {
		alert.AlertType = "out_of_stock"
	}

	h.logger.Warn("stock at or below reorder level",
		zap.String("item_code", alert.ItemCode),
		zap.String("item_name", alert.ItemName),
		zap.Int64("total_stock", alert.TotalStock),
		zap.Int64("reorder_level", alert.ReorderLevel),
		zap.String("alert_type", alert.AlertType),
	)

	h.metrics.RecordLowStock(ctx, alert.ItemCode, alert.AlertType, alert.TotalStock)
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
