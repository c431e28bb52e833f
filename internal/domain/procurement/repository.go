package procurement

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID returns ErrNotFound when the order does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	Save(ctx context.Context, po *PurchaseOrder) error
}

// GoodsReceiptRepository defines the interface for goods receipt persistence
type GoodsReceiptRepository interface {
	ExistsByReceiptNumber(ctx context.Context, receiptNumber string) (bool, error)
	Save(ctx context.Context, receipt *GoodsReceipt) error
}
