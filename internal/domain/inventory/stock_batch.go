package inventory

import (
	"time"

	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockBatch is a received lot of an item. A batch whose quantity reaches zero
// is kept on the item: cancellations and returns put stock back into it.
type StockBatch struct {
	BatchNumber string
	Quantity    int64
	ExpiryDate  time.Time
	CostPrice   decimal.Decimal
	MRP         *decimal.Decimal
	ReceivedAt  time.Time
}

// NewStockBatch creates a batch holding quantity units.
func NewStockBatch(batchNumber string, quantity int64, expiry time.Time, costPrice decimal.Decimal, mrp *decimal.Decimal, receivedAt time.Time) (*StockBatch, error) {
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch number cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.Errorf(shared.ErrInvalidQuantity, "Batch %s cannot start with negative quantity", batchNumber)
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}
	if mrp != nil && mrp.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MRP", "MRP cannot be negative")
	}
	return &StockBatch{
		BatchNumber: batchNumber,
		Quantity:    quantity,
		ExpiryDate:  expiry,
		CostPrice:   costPrice,
		MRP:         mrp,
		ReceivedAt:  receivedAt,
	}, nil
}

// HasStock reports whether any units remain.
func (b *StockBatch) HasStock() bool {
	return b.Quantity > 0
}

func (b *StockBatch) deduct(qty int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	if qty > b.Quantity {
		return shared.Errorf(shared.ErrInsufficientStock,
			"Batch %s has %d units, cannot deduct %d", b.BatchNumber, b.Quantity, qty)
	}
	b.Quantity -= qty
	return nil
}

func (b *StockBatch) restore(qty int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	b.Quantity += qty
	return nil
}
