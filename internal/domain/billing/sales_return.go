package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnRequest asks to return quantity units of one bill line
type ReturnRequest struct {
	LineNo   int
	Quantity int64
}

// SalesReturnItem is one returned line with its refund
type SalesReturnItem struct {
	LineNo       int
	ItemCode     string
	ItemName     string
	BatchNumber  string
	Quantity     int64
	RefundAmount decimal.Decimal
}

// SalesReturn records goods handed back against a bill
type SalesReturn struct {
	shared.BaseEntity
	BillID          uuid.UUID
	BillNumber      string
	ReturnDate      time.Time
	ProcessedByID   string
	ProcessedByName string
	Items           []SalesReturnItem
	TotalRefund     decimal.Decimal
}

// NewSalesReturn builds the return record for items already applied to bill.
func NewSalesReturn(bill *Bill, items []SalesReturnItem, processedByID, processedByName string, now time.Time) *SalesReturn {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.RefundAmount)
	}
	return &SalesReturn{
		BaseEntity:      shared.NewBaseEntity(now),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		ReturnDate:      now,
		ProcessedByID:   processedByID,
		ProcessedByName: processedByName,
		Items:           items,
		TotalRefund:     total,
	}
}

// TotalQuantity returns the number of units returned
func (r *SalesReturn) TotalQuantity() int64 {
	var qty int64
	for _, it := range r.Items {
		qty += it.Quantity
	}
	return qty
}
