package procurement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GoodsReceiptLine is one delivered product line
type GoodsReceiptLine struct {
	ProductCode      string
	ItemName         string
	Category         inventory.Category
	TaxRate          decimal.Decimal
	OrderedQuantity  int64
	ReceivedQuantity int64
	BatchNumber      string
	ExpiryDate       time.Time
	CostPrice        decimal.Decimal
	MRP              *decimal.Decimal
}

// GoodsReceipt records a vendor delivery. ReceiptNumber is unique: a
// delivery is merged into stock once.
type GoodsReceipt struct {
	shared.BaseEntity
	ReceiptNumber    string
	PurchaseOrderID  *uuid.UUID
	Vendor           Vendor
	InvoiceReference string
	ReceivedDate     time.Time
	ReceivedByID     string
	ReceivedByName   string
	Lines            []GoodsReceiptLine
}

// NewGoodsReceipt validates and creates a receipt
func NewGoodsReceipt(receiptNumber string, poID *uuid.UUID, vendor Vendor, invoiceRef string, lines []GoodsReceiptLine, receivedByID, receivedByName string, now time.Time) (*GoodsReceipt, error) {
	if strings.TrimSpace(receiptNumber) == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if strings.TrimSpace(vendor.Name) == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor name is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_RECEIPT", "Goods receipt must have at least one line")
	}
	received := 0
	for _, l := range lines {
		if l.ReceivedQuantity <= 0 {
			continue
		}
		received++
		if strings.TrimSpace(l.ProductCode) == "" || strings.TrimSpace(l.BatchNumber) == "" {
			return nil, shared.Errorf(shared.ErrInvalidInput, "Received line must carry a product code and batch number")
		}
		if l.CostPrice.IsNegative() || (l.MRP != nil && l.MRP.IsNegative()) {
			return nil, shared.Errorf(shared.ErrInvalidInput, "Prices for %s cannot be negative", l.ProductCode)
		}
	}
	if received == 0 {
		return nil, shared.NewDomainError("EMPTY_RECEIPT", "No line has a positive received quantity")
	}
	return &GoodsReceipt{
		BaseEntity:       shared.NewBaseEntity(now),
		ReceiptNumber:    receiptNumber,
		PurchaseOrderID:  poID,
		Vendor:           vendor,
		InvoiceReference: invoiceRef,
		ReceivedDate:     now,
		ReceivedByID:     receivedByID,
		ReceivedByName:   receivedByName,
		Lines:            lines,
	}, nil
}

// ReceivedLines returns the lines that actually delivered stock
func (g *GoodsReceipt) ReceivedLines() []GoodsReceiptLine {
	out := make([]GoodsReceiptLine, 0, len(g.Lines))
	for _, l := range g.Lines {
		if l.ReceivedQuantity > 0 {
			out = append(out, l)
		}
	}
	return out
}

// TotalReceived returns the number of units delivered
func (g *GoodsReceipt) TotalReceived() int64 {
	var n int64
	for _, l := range g.ReceivedLines() {
		n += l.ReceivedQuantity
	}
	return n
}
