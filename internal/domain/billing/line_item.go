package billing

import (
	"time"

	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var maxDiscountPercent = decimal.NewFromInt(100)

// LineInput is a priced request for one bill line. The batch is fixed here
// and never re-resolved afterwards.
type LineInput struct {
	ItemCode        string
	ItemName        string
	Category        inventory.Category
	BatchNumber     string
	ExpiryDate      time.Time
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxRate         decimal.Decimal
}

// LineFromInventory prices a line against the item's current selling price
// and tax rate. The quantity must be available in the chosen batch now.
func LineFromInventory(item *inventory.InventoryItem, batchNumber string, qty int64, discountPercent decimal.Decimal) (LineInput, error) {
	if item == nil {
		return LineInput{}, shared.ErrItemNotFound
	}
	batch, ok := item.FindBatch(batchNumber)
	if !ok {
		return LineInput{}, shared.Errorf(shared.ErrBatchNotFound,
			"Batch %s not found for item %s", batchNumber, item.Code)
	}
	if qty <= 0 {
		return LineInput{}, shared.Errorf(shared.ErrInvalidQuantity, "Quantity for %s must be positive", item.Code)
	}
	if qty > batch.Quantity {
		return LineInput{}, shared.Errorf(shared.ErrInsufficientStock,
			"Only %d units of %s left in batch %s", batch.Quantity, item.Name, batchNumber)
	}
	return LineInput{
		ItemCode:        item.Code,
		ItemName:        item.Name,
		Category:        item.Category,
		BatchNumber:     batch.BatchNumber,
		ExpiryDate:      batch.ExpiryDate,
		Quantity:        qty,
		UnitPrice:       item.SellingPrice,
		DiscountPercent: discountPercent,
		TaxRate:         item.TaxRate,
	}, nil
}

// BillLineItem is a priced line of a bill
type BillLineItem struct {
	LineNo           int
	ItemCode         string
	ItemName         string
	Category         inventory.Category
	BatchNumber      string
	ExpiryDate       time.Time
	Quantity         int64
	UnitPrice        decimal.Decimal
	DiscountPercent  decimal.Decimal
	DiscountAmount   decimal.Decimal
	TaxRate          decimal.Decimal
	TaxAmount        decimal.Decimal
	LineTotal        decimal.Decimal
	ReturnedQuantity int64
}

// priceLine computes discount, tax and total:
//
//	gross    = unitPrice × qty
//	discount = gross × discount% / 100
//	total    = gross − discount
//	tax      = total × taxRate / 100
func priceLine(lineNo int, in LineInput) (BillLineItem, error) {
	if in.ItemCode == "" || in.BatchNumber == "" {
		return BillLineItem{}, shared.Errorf(shared.ErrInvalidInput, "Line %d must reference an item and a batch", lineNo)
	}
	if in.Quantity <= 0 {
		return BillLineItem{}, shared.Errorf(shared.ErrInvalidQuantity, "Line %d quantity must be positive", lineNo)
	}
	if in.UnitPrice.IsNegative() {
		return BillLineItem{}, shared.Errorf(shared.ErrInvalidInput, "Line %d unit price cannot be negative", lineNo)
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(maxDiscountPercent) {
		return BillLineItem{}, shared.Errorf(shared.ErrInvalidInput, "Line %d discount must be between 0 and 100", lineNo)
	}
	if in.TaxRate.IsNegative() {
		return BillLineItem{}, shared.Errorf(shared.ErrInvalidInput, "Line %d tax rate cannot be negative", lineNo)
	}

	gross := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
	discount := shared.PercentOf(gross, in.DiscountPercent)
	total := gross.Sub(discount)
	tax := shared.PercentOf(total, in.TaxRate)

	return BillLineItem{
		LineNo:          lineNo,
		ItemCode:        in.ItemCode,
		ItemName:        in.ItemName,
		Category:        in.Category,
		BatchNumber:     in.BatchNumber,
		ExpiryDate:      in.ExpiryDate,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		DiscountPercent: in.DiscountPercent,
		DiscountAmount:  discount,
		TaxRate:         in.TaxRate,
		TaxAmount:       tax,
		LineTotal:       total,
	}, nil
}

// Gross returns unit price × quantity before discount
func (l BillLineItem) Gross() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// OutstandingQuantity returns billed units not yet returned
func (l BillLineItem) OutstandingQuantity() int64 {
	return l.Quantity - l.ReturnedQuantity
}

// RefundFor returns the post-discount, post-tax price of qty units rounded
// to currency precision. The multiplication happens before the division so
// that returning every unit refunds exactly the line's total plus tax.
func (l BillLineItem) RefundFor(qty int64) decimal.Decimal {
	if l.Quantity == 0 {
		return decimal.Zero
	}
	paid := l.LineTotal.Add(l.TaxAmount)
	return shared.RoundMoney(paid.Mul(decimal.NewFromInt(qty)).Div(decimal.NewFromInt(l.Quantity)))
}
