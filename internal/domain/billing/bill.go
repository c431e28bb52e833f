package billing

import (
	"strings"
	"time"

	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeBill is the aggregate type for Bill
const AggregateTypeBill = "Bill"

// DefaultDiscountApprovalThreshold is the highest line discount percentage a
// bill may carry without an approval step.
var DefaultDiscountApprovalThreshold = decimal.NewFromInt(5)

// PaymentMethod is how a bill was settled
type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "CASH"
	PaymentMethodCard      PaymentMethod = "CARD"
	PaymentMethodUPI       PaymentMethod = "UPI"
	PaymentMethodInsurance PaymentMethod = "INSURANCE"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodInsurance:
		return true
	}
	return false
}

// BillType separates pharmacy sales from diagnostic service bills
type BillType string

const (
	BillTypePharmacy BillType = "PHARMACY"
	BillTypeServices BillType = "SERVICES"
)

// IsValid checks if the bill type is known
func (t BillType) IsValid() bool {
	return t == BillTypePharmacy || t == BillTypeServices
}

// Bill is the aggregate root for a patient or walk-in bill.
type Bill struct {
	shared.BaseAggregateRoot
	BillNumber      string
	BillType        BillType
	Customer        Customer
	BillDate        time.Time
	Items           []BillLineItem
	SubTotal        decimal.Decimal
	TotalDiscount   decimal.Decimal
	TotalTax        decimal.Decimal
	GrandTotal      decimal.Decimal
	PaymentMethod   PaymentMethod
	Status          BillStatus
	RequestedByID   string
	RequestedByName string
	SettledByID     string
	SettledByName   string
	// StockCommitted is true while the bill's quantities are deducted from
	// inventory. Finalize sets it and cancel clears it.
	StockCommitted bool
	FinalizedAt    *time.Time
	CancelledAt    *time.Time
}

// NewBillParams holds everything needed to open a bill
type NewBillParams struct {
	BillNumber                string
	BillType                  BillType
	Customer                  Customer
	Lines                     []LineInput
	PaymentMethod             PaymentMethod
	RequestedByID             string
	RequestedByName           string
	DiscountApprovalThreshold decimal.Decimal
	Now                       time.Time
}

// NewBill prices the lines and picks the initial status: PendingApproval
// when any line discount exceeds the threshold, Finalized otherwise. A bill
// created Finalized has StockCommitted set; the caller deducts the stock in
// the same transaction.
func NewBill(p NewBillParams) (*Bill, error) {
	if strings.TrimSpace(p.BillNumber) == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if p.BillType == "" {
		p.BillType = BillTypePharmacy
	}
	if !p.BillType.IsValid() {
		return nil, shared.Errorf(shared.ErrInvalidInput, "Unknown bill type %q", p.BillType)
	}
	if err := p.Customer.Validate(); err != nil {
		return nil, err
	}
	if !p.PaymentMethod.IsValid() {
		return nil, shared.Errorf(shared.ErrInvalidInput, "Unknown payment method %q", p.PaymentMethod)
	}
	if len(p.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_BILL", "Bill must have at least one line item")
	}

	b := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(p.Now),
		BillNumber:        p.BillNumber,
		BillType:          p.BillType,
		Customer:          p.Customer,
		BillDate:          p.Now,
		Items:             make([]BillLineItem, 0, len(p.Lines)),
		PaymentMethod:     p.PaymentMethod,
		RequestedByID:     p.RequestedByID,
		RequestedByName:   p.RequestedByName,
	}
	for i, in := range p.Lines {
		line, err := priceLine(i+1, in)
		if err != nil {
			return nil, err
		}
		b.Items = append(b.Items, line)
	}
	b.recalculateTotals()

	if b.MaxDiscountPercent().GreaterThan(p.DiscountApprovalThreshold) {
		b.Status = BillStatusPendingApproval
	} else {
		b.Status = BillStatusFinalized
		b.commit(p.RequestedByID, p.RequestedByName, p.Now)
	}
	b.AddDomainEvent(NewBillCreatedEvent(b))
	return b, nil
}

// recalculateTotals derives bill totals from the lines. Totals supplied by a
// client are never used.
func (b *Bill) recalculateTotals() {
	sub, disc, tax := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range b.Items {
		sub = sub.Add(l.Gross())
		disc = disc.Add(l.DiscountAmount)
		tax = tax.Add(l.TaxAmount)
	}
	b.SubTotal = sub
	b.TotalDiscount = disc
	b.TotalTax = tax
	b.GrandTotal = sub.Sub(disc).Add(tax)
}

// MaxDiscountPercent returns the highest line discount percentage
func (b *Bill) MaxDiscountPercent() decimal.Decimal {
	maxPct := decimal.Zero
	for _, l := range b.Items {
		if l.DiscountPercent.GreaterThan(maxPct) {
			maxPct = l.DiscountPercent
		}
	}
	return maxPct
}

// Line returns the line with the given number
func (b *Bill) Line(lineNo int) (*BillLineItem, bool) {
	for i := range b.Items {
		if b.Items[i].LineNo == lineNo {
			return &b.Items[i], true
		}
	}
	return nil, false
}

// Approve grants the discount request
func (b *Bill) Approve(now time.Time) error {
	return b.apply(BillCommandApprove, now)
}

// Reject declines the discount request
func (b *Bill) Reject(now time.Time) error {
	return b.apply(BillCommandReject, now)
}

// Finalize settles an approved bill. The caller deducts every line's
// quantity from its batch in the same transaction.
func (b *Bill) Finalize(method PaymentMethod, settlerID, settlerName string, now time.Time) error {
	if !method.IsValid() {
		return shared.Errorf(shared.ErrInvalidInput, "Unknown payment method %q", method)
	}
	if err := b.apply(BillCommandFinalize, now); err != nil {
		return err
	}
	b.PaymentMethod = method
	b.commit(settlerID, settlerName, now)
	return nil
}

// Cancel voids the bill and returns the quantities that must go back to
// stock: each line's outstanding quantity if stock was committed, nothing
// otherwise.
func (b *Bill) Cancel(now time.Time) ([]StockReversal, error) {
	if err := b.apply(BillCommandCancel, now); err != nil {
		return nil, err
	}
	b.CancelledAt = &now

	reversals := make([]StockReversal, 0, len(b.Items))
	if b.StockCommitted {
		for _, l := range b.Items {
			if qty := l.OutstandingQuantity(); qty > 0 {
				reversals = append(reversals, StockReversal{
					LineNo:      l.LineNo,
					ItemCode:    l.ItemCode,
					ItemName:    l.ItemName,
					BatchNumber: l.BatchNumber,
					Quantity:    qty,
				})
			}
		}
		b.StockCommitted = false
	}
	return reversals, nil
}

// ApplyReturn validates and records a partial or full return. The bill moves
// to Returned as a whole, however many lines were returned.
func (b *Bill) ApplyReturn(requests []ReturnRequest, now time.Time) ([]SalesReturnItem, error) {
	if !b.Status.Allows(BillCommandReturn) {
		_, err := b.Status.Next(BillCommandReturn)
		return nil, err
	}

	seen := make(map[int]bool, len(requests))
	positive := false
	for _, r := range requests {
		line, ok := b.Line(r.LineNo)
		if !ok {
			return nil, shared.Errorf(shared.ErrInvalidReturnQuantity, "Line %d is not on bill %s", r.LineNo, b.BillNumber)
		}
		if seen[r.LineNo] {
			return nil, shared.Errorf(shared.ErrInvalidReturnQuantity, "Line %d appears more than once", r.LineNo)
		}
		seen[r.LineNo] = true
		if r.Quantity < 0 {
			return nil, shared.Errorf(shared.ErrInvalidReturnQuantity, "Return quantity for line %d cannot be negative", r.LineNo)
		}
		if r.Quantity > line.OutstandingQuantity() {
			return nil, shared.Errorf(shared.ErrInvalidReturnQuantity,
				"Cannot return %d of %s: only %d remain on the bill", r.Quantity, line.ItemName, line.OutstandingQuantity())
		}
		if r.Quantity > 0 {
			positive = true
		}
	}
	if !positive {
		return nil, shared.Errorf(shared.ErrInvalidReturnQuantity, "Enter a return quantity for at least one item")
	}

	items := make([]SalesReturnItem, 0, len(requests))
	for _, r := range requests {
		if r.Quantity == 0 {
			continue
		}
		line, _ := b.Line(r.LineNo)
		items = append(items, SalesReturnItem{
			LineNo:       line.LineNo,
			ItemCode:     line.ItemCode,
			ItemName:     line.ItemName,
			BatchNumber:  line.BatchNumber,
			Quantity:     r.Quantity,
			RefundAmount: line.RefundFor(r.Quantity),
		})
		line.ReturnedQuantity += r.Quantity
	}
	if err := b.apply(BillCommandReturn, now); err != nil {
		return nil, err
	}
	return items, nil
}

func (b *Bill) commit(settlerID, settlerName string, now time.Time) {
	b.SettledByID = settlerID
	b.SettledByName = settlerName
	b.StockCommitted = true
	b.FinalizedAt = &now
}

func (b *Bill) apply(cmd BillCommand, now time.Time) error {
	next, err := b.Status.Next(cmd)
	if err != nil {
		return err
	}
	from := b.Status
	b.Status = next
	b.UpdatedAt = now
	b.IncrementVersion()
	if from != next {
		b.AddDomainEvent(NewBillStatusChangedEvent(b, from, now))
	}
	return nil
}

// StockReversal is a quantity to put back into a batch after cancellation
type StockReversal struct {
	LineNo      int
	ItemCode    string
	ItemName    string
	BatchNumber string
	Quantity    int64
}
