package procurement

import (
	"strings"
	"time"

	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypePurchaseOrder is the aggregate type for PurchaseOrder
const AggregateTypePurchaseOrder = "PurchaseOrder"

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusCompleted || target == PurchaseOrderStatusCancelled
	}
	return false
}

// Vendor identifies a supplier
type Vendor struct {
	ID   string
	Name string
}

// PurchaseOrderItem is one ordered product
type PurchaseOrderItem struct {
	ProductCode     string
	ItemName        string
	Category        inventory.Category
	Quantity        int64
	CostPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxRate         decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
}

// Gross returns cost × quantity
func (i PurchaseOrderItem) Gross() decimal.Decimal {
	return i.CostPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// PurchaseOrder is an order placed with a vendor
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber   string
	Vendor        Vendor
	OrderDate     time.Time
	Items         []PurchaseOrderItem
	Status        PurchaseOrderStatus
	SubTotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalTax      decimal.Decimal
	GrandTotal    decimal.Decimal
	CreatedByID   string
	CreatedByName string
	CompletedAt   *time.Time
}

// NewPurchaseOrder creates a pending order and computes its totals
func NewPurchaseOrder(orderNumber string, vendor Vendor, items []PurchaseOrderItem, createdByID, createdByName string, now time.Time) (*PurchaseOrder, error) {
	if strings.TrimSpace(vendor.ID) == "" || strings.TrimSpace(vendor.Name) == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor id and name are required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Purchase order must have at least one item")
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		OrderNumber:       orderNumber,
		Vendor:            vendor,
		OrderDate:         now,
		Items:             make([]PurchaseOrderItem, 0, len(items)),
		Status:            PurchaseOrderStatusPending,
		CreatedByID:       createdByID,
		CreatedByName:     createdByName,
	}
	for _, it := range items {
		if it.ProductCode == "" {
			return nil, shared.Errorf(shared.ErrInvalidInput, "Order item must have a product code")
		}
		if it.Quantity <= 0 {
			return nil, shared.Errorf(shared.ErrInvalidQuantity, "Order quantity for %s must be positive", it.ProductCode)
		}
		if it.CostPrice.IsNegative() || it.DiscountPercent.IsNegative() || it.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, shared.Errorf(shared.ErrInvalidInput, "Invalid price or discount for %s", it.ProductCode)
		}
		if it.Category == "" {
			it.Category = inventory.CategoryGeneral
		}
		it.DiscountAmount = shared.PercentOf(it.Gross(), it.DiscountPercent)
		it.TaxAmount = shared.PercentOf(it.Gross().Sub(it.DiscountAmount), it.TaxRate)
		po.Items = append(po.Items, it)
	}
	po.recalculateTotals()
	return po, nil
}

func (po *PurchaseOrder) recalculateTotals() {
	sub, disc, tax := decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range po.Items {
		sub = sub.Add(it.Gross())
		disc = disc.Add(it.DiscountAmount)
		tax = tax.Add(it.TaxAmount)
	}
	po.SubTotal = sub
	po.TotalDiscount = disc
	po.TotalTax = tax
	po.GrandTotal = sub.Sub(disc).Add(tax)
}

// OrderedQuantity returns the ordered quantity of a product, 0 if not on the order
func (po *PurchaseOrder) OrderedQuantity(productCode string) int64 {
	var qty int64
	for _, it := range po.Items {
		if it.ProductCode == productCode {
			qty += it.Quantity
		}
	}
	return qty
}

// Complete marks the order as received
func (po *PurchaseOrder) Complete(now time.Time) error {
	if err := po.transitionTo(PurchaseOrderStatusCompleted, now); err != nil {
		return err
	}
	po.CompletedAt = &now
	return nil
}

// Cancel withdraws a pending order
func (po *PurchaseOrder) Cancel(now time.Time) error {
	return po.transitionTo(PurchaseOrderStatusCancelled, now)
}

func (po *PurchaseOrder) transitionTo(target PurchaseOrderStatus, now time.Time) error {
	if !po.Status.CanTransitionTo(target) {
		return shared.Errorf(shared.ErrInvalidTransition,
			"Purchase order %s is %s and cannot become %s", po.OrderNumber, po.Status, target)
	}
	po.Status = target
	po.UpdatedAt = now
	po.IncrementVersion()
	return nil
}
