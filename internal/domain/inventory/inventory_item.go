package inventory

import (
	"strings"
	"time"

	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInventoryItem is the aggregate type for InventoryItem
const AggregateTypeInventoryItem = "InventoryItem"

// InventoryItem is the aggregate root for a stocked product or service. The
// item code is its identity; batches are kept in the order they were received.
type InventoryItem struct {
	shared.BaseAggregateRoot
	Code         string
	Name         string
	Category     Category
	ReorderLevel int64
	SellingPrice decimal.Decimal
	TaxRate      decimal.Decimal
	Batches      []StockBatch
}

// MasterData holds the administratively editable attributes of an item.
type MasterData struct {
	Name         string
	Category     Category
	ReorderLevel int64
	SellingPrice decimal.Decimal
	TaxRate      decimal.Decimal
}

// Validate checks master data invariants
func (m MasterData) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if !m.Category.IsValid() {
		return shared.Errorf(shared.ErrInvalidInput, "Unknown category %q", m.Category)
	}
	if m.ReorderLevel < 0 {
		return shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}
	if m.SellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if !IsValidTaxRate(m.TaxRate) {
		return shared.Errorf(shared.ErrInvalidInput, "Tax rate %s is not a GST slab", m.TaxRate)
	}
	return nil
}

// NewInventoryItem creates an item with no stock.
func NewInventoryItem(code string, master MasterData, now time.Time) (*InventoryItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Item code cannot be empty")
	}
	if err := master.Validate(); err != nil {
		return nil, err
	}
	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Code:              code,
		Name:              master.Name,
		Category:          master.Category,
		ReorderLevel:      master.ReorderLevel,
		SellingPrice:      master.SellingPrice,
		TaxRate:           master.TaxRate,
		Batches:           make([]StockBatch, 0),
	}, nil
}

// TotalStock returns the sum of all batch quantities
func (i *InventoryItem) TotalStock() int64 {
	var total int64
	for _, b := range i.Batches {
		total += b.Quantity
	}
	return total
}

// IsLowStock reports whether the item is at or under its reorder level
func (i *InventoryItem) IsLowStock() bool {
	return i.TotalStock() <= i.ReorderLevel
}

// FindBatch returns the batch with the given number
func (i *InventoryItem) FindBatch(batchNumber string) (*StockBatch, bool) {
	for idx := range i.Batches {
		if i.Batches[idx].BatchNumber == batchNumber {
			return &i.Batches[idx], true
		}
	}
	return nil, false
}

// DeductFromBatch removes qty units from exactly the named batch. It never
// falls back to another batch of the same item.
func (i *InventoryItem) DeductFromBatch(batchNumber string, qty int64, now time.Time) (StockMovement, error) {
	batch, ok := i.FindBatch(batchNumber)
	if !ok {
		return StockMovement{}, shared.Errorf(shared.ErrBatchNotFound,
			"Batch %s not found for item %s", batchNumber, i.Code)
	}
	before := i.TotalStock()
	mv := i.movement(batch, -qty)
	if err := batch.deduct(qty); err != nil {
		return StockMovement{}, err
	}
	mv.After = batch.Quantity
	i.touch(now)
	i.checkReorderLevel(before, now)
	return mv, nil
}

// RestoreToBatch puts qty units back into exactly the named batch.
func (i *InventoryItem) RestoreToBatch(batchNumber string, qty int64, now time.Time) (StockMovement, error) {
	batch, ok := i.FindBatch(batchNumber)
	if !ok {
		return StockMovement{}, shared.Errorf(shared.ErrBatchNotFound,
			"Batch %s not found for item %s", batchNumber, i.Code)
	}
	mv := i.movement(batch, qty)
	if err := batch.restore(qty); err != nil {
		return StockMovement{}, err
	}
	mv.After = batch.Quantity
	i.touch(now)
	return mv, nil
}

// AddBatch appends a new batch. The batch number must not already exist on the item.
func (i *InventoryItem) AddBatch(batch StockBatch, now time.Time) (StockMovement, error) {
	if _, exists := i.FindBatch(batch.BatchNumber); exists {
		return StockMovement{}, shared.Errorf(shared.ErrAlreadyExists,
			"Batch %s already exists for item %s", batch.BatchNumber, i.Code)
	}
	i.Batches = append(i.Batches, batch)
	added := &i.Batches[len(i.Batches)-1]
	mv := i.movement(added, batch.Quantity)
	mv.Before = 0
	mv.After = added.Quantity
	i.touch(now)
	return mv, nil
}

// RaiseSellingPrice lifts the selling price to mrp when mrp is higher.
// The price is never lowered here. Returns true if the price changed.
func (i *InventoryItem) RaiseSellingPrice(mrp decimal.Decimal, now time.Time) bool {
	if !mrp.GreaterThan(i.SellingPrice) {
		return false
	}
	i.SellingPrice = mrp
	i.touch(now)
	return true
}

// UpdateMaster replaces the editable attributes. Batches are not touched.
func (i *InventoryItem) UpdateMaster(master MasterData, now time.Time) error {
	if err := master.Validate(); err != nil {
		return err
	}
	i.Name = master.Name
	i.Category = master.Category
	i.ReorderLevel = master.ReorderLevel
	i.SellingPrice = master.SellingPrice
	i.TaxRate = master.TaxRate
	i.touch(now)
	return nil
}

// Master returns the editable attributes of the item.
func (i *InventoryItem) Master() MasterData {
	return MasterData{
		Name:         i.Name,
		Category:     i.Category,
		ReorderLevel: i.ReorderLevel,
		SellingPrice: i.SellingPrice,
		TaxRate:      i.TaxRate,
	}
}

func (i *InventoryItem) movement(batch *StockBatch, delta int64) StockMovement {
	return StockMovement{
		ItemCode:    i.Code,
		ItemName:    i.Name,
		BatchNumber: batch.BatchNumber,
		Delta:       delta,
		Before:      batch.Quantity,
	}
}

func (i *InventoryItem) touch(now time.Time) {
	i.UpdatedAt = now
	i.IncrementVersion()
}

// checkReorderLevel raises an event when a deduction takes total stock from
// above the reorder level to at or below it.
func (i *InventoryItem) checkReorderLevel(before int64, now time.Time) {
	after := i.TotalStock()
	if before > i.ReorderLevel && after <= i.ReorderLevel {
		i.AddDomainEvent(NewStockBelowReorderLevelEvent(i, after, now))
	}
}

// StockMovement describes one change to one batch.
type StockMovement struct {
	ItemCode    string
	ItemName    string
	BatchNumber string
	Delta       int64
	Before      int64
	After       int64
}

// Quantity returns the magnitude of the movement.
func (m StockMovement) Quantity() int64 {
	if m.Delta < 0 {
		return -m.Delta
	}
	return m.Delta
}
