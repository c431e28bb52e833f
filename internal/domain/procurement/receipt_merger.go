package procurement

import (
	"time"

	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
)

// DefaultReorderLevel is given to items first registered by a goods receipt.
const DefaultReorderLevel int64 = 10

// MergeOutcome tells which of the three receipt cases a line hit
type MergeOutcome string

const (
	MergeOutcomeRestock  MergeOutcome = "RESTOCK"
	MergeOutcomeNewBatch MergeOutcome = "NEW_BATCH"
	MergeOutcomeNewItem  MergeOutcome = "NEW_ITEM"
)

// MergeResult describes how one receipt line changed inventory
type MergeResult struct {
	Outcome     MergeOutcome
	Item        *inventory.InventoryItem
	Movement    inventory.StockMovement
	PriceRaised bool
}

// ReceiptMerger folds delivered lines into inventory
type ReceiptMerger struct {
	DefaultReorderLevel int64
}

// NewReceiptMerger creates a merger; a non-positive reorder level falls back to the default
func NewReceiptMerger(defaultReorderLevel int64) ReceiptMerger {
	if defaultReorderLevel <= 0 {
		defaultReorderLevel = DefaultReorderLevel
	}
	return ReceiptMerger{DefaultReorderLevel: defaultReorderLevel}
}

// Merge applies line to existing, which is nil when the product is unknown:
//   - existing item, existing batch: the batch quantity grows by the received quantity
//   - existing item, new batch number: a batch is appended
//   - unknown product: a new item is registered with the line as its first batch
//
// An MRP above the current selling price raises the price.
func (m ReceiptMerger) Merge(existing *inventory.InventoryItem, line GoodsReceiptLine, now time.Time) (MergeResult, error) {
	if line.ReceivedQuantity <= 0 {
		return MergeResult{}, shared.Errorf(shared.ErrInvalidQuantity, "Received quantity for %s must be positive", line.ProductCode)
	}

	if existing == nil {
		return m.registerItem(line, now)
	}

	result := MergeResult{Item: existing}
	if _, ok := existing.FindBatch(line.BatchNumber); ok {
		mv, err := existing.RestoreToBatch(line.BatchNumber, line.ReceivedQuantity, now)
		if err != nil {
			return MergeResult{}, err
		}
		result.Outcome = MergeOutcomeRestock
		result.Movement = mv
	} else {
		batch, err := inventory.NewStockBatch(line.BatchNumber, line.ReceivedQuantity, line.ExpiryDate, line.CostPrice, line.MRP, now)
		if err != nil {
			return MergeResult{}, err
		}
		mv, err := existing.AddBatch(*batch, now)
		if err != nil {
			return MergeResult{}, err
		}
		result.Outcome = MergeOutcomeNewBatch
		result.Movement = mv
	}
	if line.MRP != nil {
		result.PriceRaised = existing.RaiseSellingPrice(*line.MRP, now)
	}
	return result, nil
}

func (m ReceiptMerger) registerItem(line GoodsReceiptLine, now time.Time) (MergeResult, error) {
	category := line.Category
	if category == "" {
		category = inventory.CategoryGeneral
	}
	price := line.CostPrice
	if line.MRP != nil {
		price = *line.MRP
	}
	name := line.ItemName
	if name == "" {
		name = line.ProductCode
	}
	item, err := inventory.NewInventoryItem(line.ProductCode, inventory.MasterData{
		Name:         name,
		Category:     category,
		ReorderLevel: m.DefaultReorderLevel,
		SellingPrice: price,
		TaxRate:      line.TaxRate,
	}, now)
	if err != nil {
		return MergeResult{}, err
	}
	batch, err := inventory.NewStockBatch(line.BatchNumber, line.ReceivedQuantity, line.ExpiryDate, line.CostPrice, line.MRP, now)
	if err != nil {
		return MergeResult{}, err
	}
	mv, err := item.AddBatch(*batch, now)
	if err != nil {
		return MergeResult{}, err
	}
	return MergeResult{Outcome: MergeOutcomeNewItem, Item: item, Movement: mv}, nil
}
