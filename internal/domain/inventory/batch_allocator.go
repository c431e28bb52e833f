package inventory

import (
	"sort"
	"time"

	"github.com/hms/backend/internal/domain/shared"
)

// Two allocation policies exist and are deliberately separate entry points:
// explicit-batch (point of sale picks the batch) and FEFO (internal
// requisitions let the ledger pick).

// DeductExplicit removes qty from the caller-chosen batch of item.
func DeductExplicit(item *InventoryItem, batchNumber string, qty int64, now time.Time) (StockMovement, error) {
	if item == nil {
		return StockMovement{}, shared.ErrItemNotFound
	}
	return item.DeductFromBatch(batchNumber, qty, now)
}

// RestoreExplicit returns qty to the caller-chosen batch of item.
func RestoreExplicit(item *InventoryItem, batchNumber string, qty int64, now time.Time) (StockMovement, error) {
	if item == nil {
		return StockMovement{}, shared.ErrItemNotFound
	}
	return item.RestoreToBatch(batchNumber, qty, now)
}

// BatchDeduction is one step of a FEFO plan.
type BatchDeduction struct {
	BatchNumber      string
	ExpiryDate       time.Time
	Quantity         int64
	RemainingInBatch int64
}

// FEFOPlan is the result of planning an earliest-expiry-first withdrawal.
type FEFOPlan struct {
	Requested  int64
	Allocated  int64
	Shortfall  int64
	Deductions []BatchDeduction
}

// FullyFulfilled reports whether the whole request could be allocated.
func (p FEFOPlan) FullyFulfilled() bool {
	return p.Shortfall == 0
}

// PlanFEFO decides how to withdraw requested units from batches. Only
// batches with stock are considered, earliest expiry first; batches with no
// expiry sort last and ties keep receipt order. When total stock is short the
// plan allocates what exists and reports the rest as Shortfall.
func PlanFEFO(requested int64, batches []StockBatch) (FEFOPlan, error) {
	if requested <= 0 {
		return FEFOPlan{}, shared.Errorf(shared.ErrInvalidQuantity, "Requested quantity must be positive")
	}

	available := make([]StockBatch, 0, len(batches))
	for _, b := range batches {
		if b.HasStock() {
			available = append(available, b)
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		ei, ej := available[i].ExpiryDate, available[j].ExpiryDate
		switch {
		case ei.IsZero() && ej.IsZero():
			return false
		case ei.IsZero():
			return false
		case ej.IsZero():
			return true
		}
		return ei.Before(ej)
	})

	plan := FEFOPlan{Requested: requested, Deductions: make([]BatchDeduction, 0)}
	remaining := requested
	for _, b := range available {
		if remaining == 0 {
			break
		}
		take := min(remaining, b.Quantity)
		plan.Deductions = append(plan.Deductions, BatchDeduction{
			BatchNumber:      b.BatchNumber,
			ExpiryDate:       b.ExpiryDate,
			Quantity:         take,
			RemainingInBatch: b.Quantity - take,
		})
		plan.Allocated += take
		remaining -= take
	}
	plan.Shortfall = remaining
	return plan, nil
}

// DeductFEFO plans and applies an earliest-expiry-first withdrawal on item,
// returning one movement per batch touched.
func DeductFEFO(item *InventoryItem, requested int64, now time.Time) (FEFOPlan, []StockMovement, error) {
	if item == nil {
		return FEFOPlan{}, nil, shared.ErrItemNotFound
	}
	plan, err := PlanFEFO(requested, item.Batches)
	if err != nil {
		return FEFOPlan{}, nil, err
	}
	movements := make([]StockMovement, 0, len(plan.Deductions))
	for _, d := range plan.Deductions {
		mv, err := item.DeductFromBatch(d.BatchNumber, d.Quantity, now)
		if err != nil {
			return FEFOPlan{}, nil, err
		}
		movements = append(movements, mv)
	}
	return plan, movements, nil
}
