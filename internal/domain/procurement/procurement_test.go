package procurement

import (
	"testing"
	"time"

	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func existingItem(t *testing.T) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem("MED001", inventory.MasterData{
		Name:         "Paracetamol 500mg",
		Category:     inventory.CategoryMedicine,
		ReorderLevel: 20,
		SellingPrice: decimal.NewFromInt(25),
		TaxRate:      decimal.NewFromInt(12),
	}, testNow)
	require.NoError(t, err)
	item.Batches = append(item.Batches, inventory.StockBatch{BatchNumber: "B1", Quantity: 150})
	return item
}

func receiptLine(code, batch string, qty int64, mrp *decimal.Decimal) GoodsReceiptLine {
	return GoodsReceiptLine{
		ProductCode:      code,
		ItemName:         "Item " + code,
		Category:         inventory.CategoryMedicine,
		TaxRate:          decimal.NewFromInt(5),
		ReceivedQuantity: qty,
		BatchNumber:      batch,
		ExpiryDate:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CostPrice:        decimal.NewFromInt(12),
		MRP:              mrp,
	}
}

func TestReceiptMerger_Merge(t *testing.T) {
	merger := NewReceiptMerger(0)

	t.Run("restock existing batch adds exactly the received quantity", func(t *testing.T) {
		item := existingItem(t)
		res, err := merger.Merge(item, receiptLine("MED001", "B1", 40, nil), testNow)
		require.NoError(t, err)

		assert.Equal(t, MergeOutcomeRestock, res.Outcome)
		assert.Len(t, item.Batches, 1)
		assert.Equal(t, int64(190), item.TotalStock())
		assert.Equal(t, int64(150), res.Movement.Before)
		assert.Equal(t, int64(190), res.Movement.After)
		assert.Same(t, item, res.Item)
	})

	t.Run("new batch on existing item", func(t *testing.T) {
		item := existingItem(t)
		res, err := merger.Merge(item, receiptLine("MED001", "B2", 60, nil), testNow)
		require.NoError(t, err)

		assert.Equal(t, MergeOutcomeNewBatch, res.Outcome)
		require.Len(t, item.Batches, 2)
		assert.Equal(t, "B2", item.Batches[1].BatchNumber)
		assert.Equal(t, int64(60), item.Batches[1].Quantity)
	})

	t.Run("unknown product registers an item", func(t *testing.T) {
		res, err := merger.Merge(nil, receiptLine("NEW01", "N1", 30, decPtr(45)), testNow)
		require.NoError(t, err)

		assert.Equal(t, MergeOutcomeNewItem, res.Outcome)
		require.NotNil(t, res.Item)
		assert.Equal(t, "NEW01", res.Item.Code)
		assert.Equal(t, DefaultReorderLevel, res.Item.ReorderLevel)
		assert.True(t, res.Item.SellingPrice.Equal(decimal.NewFromInt(45)))
		assert.True(t, res.Item.TaxRate.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, int64(30), res.Item.TotalStock())
	})

	t.Run("new item without mrp is priced at cost", func(t *testing.T) {
		line := receiptLine("NEW02", "N1", 5, nil)
		line.Category = ""
		res, err := merger.Merge(nil, line, testNow)
		require.NoError(t, err)
		assert.True(t, res.Item.SellingPrice.Equal(decimal.NewFromInt(12)))
		assert.Equal(t, inventory.CategoryGeneral, res.Item.Category)
	})

	t.Run("higher mrp raises the selling price", func(t *testing.T) {
		item := existingItem(t)
		res, err := merger.Merge(item, receiptLine("MED001", "B1", 1, decPtr(30)), testNow)
		require.NoError(t, err)
		assert.True(t, res.PriceRaised)
		assert.True(t, item.SellingPrice.Equal(decimal.NewFromInt(30)))
	})

	t.Run("lower mrp leaves price alone", func(t *testing.T) {
		item := existingItem(t)
		res, err := merger.Merge(item, receiptLine("MED001", "B1", 1, decPtr(20)), testNow)
		require.NoError(t, err)
		assert.False(t, res.PriceRaised)
		assert.True(t, item.SellingPrice.Equal(decimal.NewFromInt(25)))
	})

	t.Run("configured reorder level", func(t *testing.T) {
		res, err := NewReceiptMerger(50).Merge(nil, receiptLine("NEW03", "N1", 5, nil), testNow)
		require.NoError(t, err)
		assert.Equal(t, int64(50), res.Item.ReorderLevel)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		_, err := merger.Merge(existingItem(t), receiptLine("MED001", "B1", 0, nil), testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestNewGoodsReceipt(t *testing.T) {
	vendor := Vendor{ID: "V1", Name: "Acme Pharma"}

	t.Run("skips non-positive lines", func(t *testing.T) {
		g, err := NewGoodsReceipt("GRN-1", nil, vendor, "INV-7", []GoodsReceiptLine{
			receiptLine("MED001", "B1", 10, nil),
			receiptLine("MED002", "C1", 0, nil),
		}, "u-1", "Asha", testNow)
		require.NoError(t, err)
		assert.Len(t, g.ReceivedLines(), 1)
		assert.Equal(t, int64(10), g.TotalReceived())
	})

	t.Run("nothing received", func(t *testing.T) {
		_, err := NewGoodsReceipt("GRN-1", nil, vendor, "", []GoodsReceiptLine{
			receiptLine("MED001", "B1", 0, nil),
		}, "u-1", "Asha", testNow)
		assert.Error(t, err)
	})

	t.Run("received line needs batch number", func(t *testing.T) {
		_, err := NewGoodsReceipt("GRN-1", nil, vendor, "", []GoodsReceiptLine{
			receiptLine("MED001", "", 3, nil),
		}, "u-1", "Asha", testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("receipt number required", func(t *testing.T) {
		_, err := NewGoodsReceipt(" ", nil, vendor, "", []GoodsReceiptLine{
			receiptLine("MED001", "B1", 3, nil),
		}, "u-1", "Asha", testNow)
		assert.Error(t, err)
	})
}

func TestPurchaseOrder(t *testing.T) {
	vendor := Vendor{ID: "V1", Name: "Acme Pharma"}
	items := []PurchaseOrderItem{{
		ProductCode:     "MED001",
		ItemName:        "Paracetamol 500mg",
		Quantity:        100,
		CostPrice:       decimal.NewFromInt(10),
		DiscountPercent: decimal.NewFromInt(10),
		TaxRate:         decimal.NewFromInt(12),
	}}

	t.Run("computes totals", func(t *testing.T) {
		po, err := NewPurchaseOrder("PO-1", vendor, items, "u-1", "Asha", testNow)
		require.NoError(t, err)

		assert.Equal(t, PurchaseOrderStatusPending, po.Status)
		assert.True(t, po.SubTotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, po.TotalDiscount.Equal(decimal.NewFromInt(100)))
		assert.True(t, po.TotalTax.Equal(decimal.NewFromInt(108)))
		assert.True(t, po.GrandTotal.Equal(decimal.NewFromInt(1008)))
		assert.Equal(t, inventory.CategoryGeneral, po.Items[0].Category)
		assert.Equal(t, int64(100), po.OrderedQuantity("MED001"))
	})

	t.Run("complete only once", func(t *testing.T) {
		po, err := NewPurchaseOrder("PO-1", vendor, items, "u-1", "Asha", testNow)
		require.NoError(t, err)
		require.NoError(t, po.Complete(testNow))
		assert.NotNil(t, po.CompletedAt)

		assert.ErrorIs(t, po.Complete(testNow), shared.ErrInvalidTransition)
		assert.ErrorIs(t, po.Cancel(testNow), shared.ErrInvalidTransition)
	})

	t.Run("cancelled cannot be completed", func(t *testing.T) {
		po, err := NewPurchaseOrder("PO-1", vendor, items, "u-1", "Asha", testNow)
		require.NoError(t, err)
		require.NoError(t, po.Cancel(testNow))
		assert.ErrorIs(t, po.Complete(testNow), shared.ErrInvalidTransition)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewPurchaseOrder("PO-1", Vendor{}, items, "u-1", "Asha", testNow)
		assert.Error(t, err)

		_, err = NewPurchaseOrder("PO-1", vendor, nil, "u-1", "Asha", testNow)
		assert.Error(t, err)

		bad := []PurchaseOrderItem{{ProductCode: "X", Quantity: 0, CostPrice: decimal.NewFromInt(1)}}
		_, err = NewPurchaseOrder("PO-1", vendor, bad, "u-1", "Asha", testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}
