package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receipt(number string, lines ...ledger.GoodsReceiptLineCommand) ledger.ProcessGoodsReceiptCommand {
	return ledger.ProcessGoodsReceiptCommand{
		ReceiptNumber:    number,
		VendorID:         "V-1",
		VendorName:       "MedSupply Co",
		InvoiceReference: "INV-7781",
		Items:            lines,
	}
}

func receiptLine(code, batch string, qty int64, mrp int64) ledger.GoodsReceiptLineCommand {
	return ledger.GoodsReceiptLineCommand{
		ProductCode:      code,
		ItemName:         "Item " + code,
		TaxRate:          decimal.NewFromInt(12),
		ReceivedQuantity: qty,
		BatchNumber:      batch,
		ExpiryDate:       "2026-03-31",
		CostPrice:        decimal.NewFromInt(15),
		MRP:              dec(mrp),
	}
}

func TestProcessGoodsReceipt_MergeOutcomes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED001", seedBatch{"B1", 150, "2026-06-30"})

	res, err := f.svc.ProcessGoodsReceipt(ctx, storeClerk, receipt("GRN-001",
		receiptLine("MED001", "B1", 50, 25),
		receiptLine("MED001", "B2", 40, 30),
		receiptLine("CON900", "C1", 200, 8),
		receiptLine("MED001", "B3", 0, 25),
	))
	require.NoError(t, err)

	require.Len(t, res.Lines, 3)
	assert.Equal(t, "RESTOCK", res.Lines[0].Outcome)
	assert.Equal(t, "NEW_BATCH", res.Lines[1].Outcome)
	assert.True(t, res.Lines[1].PriceRaised)
	assert.Equal(t, "NEW_ITEM", res.Lines[2].Outcome)
	assert.Equal(t, int64(290), res.TotalReceived)

	t.Run("restock adds exactly the received quantity", func(t *testing.T) {
		item, err := f.svc.GetInventoryItem(ctx, "MED001")
		require.NoError(t, err)
		assert.Equal(t, int64(200), f.batchQty(t, "MED001", "B1"))
		assert.Equal(t, int64(40), f.batchQty(t, "MED001", "B2"))
		assert.Len(t, item.Batches, 2)
		assert.True(t, decimal.NewFromInt(30).Equal(item.SellingPrice))
	})

	t.Run("unknown product is registered", func(t *testing.T) {
		item, err := f.svc.GetInventoryItem(ctx, "CON900")
		require.NoError(t, err)
		assert.Equal(t, "General", item.Category)
		assert.Equal(t, int64(10), item.ReorderLevel)
		assert.True(t, decimal.NewFromInt(8).Equal(item.SellingPrice))
		assert.True(t, decimal.NewFromInt(12).Equal(item.TaxRate))
		assert.Equal(t, int64(200), item.TotalStock)
	})

	t.Run("audit tags distinguish the outcomes", func(t *testing.T) {
		log := f.entityLog(t, res.ID.String())
		assert.Equal(t, []string{"GRN_CREATED", "INVENTORY_RESTOCK", "INVENTORY_NEW_BATCH", "INVENTORY_ADD"},
			actions(log))
		assert.Contains(t, log[0].Details, "GRN GRN-001")
		assert.Empty(t, f.entityLog(t, "GRN-001"))
	})

	t.Run("a receipt number is merged once", func(t *testing.T) {
		_, err := f.svc.ProcessGoodsReceipt(ctx, storeClerk, receipt("GRN-001", receiptLine("MED001", "B1", 50, 25)))
		assert.ErrorIs(t, err, shared.ErrDuplicateReceiptBatch)
		assert.Equal(t, int64(200), f.batchQty(t, "MED001", "B1"))
	})
}

func TestProcessGoodsReceipt_LowerMRPKeepsPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED001", seedBatch{"B1", 10, "2026-06-30"})

	res, err := f.svc.ProcessGoodsReceipt(ctx, storeClerk, receipt("GRN-002", receiptLine("MED001", "B1", 5, 20)))
	require.NoError(t, err)
	assert.False(t, res.Lines[0].PriceRaised)

	item, err := f.svc.GetInventoryItem(ctx, "MED001")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(item.SellingPrice))
}

func TestProcessGoodsReceipt_RejectsInvalidReceipts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("nothing received", func(t *testing.T) {
		_, err := f.svc.ProcessGoodsReceipt(ctx, storeClerk, receipt("GRN-010", receiptLine("MED001", "B1", 0, 25)))
		assert.Error(t, err)
	})

	t.Run("unknown purchase order", func(t *testing.T) {
		cmd := receipt("GRN-011", receiptLine("MED001", "B1", 5, 25))
		poID := uuid.New()
		cmd.PurchaseOrderID = &poID
		_, err := f.svc.ProcessGoodsReceipt(ctx, storeClerk, cmd)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("bad tax slab on a new item rolls back the whole receipt", func(t *testing.T) {
		bad := receiptLine("NEW002", "N2", 5, 10)
		bad.TaxRate = decimal.NewFromInt(7)
		_, err := f.svc.ProcessGoodsReceipt(ctx, storeClerk, receipt("GRN-012", receiptLine("NEW001", "N1", 5, 10), bad))
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = f.svc.GetInventoryItem(ctx, "NEW001")
		assert.ErrorIs(t, err, shared.ErrItemNotFound)
	})
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	po, err := f.svc.CreatePurchaseOrder(ctx, storeClerk, ledger.CreatePurchaseOrderCommand{
		VendorID:   "V-1",
		VendorName: "MedSupply Co",
		Items: []ledger.PurchaseOrderLineCommand{{
			ProductCode:     "MED050",
			ItemName:        "Amoxicillin 250mg",
			Category:        "Medicine",
			Quantity:        100,
			CostPrice:       decimal.NewFromInt(10),
			DiscountPercent: decimal.NewFromInt(10),
			TaxRate:         decimal.NewFromInt(12),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", po.Status)
	assert.True(t, decimal.NewFromInt(1000).Equal(po.SubTotal))
	assert.True(t, decimal.NewFromInt(100).Equal(po.TotalDiscount))
	assert.True(t, decimal.RequireFromString("108").Equal(po.TotalTax))
	assert.True(t, decimal.RequireFromString("1008").Equal(po.GrandTotal))

	t.Run("receipt completes the order and takes names from it", func(t *testing.T) {
		cmd := receipt("GRN-100", ledger.GoodsReceiptLineCommand{
			ProductCode:      "MED050",
			ReceivedQuantity: 100,
			BatchNumber:      "AX-1",
			ExpiryDate:       "2026-01-31",
			CostPrice:        decimal.NewFromInt(10),
			MRP:              dec(18),
		})
		cmd.PurchaseOrderID = &po.ID
		_, err := f.svc.ProcessGoodsReceipt(ctx, storeClerk, cmd)
		require.NoError(t, err)

		got, err := f.svc.GetPurchaseOrder(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", got.Status)
		assert.NotNil(t, got.CompletedAt)

		item, err := f.svc.GetInventoryItem(ctx, "MED050")
		require.NoError(t, err)
		assert.Equal(t, "Amoxicillin 250mg", item.Name)
		assert.Equal(t, "Medicine", item.Category)
	})

	t.Run("completed order cannot be received or cancelled again", func(t *testing.T) {
		cmd := receipt("GRN-101", receiptLine("MED050", "AX-2", 10, 18))
		cmd.PurchaseOrderID = &po.ID
		_, err := f.svc.ProcessGoodsReceipt(ctx, storeClerk, cmd)
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		assert.Equal(t, int64(100), f.batchQty(t, "MED050", "AX-1"))

		_, err = f.svc.CancelPurchaseOrder(ctx, storeClerk, po.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})

	t.Run("pending order can be cancelled", func(t *testing.T) {
		other, err := f.svc.CreatePurchaseOrder(ctx, storeClerk, ledger.CreatePurchaseOrderCommand{
			VendorID:   "V-2",
			VendorName: "Surgicals Ltd",
			Items: []ledger.PurchaseOrderLineCommand{{
				ProductCode: "CON010", ItemName: "Gauze", Quantity: 50, CostPrice: decimal.NewFromInt(2),
			}},
		})
		require.NoError(t, err)
		cancelled, err := f.svc.CancelPurchaseOrder(ctx, storeClerk, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", cancelled.Status)
		assert.Equal(t, []string{"PO_CREATED", "PO_CANCELLED"}, actions(f.entityLog(t, other.ID.String())))
	})
}
