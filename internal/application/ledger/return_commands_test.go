package ledger_test

import (
	"context"
	"testing"

	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func returnLines(pairs ...int64) ledger.ProcessSalesReturnCommand {
	cmd := ledger.ProcessSalesReturnCommand{}
	for i := 0; i+1 < len(pairs); i += 2 {
		cmd.Items = append(cmd.Items, ledger.ReturnLineCommand{LineNo: int(pairs[i]), Quantity: pairs[i+1]})
	}
	return cmd
}

func TestProcessSalesReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED001", seedBatch{"B1", 150, "2026-06-30"})

	// 10 × 25 = 250, tax 30, paid 280
	bill, err := f.svc.CreateBill(ctx, pharmacist, billFor("MED001", "B1", 10, 0))
	require.NoError(t, err)
	require.Equal(t, int64(140), f.batchQty(t, "MED001", "B1"))

	first, err := f.svc.ProcessSalesReturn(ctx, pharmacist, bill.ID, returnLines(1, 4))
	require.NoError(t, err)
	assert.Equal(t, "RETURNED", first.BillStatus)
	assert.True(t, decimal.RequireFromString("112").Equal(first.TotalRefund))
	require.Len(t, first.Items, 1)
	assert.Equal(t, "B1", first.Items[0].BatchNumber)
	assert.Equal(t, int64(144), f.batchQty(t, "MED001", "B1"))

	t.Run("cannot exceed the outstanding quantity", func(t *testing.T) {
		_, err := f.svc.ProcessSalesReturn(ctx, pharmacist, bill.ID, returnLines(1, 7))
		assert.ErrorIs(t, err, shared.ErrInvalidReturnQuantity)
		assert.Equal(t, int64(144), f.batchQty(t, "MED001", "B1"))
	})

	t.Run("all zero quantities are rejected", func(t *testing.T) {
		_, err := f.svc.ProcessSalesReturn(ctx, pharmacist, bill.ID, returnLines(1, 0))
		assert.ErrorIs(t, err, shared.ErrInvalidReturnQuantity)
	})

	t.Run("unknown line is rejected", func(t *testing.T) {
		_, err := f.svc.ProcessSalesReturn(ctx, pharmacist, bill.ID, returnLines(2, 1))
		assert.ErrorIs(t, err, shared.ErrInvalidReturnQuantity)
	})

	second, err := f.svc.ProcessSalesReturn(ctx, pharmacist, bill.ID, returnLines(1, 6))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("168").Equal(second.TotalRefund))
	assert.True(t, first.TotalRefund.Add(second.TotalRefund).Equal(decimal.NewFromInt(280)))
	assert.Equal(t, int64(150), f.batchQty(t, "MED001", "B1"))

	t.Run("fully returned bill accepts no more", func(t *testing.T) {
		_, err := f.svc.ProcessSalesReturn(ctx, pharmacist, bill.ID, returnLines(1, 1))
		assert.ErrorIs(t, err, shared.ErrInvalidReturnQuantity)
	})

	returns, err := f.svc.ListSalesReturns(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, returns, 2)
	assert.Equal(t, first.ID, returns[0].ID)

	got, err := f.svc.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Items[0].ReturnedQuantity)

	assert.Equal(t, []string{
		"BILL_GENERATED", "INVENTORY_UPDATE",
		"SALES_RETURN", "INVENTORY_UPDATE",
		"SALES_RETURN", "INVENTORY_UPDATE",
	}, actions(f.entityLog(t, bill.ID.String())))
}

func TestProcessSalesReturn_OnlyFromFinalizedOrReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED001", seedBatch{"B1", 150, "2026-06-30"})

	pending, err := f.svc.CreateBill(ctx, pharmacist, billFor("MED001", "B1", 5, 10))
	require.NoError(t, err)
	_, err = f.svc.ProcessSalesReturn(ctx, pharmacist, pending.ID, returnLines(1, 1))
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	assert.Equal(t, int64(150), f.batchQty(t, "MED001", "B1"))
}

func TestCancelBill_ReturnedBillCannotBeCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED001", seedBatch{"B1", 150, "2026-06-30"})

	bill, err := f.svc.CreateBill(ctx, pharmacist, billFor("MED001", "B1", 20, 0))
	require.NoError(t, err)
	_, err = f.svc.ProcessSalesReturn(ctx, pharmacist, bill.ID, returnLines(1, 5))
	require.NoError(t, err)
	require.Equal(t, int64(135), f.batchQty(t, "MED001", "B1"))

	_, err = f.svc.CancelBill(ctx, supervisor, bill.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	assert.Equal(t, int64(135), f.batchQty(t, "MED001", "B1"))
}
