package ledger_test

import (
	"context"
	"testing"

	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raise(t *testing.T, f *fixture, dept string, lines ...ledger.RequisitionLineCommand) *ledger.RequisitionResponse {
	t.Helper()
	req, err := f.svc.RaiseRequisition(context.Background(), pharmacist, ledger.RaiseRequisitionCommand{
		Department: dept,
		Items:      lines,
	})
	require.NoError(t, err)
	return req
}

func decide(status string) ledger.DecideRequisitionCommand {
	return ledger.DecideRequisitionCommand{Status: status}
}

func TestDecideRequisition_FulfilsEarliestExpiryFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED002",
		seedBatch{"LATE", 100, "2025-06-01"},
		seedBatch{"EARLY", 50, "2025-01-01"},
	)

	req := raise(t, f, "Ward 3", ledger.RequisitionLineCommand{ItemCode: "MED002", Quantity: 120})
	assert.Equal(t, "PENDING", req.Status)
	assert.Equal(t, "Item MED002", req.Items[0].ItemName)

	done, err := f.svc.DecideRequisition(ctx, supervisor, req.ID, decide("FULFILLED"))
	require.NoError(t, err)
	assert.Equal(t, "FULFILLED", done.Status)
	assert.Equal(t, int64(120), done.Items[0].FulfilledQuantity)
	assert.Equal(t, int64(0), done.Items[0].Shortfall)

	assert.Equal(t, int64(0), f.batchQty(t, "MED002", "EARLY"))
	assert.Equal(t, int64(30), f.batchQty(t, "MED002", "LATE"))

	log := f.entityLog(t, req.ID.String())
	assert.Equal(t, []string{"REQUISITION_RAISED", "REQUISITION_UPDATE", "INVENTORY_UPDATE", "INVENTORY_UPDATE"}, actions(log))
	assert.Contains(t, log[2].Details, "batch EARLY: -50")
	assert.Contains(t, log[3].Details, "batch LATE: -70")

	t.Run("fulfilled requisition is final", func(t *testing.T) {
		_, err := f.svc.DecideRequisition(ctx, supervisor, req.ID, decide("FULFILLED"))
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		assert.Equal(t, int64(30), f.batchQty(t, "MED002", "LATE"))
	})
}

func TestDecideRequisition_PartialFulfilment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED002", seedBatch{"A", 40, "2025-03-01"})
	f.seedItem(t, "CON001")

	req := raise(t, f, "OT",
		ledger.RequisitionLineCommand{ItemCode: "MED002", Quantity: 100},
		ledger.RequisitionLineCommand{ItemCode: "CON001", Quantity: 5},
	)

	done, err := f.svc.DecideRequisition(ctx, supervisor, req.ID, decide("FULFILLED"))
	require.NoError(t, err)
	assert.Equal(t, int64(40), done.Items[0].FulfilledQuantity)
	assert.Equal(t, int64(60), done.Items[0].Shortfall)
	assert.Equal(t, int64(0), done.Items[1].FulfilledQuantity)
	assert.Equal(t, int64(5), done.Items[1].Shortfall)
	assert.Equal(t, int64(0), f.batchQty(t, "MED002", "A"))

	log := f.entityLog(t, req.ID.String())
	assert.Contains(t, log[1].Details, "shortfall of 65 units")
}

func TestDecideRequisition_DeletedItemIsSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED002", seedBatch{"A", 40, "2025-03-01"})
	f.seedItem(t, "MED003", seedBatch{"X", 10, "2025-03-01"})

	req := raise(t, f, "ICU",
		ledger.RequisitionLineCommand{ItemCode: "MED003", Quantity: 5},
		ledger.RequisitionLineCommand{ItemCode: "MED002", Quantity: 10},
	)
	require.NoError(t, f.svc.DeleteInventoryItem(ctx, storeClerk, "MED003"))

	done, err := f.svc.DecideRequisition(ctx, supervisor, req.ID, decide("FULFILLED"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), done.Items[0].Shortfall)
	assert.Equal(t, int64(10), done.Items[1].FulfilledQuantity)
	assert.Equal(t, int64(30), f.batchQty(t, "MED002", "A"))
}

func TestDecideRequisition_StatusOnlyDecisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedItem(t, "MED002", seedBatch{"A", 40, "2025-03-01"})

	req := raise(t, f, "Ward 1", ledger.RequisitionLineCommand{ItemCode: "MED002", Quantity: 10})

	approved, err := f.svc.DecideRequisition(ctx, supervisor, req.ID, decide("APPROVED"))
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	require.NotNil(t, approved.DecidedBy)
	assert.Equal(t, supervisor.ID, approved.DecidedBy.ID)
	assert.Equal(t, int64(40), f.batchQty(t, "MED002", "A"))

	rejected, err := f.svc.DecideRequisition(ctx, supervisor, req.ID, decide("REJECTED"))
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", rejected.Status)
	assert.Equal(t, int64(40), f.batchQty(t, "MED002", "A"))

	_, err = f.svc.DecideRequisition(ctx, supervisor, req.ID, decide("FULFILLED"))
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	assert.Equal(t, []string{"REQUISITION_RAISED", "REQUISITION_UPDATE", "REQUISITION_UPDATE"},
		actions(f.entityLog(t, req.ID.String())))
}

func TestRaiseRequisition_UnknownItem(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RaiseRequisition(context.Background(), pharmacist, ledger.RaiseRequisitionCommand{
		Department: "Ward 1",
		Items:      []ledger.RequisitionLineCommand{{ItemCode: "NOPE", Quantity: 1}},
	})
	assert.ErrorIs(t, err, shared.ErrItemNotFound)
}
