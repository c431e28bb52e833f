package ledger

import (
	"context"

	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/requisition"
)

// TransactionScope provides transactional access to the ledger repositories.
// Every repository operation inside Execute is part of the same transaction:
// if fn returns an error nothing it wrote is kept, the audit entries included.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to all ledger repositories within a
// transaction. StockBatch has no repository of its own: batches are saved
// with their InventoryItem.
type TransactionalRepositories interface {
	Items() inventory.InventoryItemRepository
	Bills() billing.BillRepository
	SalesReturns() billing.SalesReturnRepository
	PurchaseOrders() procurement.PurchaseOrderRepository
	GoodsReceipts() procurement.GoodsReceiptRepository
	Requisitions() requisition.Repository
	AuditLog() audit.Repository
}
