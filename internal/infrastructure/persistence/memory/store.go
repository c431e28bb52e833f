// Package memory is an in-process ledger store. Each transaction works on a
// private copy of the state that replaces the committed state only when the
// transaction succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/requisition"
)

// Store holds the committed ledger state
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{state: newState()}
}

// Execute runs fn against a copy of the committed state and commits the copy
// if fn returns nil.
func (s *Store) Execute(ctx context.Context, fn func(repos ledger.TransactionalRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&repositories{state: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

var _ ledger.TransactionScope = (*Store)(nil)

type state struct {
	items     map[string]*inventory.InventoryItem
	bills     map[uuid.UUID]*billing.Bill
	billOrder []uuid.UUID
	returns   []*billing.SalesReturn
	orders    map[uuid.UUID]*procurement.PurchaseOrder
	receipts  map[string]*procurement.GoodsReceipt
	reqs      map[uuid.UUID]*requisition.Requisition
	audit     []audit.Entry
	seq       int64
}

func newState() *state {
	return &state{
		items:    make(map[string]*inventory.InventoryItem),
		bills:    make(map[uuid.UUID]*billing.Bill),
		orders:   make(map[uuid.UUID]*procurement.PurchaseOrder),
		receipts: make(map[string]*procurement.GoodsReceipt),
		reqs:     make(map[uuid.UUID]*requisition.Requisition),
	}
}

// clone copies the maps and slices that a transaction can change. Stored
// aggregates are never mutated in place: repositories hand out copies and
// replace entries on Save, so sharing the pointers is safe.
func (st *state) clone() *state {
	c := &state{
		items:     make(map[string]*inventory.InventoryItem, len(st.items)),
		bills:     make(map[uuid.UUID]*billing.Bill, len(st.bills)),
		billOrder: append([]uuid.UUID(nil), st.billOrder...),
		returns:   append([]*billing.SalesReturn(nil), st.returns...),
		orders:    make(map[uuid.UUID]*procurement.PurchaseOrder, len(st.orders)),
		receipts:  make(map[string]*procurement.GoodsReceipt, len(st.receipts)),
		reqs:      make(map[uuid.UUID]*requisition.Requisition, len(st.reqs)),
		audit:     append([]audit.Entry(nil), st.audit...),
		seq:       st.seq,
	}
	for k, v := range st.items {
		c.items[k] = v
	}
	for k, v := range st.bills {
		c.bills[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	for k, v := range st.receipts {
		c.receipts[k] = v
	}
	for k, v := range st.reqs {
		c.reqs[k] = v
	}
	return c
}

type repositories struct {
	state *state
}

func (r *repositories) Items() inventory.InventoryItemRepository {
	return itemRepository{r.state}
}

func (r *repositories) Bills() billing.BillRepository {
	return billRepository{r.state}
}

func (r *repositories) SalesReturns() billing.SalesReturnRepository {
	return salesReturnRepository{r.state}
}

func (r *repositories) PurchaseOrders() procurement.PurchaseOrderRepository {
	return purchaseOrderRepository{r.state}
}

func (r *repositories) GoodsReceipts() procurement.GoodsReceiptRepository {
	return goodsReceiptRepository{r.state}
}

func (r *repositories) Requisitions() requisition.Repository {
	return requisitionRepository{r.state}
}

func (r *repositories) AuditLog() audit.Repository {
	return auditRepository{r.state}
}
