package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/requisition"
	"github.com/hms/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Inventory items
// ---------------------------------------------------------------------------

type itemRepository struct{ st *state }

func copyItem(it *inventory.InventoryItem) *inventory.InventoryItem {
	c := *it
	c.Batches = append([]inventory.StockBatch(nil), it.Batches...)
	c.ClearDomainEvents()
	return &c
}

func (r itemRepository) FindByCode(_ context.Context, code string) (*inventory.InventoryItem, error) {
	it, ok := r.st.items[code]
	if !ok {
		return nil, shared.Errorf(shared.ErrItemNotFound, "Item %s not found", code)
	}
	return copyItem(it), nil
}

func (r itemRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.st.items[code]
	return ok, nil
}

func (r itemRepository) List(_ context.Context, filter inventory.ItemFilter) ([]inventory.InventoryItem, int64, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*inventory.InventoryItem, 0, len(r.st.items))
	for _, it := range r.st.items {
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if filter.LowStockOnly && !it.IsLowStock() {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Code), search) &&
			!strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		matched = append(matched, it)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })

	page := paginate(len(matched), filter.Filter)
	out := make([]inventory.InventoryItem, 0, page.end-page.start)
	for _, it := range matched[page.start:page.end] {
		out = append(out, *copyItem(it))
	}
	return out, int64(len(matched)), nil
}

func (r itemRepository) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.st.items[item.Code] = copyItem(item)
	return nil
}

func (r itemRepository) Delete(_ context.Context, code string) error {
	if _, ok := r.st.items[code]; !ok {
		return shared.Errorf(shared.ErrItemNotFound, "Item %s not found", code)
	}
	delete(r.st.items, code)
	return nil
}

// ---------------------------------------------------------------------------
// Bills and returns
// ---------------------------------------------------------------------------

type billRepository struct{ st *state }

func copyBill(b *billing.Bill) *billing.Bill {
	c := *b
	c.Items = append([]billing.BillLineItem(nil), b.Items...)
	c.ClearDomainEvents()
	return &c
}

func (r billRepository) FindByID(_ context.Context, id uuid.UUID) (*billing.Bill, error) {
	b, ok := r.st.bills[id]
	if !ok {
		return nil, shared.Errorf(shared.ErrNotFound, "Bill %s not found", id)
	}
	return copyBill(b), nil
}

func (r billRepository) List(_ context.Context, filter billing.BillFilter) ([]billing.Bill, int64, error) {
	matched := make([]*billing.Bill, 0, len(r.st.billOrder))
	for i := len(r.st.billOrder) - 1; i >= 0; i-- {
		b := r.st.bills[r.st.billOrder[i]]
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && b.Customer.PatientID != filter.CustomerID {
			continue
		}
		matched = append(matched, b)
	}
	page := paginate(len(matched), filter.Filter)
	out := make([]billing.Bill, 0, page.end-page.start)
	for _, b := range matched[page.start:page.end] {
		out = append(out, *copyBill(b))
	}
	return out, int64(len(matched)), nil
}

func (r billRepository) Save(_ context.Context, bill *billing.Bill) error {
	if _, ok := r.st.bills[bill.ID]; !ok {
		r.st.billOrder = append(r.st.billOrder, bill.ID)
	}
	r.st.bills[bill.ID] = copyBill(bill)
	return nil
}

type salesReturnRepository struct{ st *state }

func (r salesReturnRepository) Save(_ context.Context, ret *billing.SalesReturn) error {
	c := *ret
	c.Items = append([]billing.SalesReturnItem(nil), ret.Items...)
	r.st.returns = append(r.st.returns, &c)
	return nil
}

func (r salesReturnRepository) ListByBill(_ context.Context, billID uuid.UUID) ([]billing.SalesReturn, error) {
	out := make([]billing.SalesReturn, 0)
	for _, ret := range r.st.returns {
		if ret.BillID == billID {
			c := *ret
			c.Items = append([]billing.SalesReturnItem(nil), ret.Items...)
			out = append(out, c)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Procurement
// ---------------------------------------------------------------------------

type purchaseOrderRepository struct{ st *state }

func copyPurchaseOrder(po *procurement.PurchaseOrder) *procurement.PurchaseOrder {
	c := *po
	c.Items = append([]procurement.PurchaseOrderItem(nil), po.Items...)
	c.ClearDomainEvents()
	return &c
}

func (r purchaseOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	po, ok := r.st.orders[id]
	if !ok {
		return nil, shared.Errorf(shared.ErrNotFound, "Purchase order %s not found", id)
	}
	return copyPurchaseOrder(po), nil
}

func (r purchaseOrderRepository) Save(_ context.Context, po *procurement.PurchaseOrder) error {
	r.st.orders[po.ID] = copyPurchaseOrder(po)
	return nil
}

type goodsReceiptRepository struct{ st *state }

func (r goodsReceiptRepository) ExistsByReceiptNumber(_ context.Context, receiptNumber string) (bool, error) {
	_, ok := r.st.receipts[receiptNumber]
	return ok, nil
}

func (r goodsReceiptRepository) Save(_ context.Context, receipt *procurement.GoodsReceipt) error {
	if _, ok := r.st.receipts[receipt.ReceiptNumber]; ok {
		return shared.Errorf(shared.ErrDuplicateReceiptBatch, "Goods receipt %s already exists", receipt.ReceiptNumber)
	}
	c := *receipt
	c.Lines = append([]procurement.GoodsReceiptLine(nil), receipt.Lines...)
	r.st.receipts[receipt.ReceiptNumber] = &c
	return nil
}

// ---------------------------------------------------------------------------
// Requisitions
// ---------------------------------------------------------------------------

type requisitionRepository struct{ st *state }

func copyRequisition(req *requisition.Requisition) *requisition.Requisition {
	c := *req
	c.Items = append([]requisition.Item(nil), req.Items...)
	c.ClearDomainEvents()
	return &c
}

func (r requisitionRepository) FindByID(_ context.Context, id uuid.UUID) (*requisition.Requisition, error) {
	req, ok := r.st.reqs[id]
	if !ok {
		return nil, shared.Errorf(shared.ErrNotFound, "Requisition %s not found", id)
	}
	return copyRequisition(req), nil
}

func (r requisitionRepository) Save(_ context.Context, req *requisition.Requisition) error {
	r.st.reqs[req.ID] = copyRequisition(req)
	return nil
}

// ---------------------------------------------------------------------------
// Audit log
// ---------------------------------------------------------------------------

type auditRepository struct{ st *state }

func (r auditRepository) Append(_ context.Context, entries []audit.Entry) error {
	for _, e := range entries {
		r.st.seq++
		e.Sequence = r.st.seq
		r.st.audit = append(r.st.audit, e)
	}
	return nil
}

func (r auditRepository) List(_ context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	matched := make([]audit.Entry, 0)
	for i := len(r.st.audit) - 1; i >= 0; i-- {
		e := r.st.audit[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.ActorID != "" && e.ActorID != filter.ActorID {
			continue
		}
		if filter.EntityID != "" && e.EntityID != filter.EntityID {
			continue
		}
		matched = append(matched, e)
	}
	page := paginate(len(matched), filter.Filter)
	return matched[page.start:page.end], int64(len(matched)), nil
}

type window struct{ start, end int }

func paginate(n int, f shared.Filter) window {
	start := min(f.Offset(), n)
	end := min(start+f.Limit(), n)
	return window{start: start, end: end}
}
