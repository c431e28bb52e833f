package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/shared"
)

// BillService is the part of the ledger the bill endpoints use
type BillService interface {
	CreateBill(ctx context.Context, actor audit.Actor, cmd ledger.CreateBillCommand) (*ledger.BillResponse, error)
	DecideBillApproval(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd ledger.DecideBillApprovalCommand) (*ledger.BillResponse, error)
	FinalizeBill(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd ledger.FinalizeBillCommand) (*ledger.BillResponse, error)
	CancelBill(ctx context.Context, actor audit.Actor, billID uuid.UUID) (*ledger.BillResponse, error)
	ProcessSalesReturn(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd ledger.ProcessSalesReturnCommand) (*ledger.SalesReturnResponse, error)
	ListSalesReturns(ctx context.Context, billID uuid.UUID) ([]ledger.SalesReturnResponse, error)
	GetBill(ctx context.Context, billID uuid.UUID) (*ledger.BillResponse, error)
	ListBills(ctx context.Context, f ledger.BillListFilter) (shared.Paginated[ledger.BillResponse], error)
}

// BillHandler handles bill lifecycle and sales return endpoints
type BillHandler struct {
	BaseHandler
	service BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(service BillService) *BillHandler {
	return &BillHandler{service: service}
}

// Create opens a bill
//
//	POST /bills
func (h *BillHandler) Create(c *gin.Context) {
	var cmd ledger.CreateBillCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	bill, err := h.service.CreateBill(c.Request.Context(), h.Actor(c), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// List lists bills
//
//	GET /bills?status=&customer_id=&page=&page_size=
func (h *BillHandler) List(c *gin.Context) {
	var filter ledger.BillListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.service.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one bill
//
//	GET /bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	bill, err := h.service.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// DecideApproval approves or rejects a bill waiting on its discount
//
//	POST /bills/:id/approval
func (h *BillHandler) DecideApproval(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var cmd ledger.DecideBillApprovalCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	bill, err := h.service.DecideBillApproval(c.Request.Context(), h.Actor(c), id, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// Finalize settles an approved bill and deducts its stock
//
//	POST /bills/:id/finalize
func (h *BillHandler) Finalize(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var cmd ledger.FinalizeBillCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	bill, err := h.service.FinalizeBill(c.Request.Context(), h.Actor(c), id, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// Cancel cancels a bill
//
//	POST /bills/:id/cancel
func (h *BillHandler) Cancel(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	bill, err := h.service.CancelBill(c.Request.Context(), h.Actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// CreateReturn returns units of a finalized bill to stock
//
//	POST /bills/:id/returns
func (h *BillHandler) CreateReturn(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var cmd ledger.ProcessSalesReturnCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	ret, err := h.service.ProcessSalesReturn(c.Request.Context(), h.Actor(c), id, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// ListReturns lists the returns recorded against a bill
//
//	GET /bills/:id/returns
func (h *BillHandler) ListReturns(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	returns, err := h.service.ListSalesReturns(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, returns)
}
