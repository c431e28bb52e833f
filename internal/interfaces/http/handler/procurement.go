package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/audit"
)

// ProcurementService is the part of the ledger the purchasing endpoints use
type ProcurementService interface {
	CreatePurchaseOrder(ctx context.Context, actor audit.Actor, cmd ledger.CreatePurchaseOrderCommand) (*ledger.PurchaseOrderResponse, error)
	CancelPurchaseOrder(ctx context.Context, actor audit.Actor, poID uuid.UUID) (*ledger.PurchaseOrderResponse, error)
	GetPurchaseOrder(ctx context.Context, poID uuid.UUID) (*ledger.PurchaseOrderResponse, error)
	ProcessGoodsReceipt(ctx context.Context, actor audit.Actor, cmd ledger.ProcessGoodsReceiptCommand) (*ledger.GoodsReceiptResponse, error)
}

// ProcurementHandler handles purchase orders and goods receipts
type ProcurementHandler struct {
	BaseHandler
	service ProcurementService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(service ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{service: service}
}

// CreatePurchaseOrder places an order with a vendor
//
//	POST /purchase-orders
func (h *ProcurementHandler) CreatePurchaseOrder(c *gin.Context) {
	var cmd ledger.CreatePurchaseOrderCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	po, err := h.service.CreatePurchaseOrder(c.Request.Context(), h.Actor(c), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, po)
}

// GetPurchaseOrder returns one purchase order
//
//	GET /purchase-orders/:id
func (h *ProcurementHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	po, err := h.service.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// CancelPurchaseOrder cancels an open purchase order
//
//	POST /purchase-orders/:id/cancel
func (h *ProcurementHandler) CancelPurchaseOrder(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	po, err := h.service.CancelPurchaseOrder(c.Request.Context(), h.Actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// ReceiveGoods merges a vendor delivery into stock
//
//	POST /goods-receipts
func (h *ProcurementHandler) ReceiveGoods(c *gin.Context) {
	var cmd ledger.ProcessGoodsReceiptCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	receipt, err := h.service.ProcessGoodsReceipt(c.Request.Context(), h.Actor(c), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}
