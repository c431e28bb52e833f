package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/audit"
)

// RequisitionService is the part of the ledger the requisition endpoints use
type RequisitionService interface {
	RaiseRequisition(ctx context.Context, actor audit.Actor, cmd ledger.RaiseRequisitionCommand) (*ledger.RequisitionResponse, error)
	DecideRequisition(ctx context.Context, actor audit.Actor, reqID uuid.UUID, cmd ledger.DecideRequisitionCommand) (*ledger.RequisitionResponse, error)
	GetRequisition(ctx context.Context, reqID uuid.UUID) (*ledger.RequisitionResponse, error)
}

// RequisitionHandler handles department requisitions
type RequisitionHandler struct {
	BaseHandler
	service RequisitionService
}

// NewRequisitionHandler creates a new RequisitionHandler
func NewRequisitionHandler(service RequisitionService) *RequisitionHandler {
	return &RequisitionHandler{service: service}
}

// Raise raises a requisition
//
//	POST /requisitions
func (h *RequisitionHandler) Raise(c *gin.Context) {
	var cmd ledger.RaiseRequisitionCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	req, err := h.service.RaiseRequisition(c.Request.Context(), h.Actor(c), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, req)
}

// Get returns one requisition
//
//	GET /requisitions/:id
func (h *RequisitionHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	req, err := h.service.GetRequisition(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}

// Decide approves, rejects or fulfils a requisition
//
//	POST /requisitions/:id/decision
func (h *RequisitionHandler) Decide(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var cmd ledger.DecideRequisitionCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	req, err := h.service.DecideRequisition(c.Request.Context(), h.Actor(c), id, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}
