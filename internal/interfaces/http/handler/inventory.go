package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/shared"
)

// InventoryService is the part of the ledger the inventory endpoints use
type InventoryService interface {
	RegisterInventoryItem(ctx context.Context, actor audit.Actor, cmd ledger.RegisterInventoryItemCommand) (*ledger.InventoryItemResponse, error)
	EditInventoryMaster(ctx context.Context, actor audit.Actor, code string, cmd ledger.InventoryMasterCommand) (*ledger.InventoryItemResponse, error)
	DeleteInventoryItem(ctx context.Context, actor audit.Actor, code string) error
	GetInventoryItem(ctx context.Context, code string) (*ledger.InventoryItemResponse, error)
	ListInventory(ctx context.Context, f ledger.InventoryListFilter) (shared.Paginated[ledger.InventoryItemResponse], error)
}

// InventoryHandler handles the inventory master endpoints
type InventoryHandler struct {
	BaseHandler
	service InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// List lists inventory items with their batches
//
//	GET /inventory?search=&category=&low_stock=&page=&page_size=
func (h *InventoryHandler) List(c *gin.Context) {
	var filter ledger.InventoryListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.service.ListInventory(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Register adds an item or billable service
//
//	POST /inventory
func (h *InventoryHandler) Register(c *gin.Context) {
	var cmd ledger.RegisterInventoryItemCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	item, err := h.service.RegisterInventoryItem(c.Request.Context(), h.Actor(c), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Get returns one item
//
//	GET /inventory/:code
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.service.GetInventoryItem(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Edit replaces the master attributes of an item. Stock is untouched.
//
//	PUT /inventory/:code
func (h *InventoryHandler) Edit(c *gin.Context) {
	var cmd ledger.InventoryMasterCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	item, err := h.service.EditInventoryMaster(c.Request.Context(), h.Actor(c), c.Param("code"), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes an item
//
//	DELETE /inventory/:code
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteInventoryItem(c.Request.Context(), h.Actor(c), c.Param("code")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
