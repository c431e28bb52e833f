package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/shared"
)

// AuditService reads the audit log
type AuditService interface {
	ListAuditLog(ctx context.Context, f ledger.AuditLogFilter) (shared.Paginated[ledger.AuditEntryResponse], error)
}

// AuditHandler exposes the audit log
type AuditHandler struct {
	BaseHandler
	service AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List returns audit entries in append order
//
//	GET /audit-logs?action=&actor_id=&entity_id=&page=&page_size=
func (h *AuditHandler) List(c *gin.Context) {
	var filter ledger.AuditLogFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.service.ListAuditLog(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
