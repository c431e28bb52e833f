package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/hms/backend/internal/infrastructure/logger"
	"github.com/hms/backend/internal/interfaces/http/handler"
	"github.com/hms/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds the HTTP settings the engine is built with
type Config struct {
	ServiceName    string
	TracingEnabled bool
	TracerProvider trace.TracerProvider
	MaxBodySize    int64
	IdempotencyTTL time.Duration
	TrustedProxies []string
}

// Handlers groups the ledger handlers
type Handlers struct {
	Bills        *handler.BillHandler
	Inventory    *handler.InventoryHandler
	Procurement  *handler.ProcurementHandler
	Requisitions *handler.RequisitionHandler
	Audit        *handler.AuditHandler
	Health       *handler.HealthHandler
}

// NewHandlers builds every handler on one ledger service
func NewHandlers(svc *ledger.Service, checks map[string]handler.HealthCheck) Handlers {
	return Handlers{
		Bills:        handler.NewBillHandler(svc),
		Inventory:    handler.NewInventoryHandler(svc),
		Procurement:  handler.NewProcurementHandler(svc),
		Requisitions: handler.NewRequisitionHandler(svc),
		Audit:        handler.NewAuditHandler(svc),
		Health:       handler.NewHealthHandler(checks),
	}
}

// NewEngine builds the gin engine with the middleware chain and every route.
// Ledger routes require an actor; POST routes honour Idempotency-Key.
func NewEngine(cfg Config, log *zap.Logger, store shared.IdempotencyStore, h Handlers) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	middleware.SetupValidator()

	engine.Use(
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.ServiceName,
			Enabled:        cfg.TracingEnabled,
			TracerProvider: cfg.TracerProvider,
		}),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.SpanAttributes(),
		middleware.Secure(),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", h.Health.Check)

	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	guarded := []gin.HandlerFunc{middleware.RequireActor(), middleware.Idempotency(store, ttl)}

	bills := NewDomainGroup("bills", "/bills").Use(guarded...).
		POST("", h.Bills.Create).
		GET("", h.Bills.List).
		GET("/:id", h.Bills.Get).
		POST("/:id/approval", h.Bills.DecideApproval).
		POST("/:id/finalize", h.Bills.Finalize).
		POST("/:id/cancel", h.Bills.Cancel).
		POST("/:id/returns", h.Bills.CreateReturn).
		GET("/:id/returns", h.Bills.ListReturns)

	purchaseOrders := NewDomainGroup("purchase-orders", "/purchase-orders").Use(guarded...).
		POST("", h.Procurement.CreatePurchaseOrder).
		GET("/:id", h.Procurement.GetPurchaseOrder).
		POST("/:id/cancel", h.Procurement.CancelPurchaseOrder)

	goodsReceipts := NewDomainGroup("goods-receipts", "/goods-receipts").Use(guarded...).
		POST("", h.Procurement.ReceiveGoods)

	requisitions := NewDomainGroup("requisitions", "/requisitions").Use(guarded...).
		POST("", h.Requisitions.Raise).
		GET("/:id", h.Requisitions.Get).
		POST("/:id/decision", h.Requisitions.Decide)

	inventory := NewDomainGroup("inventory", "/inventory").Use(guarded...).
		GET("", h.Inventory.List).
		POST("", h.Inventory.Register).
		GET("/:code", h.Inventory.Get).
		PUT("/:code", h.Inventory.Edit).
		DELETE("/:code", h.Inventory.Delete)

	auditLogs := NewDomainGroup("audit-logs", "/audit-logs").Use(guarded...).
		GET("", h.Audit.List)

	health := NewDomainGroup("health", "/health").GET("", h.Health.Check)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(bills).
		Register(purchaseOrders).
		Register(goodsReceipts).
		Register(requisitions).
		Register(inventory).
		Register(auditLogs).
		Register(health).
		Setup()

	return engine, nil
}
