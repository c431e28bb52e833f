package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/requisition"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// CustomerInput identifies who a bill is for
type CustomerInput struct {
	Type      string `json:"type" binding:"required,oneof=REGISTERED WALK_IN"`
	PatientID string `json:"patient_id" binding:"required_if=Type REGISTERED,max=64"`
	Name      string `json:"name" binding:"required,max=200"`
	Contact   string `json:"contact" binding:"omitempty,max=50"`
}

// BillLineCommand picks a quantity from one batch of an item
type BillLineCommand struct {
	ItemCode        string          `json:"item_code" binding:"required,max=64"`
	BatchNumber     string          `json:"batch_number" binding:"required,max=64"`
	Quantity        int64           `json:"quantity" binding:"required,gt=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreateBillCommand opens a bill
type CreateBillCommand struct {
	BillType      string            `json:"bill_type" binding:"omitempty,oneof=PHARMACY SERVICES"`
	Customer      CustomerInput     `json:"customer"`
	Items         []BillLineCommand `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" binding:"required,oneof=CASH CARD UPI INSURANCE"`
}

// BillDecision is the outcome of a discount approval
type BillDecision string

const (
	BillDecisionApprove BillDecision = "APPROVE"
	BillDecisionReject  BillDecision = "REJECT"
)

// DecideBillApprovalCommand approves or rejects a discounted bill
type DecideBillApprovalCommand struct {
	Decision BillDecision `json:"decision" binding:"required,oneof=APPROVE REJECT"`
}

// FinalizeBillCommand settles an approved bill
type FinalizeBillCommand struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=CASH CARD UPI INSURANCE"`
}

// ReturnLineCommand returns units of one bill line
type ReturnLineCommand struct {
	LineNo   int   `json:"line_no" binding:"required,gt=0"`
	Quantity int64 `json:"quantity" binding:"gte=0"`
}

// ProcessSalesReturnCommand returns part of a finalized bill
type ProcessSalesReturnCommand struct {
	Items []ReturnLineCommand `json:"items" binding:"required,min=1,dive"`
}

// GoodsReceiptLineCommand is one delivered line
type GoodsReceiptLineCommand struct {
	ProductCode      string           `json:"product_code" binding:"required,max=64"`
	ItemName         string           `json:"item_name" binding:"omitempty,max=200"`
	Category         string           `json:"category" binding:"omitempty,oneof=Medicine Consumable General Pathology Radiology"`
	TaxRate          decimal.Decimal  `json:"tax_rate"`
	OrderedQuantity  int64            `json:"ordered_quantity" binding:"gte=0"`
	ReceivedQuantity int64            `json:"received_quantity" binding:"gte=0"`
	BatchNumber      string           `json:"batch_number" binding:"max=64"`
	ExpiryDate       string           `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	CostPrice        decimal.Decimal  `json:"cost_price"`
	MRP              *decimal.Decimal `json:"mrp"`
}

// ProcessGoodsReceiptCommand merges a vendor delivery into stock
type ProcessGoodsReceiptCommand struct {
	ReceiptNumber    string                    `json:"receipt_number" binding:"required,max=64"`
	PurchaseOrderID  *uuid.UUID                `json:"purchase_order_id"`
	VendorID         string                    `json:"vendor_id" binding:"required,max=64"`
	VendorName       string                    `json:"vendor_name" binding:"required,max=200"`
	InvoiceReference string                    `json:"invoice_reference" binding:"omitempty,max=100"`
	Items            []GoodsReceiptLineCommand `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderLineCommand is one ordered product
type PurchaseOrderLineCommand struct {
	ProductCode     string          `json:"product_code" binding:"required,max=64"`
	ItemName        string          `json:"item_name" binding:"required,max=200"`
	Category        string          `json:"category" binding:"omitempty,oneof=Medicine Consumable General"`
	Quantity        int64           `json:"quantity" binding:"required,gt=0"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
}

// CreatePurchaseOrderCommand places an order with a vendor
type CreatePurchaseOrderCommand struct {
	VendorID   string                     `json:"vendor_id" binding:"required,max=64"`
	VendorName string                     `json:"vendor_name" binding:"required,max=200"`
	Items      []PurchaseOrderLineCommand `json:"items" binding:"required,min=1,dive"`
}

// RequisitionLineCommand requests units of an item
type RequisitionLineCommand struct {
	ItemCode string `json:"item_code" binding:"required,max=64"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
}

// RaiseRequisitionCommand raises a department requisition
type RaiseRequisitionCommand struct {
	Department string                   `json:"department" binding:"required,max=100"`
	Items      []RequisitionLineCommand `json:"items" binding:"required,min=1,dive"`
}

// DecideRequisitionCommand moves a requisition to a new status
type DecideRequisitionCommand struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED FULFILLED"`
}

// InventoryMasterCommand carries the editable attributes of an item
type InventoryMasterCommand struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Category     string          `json:"category" binding:"required,oneof=Medicine Consumable General Pathology Radiology"`
	ReorderLevel int64           `json:"reorder_level" binding:"gte=0"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
}

func (c InventoryMasterCommand) master() inventory.MasterData {
	return inventory.MasterData{
		Name:         c.Name,
		Category:     inventory.Category(c.Category),
		ReorderLevel: c.ReorderLevel,
		SellingPrice: c.SellingPrice,
		TaxRate:      c.TaxRate,
	}
}

// RegisterInventoryItemCommand adds an item or service to the master list
type RegisterInventoryItemCommand struct {
	Code string `json:"code" binding:"required,max=64"`
	InventoryMasterCommand
}

// ---------------------------------------------------------------------------
// Query filters
// ---------------------------------------------------------------------------

// BillListFilter represents filter options for bill listings
type BillListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=PENDING_APPROVAL APPROVED REJECTED FINALIZED CANCELLED RETURNED"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// InventoryListFilter represents filter options for inventory listings
type InventoryListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=Medicine Consumable General Pathology Radiology"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AuditLogFilter represents filter options for the audit log
type AuditLogFilter struct {
	Action   string `form:"action"`
	ActorID  string `form:"actor_id"`
	EntityID string `form:"entity_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// ActorResponse identifies a user
type ActorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomerResponse represents a bill customer
type CustomerResponse struct {
	Type      string `json:"type"`
	PatientID string `json:"patient_id,omitempty"`
	Name      string `json:"name"`
	Contact   string `json:"contact,omitempty"`
}

// BillLineResponse represents a bill line
type BillLineResponse struct {
	LineNo           int             `json:"line_no"`
	ItemCode         string          `json:"item_code"`
	ItemName         string          `json:"item_name"`
	Category         string          `json:"category"`
	BatchNumber      string          `json:"batch_number"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	Quantity         int64           `json:"quantity"`
	ReturnedQuantity int64           `json:"returned_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID             uuid.UUID          `json:"id"`
	BillNumber     string             `json:"bill_number"`
	BillType       string             `json:"bill_type"`
	Customer       CustomerResponse   `json:"customer"`
	BillDate       time.Time          `json:"bill_date"`
	Items          []BillLineResponse `json:"items"`
	SubTotal       decimal.Decimal    `json:"sub_total"`
	TotalDiscount  decimal.Decimal    `json:"total_discount"`
	TotalTax       decimal.Decimal    `json:"total_tax"`
	GrandTotal     decimal.Decimal    `json:"grand_total"`
	PaymentMethod  string             `json:"payment_method"`
	Status         string             `json:"status"`
	RequestedBy    ActorResponse      `json:"requested_by"`
	SettledBy      *ActorResponse     `json:"settled_by,omitempty"`
	StockCommitted bool               `json:"stock_committed"`
	FinalizedAt    *time.Time         `json:"finalized_at,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Version        int                `json:"version"`
}

// SalesReturnItemResponse represents one returned line
type SalesReturnItemResponse struct {
	LineNo       int             `json:"line_no"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     int64           `json:"quantity"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// SalesReturnResponse represents a sales return
type SalesReturnResponse struct {
	ID          uuid.UUID                 `json:"id"`
	BillID      uuid.UUID                 `json:"bill_id"`
	BillNumber  string                    `json:"bill_number"`
	ReturnDate  time.Time                 `json:"return_date"`
	ProcessedBy ActorResponse             `json:"processed_by"`
	Items       []SalesReturnItemResponse `json:"items"`
	TotalRefund decimal.Decimal           `json:"total_refund"`
	BillStatus  string                    `json:"bill_status,omitempty"`
}

// StockBatchResponse represents a stock batch
type StockBatchResponse struct {
	BatchNumber string           `json:"batch_number"`
	Quantity    int64            `json:"quantity"`
	ExpiryDate  *time.Time       `json:"expiry_date,omitempty"`
	CostPrice   decimal.Decimal  `json:"cost_price"`
	MRP         *decimal.Decimal `json:"mrp,omitempty"`
}

// InventoryItemResponse represents an inventory item
type InventoryItemResponse struct {
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	Category     string               `json:"category"`
	ReorderLevel int64                `json:"reorder_level"`
	SellingPrice decimal.Decimal      `json:"selling_price"`
	TaxRate      decimal.Decimal      `json:"tax_rate"`
	TotalStock   int64                `json:"total_stock"`
	IsLowStock   bool                 `json:"is_low_stock"`
	Batches      []StockBatchResponse `json:"batches"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Version      int                  `json:"version"`
}

// PurchaseOrderItemResponse represents an ordered line
type PurchaseOrderItemResponse struct {
	ProductCode     string          `json:"product_code"`
	ItemName        string          `json:"item_name"`
	Category        string          `json:"category"`
	Quantity        int64           `json:"quantity"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
}

// PurchaseOrderResponse represents a purchase order
type PurchaseOrderResponse struct {
	ID            uuid.UUID                   `json:"id"`
	OrderNumber   string                      `json:"order_number"`
	VendorID      string                      `json:"vendor_id"`
	VendorName    string                      `json:"vendor_name"`
	OrderDate     time.Time                   `json:"order_date"`
	Items         []PurchaseOrderItemResponse `json:"items"`
	Status        string                      `json:"status"`
	SubTotal      decimal.Decimal             `json:"sub_total"`
	TotalDiscount decimal.Decimal             `json:"total_discount"`
	TotalTax      decimal.Decimal             `json:"total_tax"`
	GrandTotal    decimal.Decimal             `json:"grand_total"`
	CompletedAt   *time.Time                  `json:"completed_at,omitempty"`
}

// GoodsReceiptLineResult tells what happened to one received line
type GoodsReceiptLineResult struct {
	ProductCode string `json:"product_code"`
	BatchNumber string `json:"batch_number"`
	Quantity    int64  `json:"quantity"`
	Outcome     string `json:"outcome"`
	PriceRaised bool   `json:"price_raised"`
}

// GoodsReceiptResponse represents a processed goods receipt
type GoodsReceiptResponse struct {
	ID              uuid.UUID                `json:"id"`
	ReceiptNumber   string                   `json:"receipt_number"`
	PurchaseOrderID *uuid.UUID               `json:"purchase_order_id,omitempty"`
	VendorID        string                   `json:"vendor_id"`
	VendorName      string                   `json:"vendor_name"`
	ReceivedDate    time.Time                `json:"received_date"`
	Lines           []GoodsReceiptLineResult `json:"lines"`
	TotalReceived   int64                    `json:"total_received"`
}

// RequisitionItemResponse represents a requisition line
type RequisitionItemResponse struct {
	ItemCode          string `json:"item_code"`
	ItemName          string `json:"item_name"`
	Quantity          int64  `json:"quantity"`
	FulfilledQuantity int64  `json:"fulfilled_quantity"`
	Shortfall         int64  `json:"shortfall"`
}

// RequisitionResponse represents a requisition
type RequisitionResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Department  string                    `json:"department"`
	RequestedBy ActorResponse             `json:"requested_by"`
	RequestDate time.Time                 `json:"request_date"`
	Items       []RequisitionItemResponse `json:"items"`
	Status      string                    `json:"status"`
	DecidedBy   *ActorResponse            `json:"decided_by,omitempty"`
	DecidedAt   *time.Time                `json:"decided_at,omitempty"`
}

// AuditEntryResponse represents one audit log entry
type AuditEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	Sequence   int64     `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func optionalActor(id, name string) *ActorResponse {
	if id == "" {
		return nil
	}
	return &ActorResponse{ID: id, Name: name}
}

// ToBillResponse converts a domain Bill to a response
func ToBillResponse(b *billing.Bill) BillResponse {
	items := make([]BillLineResponse, len(b.Items))
	for i, l := range b.Items {
		items[i] = BillLineResponse{
			LineNo:           l.LineNo,
			ItemCode:         l.ItemCode,
			ItemName:         l.ItemName,
			Category:         string(l.Category),
			BatchNumber:      l.BatchNumber,
			ExpiryDate:       optionalTime(l.ExpiryDate),
			Quantity:         l.Quantity,
			ReturnedQuantity: l.ReturnedQuantity,
			UnitPrice:        l.UnitPrice,
			DiscountPercent:  l.DiscountPercent,
			DiscountAmount:   l.DiscountAmount,
			TaxRate:          l.TaxRate,
			TaxAmount:        l.TaxAmount,
			LineTotal:        l.LineTotal,
		}
	}
	return BillResponse{
		ID:         b.ID,
		BillNumber: b.BillNumber,
		BillType:   string(b.BillType),
		Customer: CustomerResponse{
			Type:      string(b.Customer.Type),
			PatientID: b.Customer.PatientID,
			Name:      b.Customer.Name,
			Contact:   b.Customer.Contact,
		},
		BillDate:       b.BillDate,
		Items:          items,
		SubTotal:       b.SubTotal,
		TotalDiscount:  b.TotalDiscount,
		TotalTax:       b.TotalTax,
		GrandTotal:     b.GrandTotal,
		PaymentMethod:  string(b.PaymentMethod),
		Status:         string(b.Status),
		RequestedBy:    ActorResponse{ID: b.RequestedByID, Name: b.RequestedByName},
		SettledBy:      optionalActor(b.SettledByID, b.SettledByName),
		StockCommitted: b.StockCommitted,
		FinalizedAt:    b.FinalizedAt,
		CancelledAt:    b.CancelledAt,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		Version:        b.Version,
	}
}

// ToSalesReturnResponse converts a domain SalesReturn to a response
func ToSalesReturnResponse(r *billing.SalesReturn) SalesReturnResponse {
	items := make([]SalesReturnItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = SalesReturnItemResponse{
			LineNo:       it.LineNo,
			ItemCode:     it.ItemCode,
			ItemName:     it.ItemName,
			BatchNumber:  it.BatchNumber,
			Quantity:     it.Quantity,
			RefundAmount: it.RefundAmount,
		}
	}
	return SalesReturnResponse{
		ID:          r.ID,
		BillID:      r.BillID,
		BillNumber:  r.BillNumber,
		ReturnDate:  r.ReturnDate,
		ProcessedBy: ActorResponse{ID: r.ProcessedByID, Name: r.ProcessedByName},
		Items:       items,
		TotalRefund: r.TotalRefund,
	}
}

// ToInventoryItemResponse converts a domain InventoryItem to a response
func ToInventoryItemResponse(it *inventory.InventoryItem) InventoryItemResponse {
	batches := make([]StockBatchResponse, len(it.Batches))
	for i, b := range it.Batches {
		batches[i] = StockBatchResponse{
			BatchNumber: b.BatchNumber,
			Quantity:    b.Quantity,
			ExpiryDate:  optionalTime(b.ExpiryDate),
			CostPrice:   b.CostPrice,
			MRP:         b.MRP,
		}
	}
	return InventoryItemResponse{
		Code:         it.Code,
		Name:         it.Name,
		Category:     string(it.Category),
		ReorderLevel: it.ReorderLevel,
		SellingPrice: it.SellingPrice,
		TaxRate:      it.TaxRate,
		TotalStock:   it.TotalStock(),
		IsLowStock:   it.IsLowStock(),
		Batches:      batches,
		UpdatedAt:    it.UpdatedAt,
		Version:      it.Version,
	}
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to a response
func ToPurchaseOrderResponse(po *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(po.Items))
	for i, it := range po.Items {
		items[i] = PurchaseOrderItemResponse{
			ProductCode:     it.ProductCode,
			ItemName:        it.ItemName,
			Category:        string(it.Category),
			Quantity:        it.Quantity,
			CostPrice:       it.CostPrice,
			DiscountPercent: it.DiscountPercent,
			TaxRate:         it.TaxRate,
		}
	}
	return PurchaseOrderResponse{
		ID:            po.ID,
		OrderNumber:   po.OrderNumber,
		VendorID:      po.Vendor.ID,
		VendorName:    po.Vendor.Name,
		OrderDate:     po.OrderDate,
		Items:         items,
		Status:        string(po.Status),
		SubTotal:      po.SubTotal,
		TotalDiscount: po.TotalDiscount,
		TotalTax:      po.TotalTax,
		GrandTotal:    po.GrandTotal,
		CompletedAt:   po.CompletedAt,
	}
}

// ToRequisitionResponse converts a domain Requisition to a response
func ToRequisitionResponse(r *requisition.Requisition) RequisitionResponse {
	items := make([]RequisitionItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = RequisitionItemResponse{
			ItemCode:          it.ItemCode,
			ItemName:          it.ItemName,
			Quantity:          it.Quantity,
			FulfilledQuantity: it.FulfilledQuantity,
			Shortfall:         it.Shortfall(),
		}
	}
	resp := RequisitionResponse{
		ID:          r.ID,
		Department:  r.Department,
		RequestedBy: ActorResponse{ID: r.RequestedByID, Name: r.RequestedByName},
		RequestDate: r.RequestDate,
		Items:       items,
		Status:      string(r.Status),
		DecidedBy:   optionalActor(r.DecidedByID, r.DecidedByName),
		DecidedAt:   r.DecidedAt,
	}
	if r.Status != requisition.StatusFulfilled {
		for i := range resp.Items {
			resp.Items[i].Shortfall = 0
		}
	}
	return resp
}

// ToAuditEntryResponse converts an audit entry to a response
func ToAuditEntryResponse(e audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID,
		Sequence:   e.Sequence,
		Timestamp:  e.Timestamp,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		Action:     string(e.Action),
		Details:    e.Details,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
	}
}
