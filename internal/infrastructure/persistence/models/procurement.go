package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	AggregateModel
	OrderNumber   string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	VendorID      string          `gorm:"type:varchar(64);not null;index"`
	VendorName    string          `gorm:"type:varchar(200);not null"`
	OrderDate     time.Time       `gorm:"not null"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalTax      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedByID   string          `gorm:"type:varchar(64);not null"`
	CreatedByName string          `gorm:"type:varchar(200)"`
	CompletedAt   *time.Time
	// Associations
	Items []PurchaseOrderItemModel `gorm:"foreignKey:PurchaseOrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	po := &procurement.PurchaseOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		Vendor:            procurement.Vendor{ID: m.VendorID, Name: m.VendorName},
		OrderDate:         m.OrderDate,
		Items:             make([]procurement.PurchaseOrderItem, len(m.Items)),
		Status:            procurement.PurchaseOrderStatus(m.Status),
		SubTotal:          m.SubTotal,
		TotalDiscount:     m.TotalDiscount,
		TotalTax:          m.TotalTax,
		GrandTotal:        m.GrandTotal,
		CreatedByID:       m.CreatedByID,
		CreatedByName:     m.CreatedByName,
		CompletedAt:       m.CompletedAt,
	}
	for i, it := range m.Items {
		po.Items[i] = procurement.PurchaseOrderItem{
			ProductCode:     it.ProductCode,
			ItemName:        it.ItemName,
			Category:        inventory.Category(it.Category),
			Quantity:        it.Quantity,
			CostPrice:       it.CostPrice,
			DiscountPercent: it.DiscountPercent,
			TaxRate:         it.TaxRate,
			DiscountAmount:  it.DiscountAmount,
			TaxAmount:       it.TaxAmount,
		}
	}
	return po
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(po *procurement.PurchaseOrder) {
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	m.OrderNumber = po.OrderNumber
	m.VendorID = po.Vendor.ID
	m.VendorName = po.Vendor.Name
	m.OrderDate = po.OrderDate
	m.Status = string(po.Status)
	m.SubTotal = po.SubTotal
	m.TotalDiscount = po.TotalDiscount
	m.TotalTax = po.TotalTax
	m.GrandTotal = po.GrandTotal
	m.CreatedByID = po.CreatedByID
	m.CreatedByName = po.CreatedByName
	m.CompletedAt = po.CompletedAt
	m.Items = make([]PurchaseOrderItemModel, len(po.Items))
	for i, it := range po.Items {
		m.Items[i] = PurchaseOrderItemModel{
			PurchaseOrderID: po.ID,
			Position:        i,
			ProductCode:     it.ProductCode,
			ItemName:        it.ItemName,
			Category:        string(it.Category),
			Quantity:        it.Quantity,
			CostPrice:       it.CostPrice,
			DiscountPercent: it.DiscountPercent,
			TaxRate:         it.TaxRate,
			DiscountAmount:  it.DiscountAmount,
			TaxAmount:       it.TaxAmount,
		}
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(po *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(po)
	return m
}

// PurchaseOrderItemModel is the persistence model for an ordered product
type PurchaseOrderItemModel struct {
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position        int             `gorm:"primaryKey"`
	ProductCode     string          `gorm:"type:varchar(64);not null"`
	ItemName        string          `gorm:"type:varchar(200);not null"`
	Category        string          `gorm:"type:varchar(20)"`
	Quantity        int64           `gorm:"not null"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// GoodsReceiptModel is the persistence model for a GoodsReceipt.
// The unique receipt number is what stops a delivery being merged twice.
type GoodsReceiptModel struct {
	BaseModel
	ReceiptNumber    string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	PurchaseOrderID  *uuid.UUID `gorm:"type:uuid;index"`
	VendorID         string     `gorm:"type:varchar(64)"`
	VendorName       string     `gorm:"type:varchar(200);not null"`
	InvoiceReference string     `gorm:"type:varchar(100)"`
	ReceivedDate     time.Time  `gorm:"not null"`
	ReceivedByID     string     `gorm:"type:varchar(64);not null"`
	ReceivedByName   string     `gorm:"type:varchar(200)"`
	// Associations
	Lines []GoodsReceiptLineModel `gorm:"foreignKey:GoodsReceiptID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (GoodsReceiptModel) TableName() string {
	return "goods_receipts"
}

// GoodsReceiptModelFromDomain creates a persistence model from a domain GoodsReceipt.
func GoodsReceiptModelFromDomain(r *procurement.GoodsReceipt) *GoodsReceiptModel {
	m := &GoodsReceiptModel{
		ReceiptNumber:    r.ReceiptNumber,
		PurchaseOrderID:  r.PurchaseOrderID,
		VendorID:         r.Vendor.ID,
		VendorName:       r.Vendor.Name,
		InvoiceReference: r.InvoiceReference,
		ReceivedDate:     r.ReceivedDate,
		ReceivedByID:     r.ReceivedByID,
		ReceivedByName:   r.ReceivedByName,
		Lines:            make([]GoodsReceiptLineModel, len(r.Lines)),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	for i, l := range r.Lines {
		m.Lines[i] = GoodsReceiptLineModel{
			GoodsReceiptID:   r.ID,
			Position:         i,
			ProductCode:      l.ProductCode,
			ItemName:         l.ItemName,
			Category:         string(l.Category),
			TaxRate:          l.TaxRate,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			BatchNumber:      l.BatchNumber,
			ExpiryDate:       datePtr(l.ExpiryDate),
			CostPrice:        l.CostPrice,
			MRP:              l.MRP,
		}
	}
	return m
}

// ToDomain converts the persistence model to a domain GoodsReceipt.
func (m *GoodsReceiptModel) ToDomain() *procurement.GoodsReceipt {
	r := &procurement.GoodsReceipt{
		BaseEntity:       m.BaseModel.ToDomain(),
		ReceiptNumber:    m.ReceiptNumber,
		PurchaseOrderID:  m.PurchaseOrderID,
		Vendor:           procurement.Vendor{ID: m.VendorID, Name: m.VendorName},
		InvoiceReference: m.InvoiceReference,
		ReceivedDate:     m.ReceivedDate,
		ReceivedByID:     m.ReceivedByID,
		ReceivedByName:   m.ReceivedByName,
		Lines:            make([]procurement.GoodsReceiptLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		r.Lines[i] = procurement.GoodsReceiptLine{
			ProductCode:      l.ProductCode,
			ItemName:         l.ItemName,
			Category:         inventory.Category(l.Category),
			TaxRate:          l.TaxRate,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			BatchNumber:      l.BatchNumber,
			ExpiryDate:       dateValue(l.ExpiryDate),
			CostPrice:        l.CostPrice,
			MRP:              l.MRP,
		}
	}
	return r
}

// GoodsReceiptLineModel is the persistence model for a received line
type GoodsReceiptLineModel struct {
	GoodsReceiptID   uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Position         int              `gorm:"primaryKey"`
	ProductCode      string           `gorm:"type:varchar(64);not null;index"`
	ItemName         string           `gorm:"type:varchar(200)"`
	Category         string           `gorm:"type:varchar(20)"`
	TaxRate          decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	OrderedQuantity  int64            `gorm:"not null;default:0"`
	ReceivedQuantity int64            `gorm:"not null"`
	BatchNumber      string           `gorm:"type:varchar(64);not null"`
	ExpiryDate       *time.Time       `gorm:"type:date"`
	CostPrice        decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	MRP              *decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// TableName returns the table name for GORM
func (GoodsReceiptLineModel) TableName() string {
	return "goods_receipt_items"
}
