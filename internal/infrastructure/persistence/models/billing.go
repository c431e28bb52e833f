package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// BillModel is the persistence model for the Bill aggregate root.
type BillModel struct {
	AggregateModel
	BillNumber      string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	BillType        string          `gorm:"type:varchar(20);not null"`
	CustomerType    string          `gorm:"type:varchar(20);not null"`
	PatientID       string          `gorm:"type:varchar(64);index"`
	CustomerName    string          `gorm:"type:varchar(200);not null"`
	CustomerContact string          `gorm:"type:varchar(50)"`
	BillDate        time.Time       `gorm:"not null;index"`
	SubTotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalDiscount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalTax        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null"`
	Status          string          `gorm:"type:varchar(20);not null;index"`
	RequestedByID   string          `gorm:"type:varchar(64);not null"`
	RequestedByName string          `gorm:"type:varchar(200)"`
	SettledByID     string          `gorm:"type:varchar(64)"`
	SettledByName   string          `gorm:"type:varchar(200)"`
	StockCommitted  bool            `gorm:"not null;default:false"`
	FinalizedAt     *time.Time
	CancelledAt     *time.Time
	// Associations
	Items []BillLineItemModel `gorm:"foreignKey:BillID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill entity.
func (m *BillModel) ToDomain() *billing.Bill {
	b := &billing.Bill{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BillNumber:        m.BillNumber,
		BillType:          billing.BillType(m.BillType),
		Customer: billing.Customer{
			Type:      billing.CustomerType(m.CustomerType),
			PatientID: m.PatientID,
			Name:      m.CustomerName,
			Contact:   m.CustomerContact,
		},
		BillDate:        m.BillDate,
		Items:           make([]billing.BillLineItem, len(m.Items)),
		SubTotal:        m.SubTotal,
		TotalDiscount:   m.TotalDiscount,
		TotalTax:        m.TotalTax,
		GrandTotal:      m.GrandTotal,
		PaymentMethod:   billing.PaymentMethod(m.PaymentMethod),
		Status:          billing.BillStatus(m.Status),
		RequestedByID:   m.RequestedByID,
		RequestedByName: m.RequestedByName,
		SettledByID:     m.SettledByID,
		SettledByName:   m.SettledByName,
		StockCommitted:  m.StockCommitted,
		FinalizedAt:     m.FinalizedAt,
		CancelledAt:     m.CancelledAt,
	}
	for i := range m.Items {
		b.Items[i] = m.Items[i].ToDomain()
	}
	return b
}

// FromDomain populates the persistence model from a domain Bill entity.
func (m *BillModel) FromDomain(b *billing.Bill) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BillNumber = b.BillNumber
	m.BillType = string(b.BillType)
	m.CustomerType = string(b.Customer.Type)
	m.PatientID = b.Customer.PatientID
	m.CustomerName = b.Customer.Name
	m.CustomerContact = b.Customer.Contact
	m.BillDate = b.BillDate
	m.SubTotal = b.SubTotal
	m.TotalDiscount = b.TotalDiscount
	m.TotalTax = b.TotalTax
	m.GrandTotal = b.GrandTotal
	m.PaymentMethod = string(b.PaymentMethod)
	m.Status = string(b.Status)
	m.RequestedByID = b.RequestedByID
	m.RequestedByName = b.RequestedByName
	m.SettledByID = b.SettledByID
	m.SettledByName = b.SettledByName
	m.StockCommitted = b.StockCommitted
	m.FinalizedAt = b.FinalizedAt
	m.CancelledAt = b.CancelledAt
	m.Items = make([]BillLineItemModel, len(b.Items))
	for i, l := range b.Items {
		m.Items[i] = BillLineItemModelFromDomain(b.ID, l)
	}
}

// BillModelFromDomain creates a new persistence model from a domain Bill entity.
func BillModelFromDomain(b *billing.Bill) *BillModel {
	m := &BillModel{}
	m.FromDomain(b)
	return m
}

// BillLineItemModel is the persistence model for a bill line
type BillLineItemModel struct {
	BillID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LineNo           int             `gorm:"primaryKey"`
	ItemCode         string          `gorm:"type:varchar(64);not null;index"`
	ItemName         string          `gorm:"type:varchar(200);not null"`
	Category         string          `gorm:"type:varchar(20);not null"`
	BatchNumber      string          `gorm:"type:varchar(64);not null"`
	ExpiryDate       *time.Time      `gorm:"type:date"`
	Quantity         int64           `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReturnedQuantity int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BillLineItemModel) TableName() string {
	return "bill_line_items"
}

// ToDomain converts the persistence model to a domain BillLineItem.
func (m *BillLineItemModel) ToDomain() billing.BillLineItem {
	return billing.BillLineItem{
		LineNo:           m.LineNo,
		ItemCode:         m.ItemCode,
		ItemName:         m.ItemName,
		Category:         inventory.Category(m.Category),
		BatchNumber:      m.BatchNumber,
		ExpiryDate:       dateValue(m.ExpiryDate),
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		DiscountPercent:  m.DiscountPercent,
		DiscountAmount:   m.DiscountAmount,
		TaxRate:          m.TaxRate,
		TaxAmount:        m.TaxAmount,
		LineTotal:        m.LineTotal,
		ReturnedQuantity: m.ReturnedQuantity,
	}
}

// BillLineItemModelFromDomain creates a persistence model for a bill line
func BillLineItemModelFromDomain(billID uuid.UUID, l billing.BillLineItem) BillLineItemModel {
	return BillLineItemModel{
		BillID:           billID,
		LineNo:           l.LineNo,
		ItemCode:         l.ItemCode,
		ItemName:         l.ItemName,
		Category:         string(l.Category),
		BatchNumber:      l.BatchNumber,
		ExpiryDate:       datePtr(l.ExpiryDate),
		Quantity:         l.Quantity,
		UnitPrice:        l.UnitPrice,
		DiscountPercent:  l.DiscountPercent,
		DiscountAmount:   l.DiscountAmount,
		TaxRate:          l.TaxRate,
		TaxAmount:        l.TaxAmount,
		LineTotal:        l.LineTotal,
		ReturnedQuantity: l.ReturnedQuantity,
	}
}

// SalesReturnModel is the persistence model for a SalesReturn.
type SalesReturnModel struct {
	BaseModel
	BillID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	BillNumber      string          `gorm:"type:varchar(32);not null"`
	ReturnDate      time.Time       `gorm:"not null"`
	ProcessedByID   string          `gorm:"type:varchar(64);not null"`
	ProcessedByName string          `gorm:"type:varchar(200)"`
	TotalRefund     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	// Associations
	Items []SalesReturnItemModel `gorm:"foreignKey:SalesReturnID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SalesReturnModel) TableName() string {
	return "sales_returns"
}

// ToDomain converts the persistence model to a domain SalesReturn.
func (m *SalesReturnModel) ToDomain() billing.SalesReturn {
	r := billing.SalesReturn{
		BaseEntity:      m.BaseModel.ToDomain(),
		BillID:          m.BillID,
		BillNumber:      m.BillNumber,
		ReturnDate:      m.ReturnDate,
		ProcessedByID:   m.ProcessedByID,
		ProcessedByName: m.ProcessedByName,
		Items:           make([]billing.SalesReturnItem, len(m.Items)),
		TotalRefund:     m.TotalRefund,
	}
	for i, it := range m.Items {
		r.Items[i] = billing.SalesReturnItem{
			LineNo:       it.LineNo,
			ItemCode:     it.ItemCode,
			ItemName:     it.ItemName,
			BatchNumber:  it.BatchNumber,
			Quantity:     it.Quantity,
			RefundAmount: it.RefundAmount,
		}
	}
	return r
}

// SalesReturnModelFromDomain creates a persistence model from a domain SalesReturn.
func SalesReturnModelFromDomain(r *billing.SalesReturn) *SalesReturnModel {
	m := &SalesReturnModel{
		BillID:          r.BillID,
		BillNumber:      r.BillNumber,
		ReturnDate:      r.ReturnDate,
		ProcessedByID:   r.ProcessedByID,
		ProcessedByName: r.ProcessedByName,
		TotalRefund:     r.TotalRefund,
		Items:           make([]SalesReturnItemModel, len(r.Items)),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	for i, it := range r.Items {
		m.Items[i] = SalesReturnItemModel{
			SalesReturnID: r.ID,
			LineNo:        it.LineNo,
			ItemCode:      it.ItemCode,
			ItemName:      it.ItemName,
			BatchNumber:   it.BatchNumber,
			Quantity:      it.Quantity,
			RefundAmount:  it.RefundAmount,
		}
	}
	return m
}

// SalesReturnItemModel is the persistence model for a returned line
type SalesReturnItemModel struct {
	SalesReturnID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LineNo        int             `gorm:"primaryKey"`
	ItemCode      string          `gorm:"type:varchar(64);not null"`
	ItemName      string          `gorm:"type:varchar(200);not null"`
	BatchNumber   string          `gorm:"type:varchar(64);not null"`
	Quantity      int64           `gorm:"not null"`
	RefundAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SalesReturnItemModel) TableName() string {
	return "sales_return_items"
}
