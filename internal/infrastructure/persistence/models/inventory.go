package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for the InventoryItem aggregate root.
// TotalStock is denormalised from the batches so that low stock can be filtered in SQL.
type InventoryItemModel struct {
	AggregateModel
	Code         string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null;index"`
	Category     string          `gorm:"type:varchar(20);not null;index"`
	ReorderLevel int64           `gorm:"not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TotalStock   int64           `gorm:"not null;default:0"`
	// Associations
	Batches []StockBatchModel `gorm:"foreignKey:InventoryItemID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem entity.
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	item := &inventory.InventoryItem{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Category:          inventory.Category(m.Category),
		ReorderLevel:      m.ReorderLevel,
		SellingPrice:      m.SellingPrice,
		TaxRate:           m.TaxRate,
		Batches:           make([]inventory.StockBatch, len(m.Batches)),
	}
	for i := range m.Batches {
		item.Batches[i] = m.Batches[i].ToDomain()
	}
	return item
}

// FromDomain populates the persistence model from a domain InventoryItem entity.
func (m *InventoryItemModel) FromDomain(i *inventory.InventoryItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Code = i.Code
	m.Name = i.Name
	m.Category = string(i.Category)
	m.ReorderLevel = i.ReorderLevel
	m.SellingPrice = i.SellingPrice
	m.TaxRate = i.TaxRate
	m.TotalStock = i.TotalStock()
	m.Batches = make([]StockBatchModel, len(i.Batches))
	for idx, b := range i.Batches {
		m.Batches[idx] = StockBatchModelFromDomain(i.ID, idx, b)
	}
}

// InventoryItemModelFromDomain creates a new persistence model from a domain InventoryItem entity.
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{}
	m.FromDomain(i)
	return m
}

// StockBatchModel is the persistence model for a StockBatch. Batches are keyed
// by item and batch number; Position keeps receipt order.
type StockBatchModel struct {
	InventoryItemID uuid.UUID        `gorm:"type:uuid;primaryKey"`
	BatchNumber     string           `gorm:"type:varchar(64);primaryKey"`
	Position        int              `gorm:"not null"`
	Quantity        int64            `gorm:"not null;default:0"`
	ExpiryDate      *time.Time       `gorm:"type:date;index"`
	CostPrice       decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	MRP             *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ReceivedAt      time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockBatchModel) TableName() string {
	return "stock_batches"
}

// ToDomain converts the persistence model to a domain StockBatch.
func (m *StockBatchModel) ToDomain() inventory.StockBatch {
	return inventory.StockBatch{
		BatchNumber: m.BatchNumber,
		Quantity:    m.Quantity,
		ExpiryDate:  dateValue(m.ExpiryDate),
		CostPrice:   m.CostPrice,
		MRP:         m.MRP,
		ReceivedAt:  m.ReceivedAt,
	}
}

// StockBatchModelFromDomain creates a persistence model for batch at position
func StockBatchModelFromDomain(itemID uuid.UUID, position int, b inventory.StockBatch) StockBatchModel {
	return StockBatchModel{
		InventoryItemID: itemID,
		BatchNumber:     b.BatchNumber,
		Position:        position,
		Quantity:        b.Quantity,
		ExpiryDate:      datePtr(b.ExpiryDate),
		CostPrice:       b.CostPrice,
		MRP:             b.MRP,
		ReceivedAt:      b.ReceivedAt,
	}
}
