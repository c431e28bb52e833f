package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/audit"
)

// AuditLogEntryModel is the persistence model for an audit log entry.
// Rows are only ever inserted; Sequence is assigned by the repository.
type AuditLogEntryModel struct {
	Sequence   int64     `gorm:"primaryKey;autoIncrement:false"`
	ID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Timestamp  time.Time `gorm:"not null;index"`
	ActorID    string    `gorm:"type:varchar(64);not null;index"`
	ActorName  string    `gorm:"type:varchar(200)"`
	Action     string    `gorm:"type:varchar(40);not null;index"`
	Details    string    `gorm:"type:text;not null"`
	EntityType string    `gorm:"type:varchar(40)"`
	EntityID   string    `gorm:"type:varchar(64);index"`
}

// TableName returns the table name for GORM
func (AuditLogEntryModel) TableName() string {
	return "audit_log_entries"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditLogEntryModel) ToDomain() audit.Entry {
	return audit.Entry{
		ID:         m.ID,
		Sequence:   m.Sequence,
		Timestamp:  m.Timestamp,
		ActorID:    m.ActorID,
		ActorName:  m.ActorName,
		Action:     audit.Action(m.Action),
		Details:    m.Details,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
	}
}

// AuditLogEntryModelFromDomain creates a persistence model from a domain audit Entry.
func AuditLogEntryModelFromDomain(e audit.Entry) AuditLogEntryModel {
	return AuditLogEntryModel{
		Sequence:   e.Sequence,
		ID:         e.ID,
		Timestamp:  e.Timestamp,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		Action:     string(e.Action),
		Details:    e.Details,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
	}
}

// All returns every ledger model in migration order.
func All() []any {
	return []any{
		&InventoryItemModel{},
		&StockBatchModel{},
		&BillModel{},
		&BillLineItemModel{},
		&SalesReturnModel{},
		&SalesReturnItemModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&GoodsReceiptModel{},
		&GoodsReceiptLineModel{},
		&RequisitionModel{},
		&RequisitionItemModel{},
		&AuditLogEntryModel{},
	}
}
