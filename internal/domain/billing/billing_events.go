package billing

import (
	"time"

	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for billing
const (
	EventTypeBillCreated       = "BillCreated"
	EventTypeBillStatusChanged = "BillStatusChanged"
)

// BillCreatedEvent is raised when a bill is opened
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillNumber string          `json:"bill_number"`
	Status     BillStatus      `json:"status"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// NewBillCreatedEvent creates a new BillCreatedEvent
func NewBillCreatedEvent(b *Bill) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillCreated, AggregateTypeBill, b.ID, b.CreatedAt),
		BillNumber:      b.BillNumber,
		Status:          b.Status,
		GrandTotal:      b.GrandTotal,
	}
}

// BillStatusChangedEvent is raised on every lifecycle transition
type BillStatusChangedEvent struct {
	shared.BaseDomainEvent
	BillNumber string     `json:"bill_number"`
	FromStatus BillStatus `json:"from_status"`
	ToStatus   BillStatus `json:"to_status"`
}

// NewBillStatusChangedEvent creates a new BillStatusChangedEvent
func NewBillStatusChangedEvent(b *Bill, from BillStatus, at time.Time) *BillStatusChangedEvent {
	return &BillStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillStatusChanged, AggregateTypeBill, b.ID, at),
		BillNumber:      b.BillNumber,
		FromStatus:      from,
		ToStatus:        b.Status,
	}
}
