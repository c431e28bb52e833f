package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
)

// BillFilter narrows bill listings
type BillFilter struct {
	shared.Filter
	Status     BillStatus
	CustomerID string
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindByID returns ErrNotFound when the bill does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// List returns bills newest first with the total match count
	List(ctx context.Context, filter BillFilter) ([]Bill, int64, error)

	// Save creates or replaces the bill and its lines
	Save(ctx context.Context, bill *Bill) error
}

// SalesReturnRepository defines the interface for sales return persistence
type SalesReturnRepository interface {
	Save(ctx context.Context, ret *SalesReturn) error

	// ListByBill returns the returns of a bill in the order they were made
	ListByBill(ctx context.Context, billID uuid.UUID) ([]SalesReturn, error)
}
