package audit

import (
	"context"

	"github.com/hms/backend/internal/domain/shared"
)

// Filter narrows audit log listings
type Filter struct {
	shared.Filter
	Action   Action
	ActorID  string
	EntityID string
}

// Repository persists the audit log. There is no update or delete.
type Repository interface {
	// Append stores entries as one batch. The slice is already in chronological
	// order; the store assigns increasing sequence numbers in that order, all
	// greater than any existing entry.
	Append(ctx context.Context, entries []Entry) error

	// List returns entries newest first with the total match count
	List(ctx context.Context, filter Filter) ([]Entry, int64, error)
}
