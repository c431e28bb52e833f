package requisition

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for requisition persistence
type Repository interface {
	// FindByID returns ErrNotFound when the requisition does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Requisition, error)
	Save(ctx context.Context, r *Requisition) error
}
