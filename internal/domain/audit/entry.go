// Package audit holds the append-only ledger log. Entries are immutable once
// appended and the sequence number is their only ordering.
package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action tags one kind of ledger mutation
type Action string

const (
	ActionBillGenerated         Action = "BILL_GENERATED"
	ActionDiscountRequest       Action = "DISCOUNT_REQUEST"
	ActionDiscountApproval      Action = "DISCOUNT_APPROVAL"
	ActionBillFinalized         Action = "BILL_FINALIZED"
	ActionBillCancelled         Action = "BILL_CANCELLED"
	ActionSalesReturn           Action = "SALES_RETURN"
	ActionInventoryUpdate       Action = "INVENTORY_UPDATE"
	ActionInventoryRestock      Action = "INVENTORY_RESTOCK"
	ActionInventoryNewBatch     Action = "INVENTORY_NEW_BATCH"
	ActionInventoryAdd          Action = "INVENTORY_ADD"
	ActionInventoryMasterCreate Action = "INVENTORY_MASTER_CREATE"
	ActionInventoryMasterUpdate Action = "INVENTORY_MASTER_UPDATE"
	ActionInventoryMasterDelete Action = "INVENTORY_MASTER_DELETE"
	ActionGRNCreated            Action = "GRN_CREATED"
	ActionPOCreated             Action = "PO_CREATED"
	ActionPOCancelled           Action = "PO_CANCELLED"
	ActionRequisitionRaised     Action = "REQUISITION_RAISED"
	ActionRequisitionUpdate     Action = "REQUISITION_UPDATE"
)

// String returns the string representation
func (a Action) String() string {
	return string(a)
}

// Actor is the user a command is performed on behalf of.
type Actor struct {
	ID   string
	Name string
}

// IsZero reports whether no actor identity was supplied
func (a Actor) IsZero() bool {
	return strings.TrimSpace(a.ID) == ""
}

// DisplayName returns the name, falling back to the id
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// MustBePresent panics when the actor is missing. Every ledger command is
// attributed, so a command without an actor is a caller bug, not input error.
func (a Actor) MustBePresent(command string) {
	if a.IsZero() {
		panic(fmt.Sprintf("audit: %s called without an acting user", command))
	}
}

// Entry is one immutable audit log record
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Sequence   int64     `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	Action     Action    `json:"action"`
	Details    string    `json:"details"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
}
