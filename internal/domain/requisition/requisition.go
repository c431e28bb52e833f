package requisition

import (
	"strings"
	"time"

	"github.com/hms/backend/internal/domain/shared"
)

// AggregateTypeRequisition is the aggregate type for Requisition
const AggregateTypeRequisition = "Requisition"

// Status represents the status of a requisition
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusFulfilled Status = "FULFILLED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusFulfilled:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// transitions lists the decisions allowed from each status. Fulfilled and
// Rejected are final; fulfilling twice would withdraw stock twice.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusFulfilled},
	StatusApproved: {StatusFulfilled, StatusRejected},
}

// CanTransitionTo checks if the status can move to target
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Item is one requested product line
type Item struct {
	ItemCode          string
	ItemName          string
	Quantity          int64
	FulfilledQuantity int64
}

// Shortfall returns units requested but not issued
func (i Item) Shortfall() int64 {
	if i.FulfilledQuantity >= i.Quantity {
		return 0
	}
	return i.Quantity - i.FulfilledQuantity
}

// Requisition is a department's request to withdraw stock from the store
type Requisition struct {
	shared.BaseAggregateRoot
	Department      string
	RequestedByID   string
	RequestedByName string
	RequestDate     time.Time
	Items           []Item
	Status          Status
	DecidedByID     string
	DecidedByName   string
	DecidedAt       *time.Time
}

// NewRequisition raises a pending requisition
func NewRequisition(department string, items []Item, requestedByID, requestedByName string, now time.Time) (*Requisition, error) {
	if strings.TrimSpace(department) == "" {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Department is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_REQUISITION", "Requisition must have at least one item")
	}
	lines := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ItemCode) == "" {
			return nil, shared.Errorf(shared.ErrInvalidInput, "Requisition line must reference an item")
		}
		if it.Quantity <= 0 {
			return nil, shared.Errorf(shared.ErrInvalidQuantity, "Requested quantity for %s must be positive", it.ItemCode)
		}
		it.FulfilledQuantity = 0
		lines = append(lines, it)
	}
	return &Requisition{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Department:        department,
		RequestedByID:     requestedByID,
		RequestedByName:   requestedByName,
		RequestDate:       now,
		Items:             lines,
		Status:            StatusPending,
	}, nil
}

// Decide moves the requisition to target. Issuing stock for a Fulfilled
// decision is done by the caller, which then records quantities with RecordIssue.
func (r *Requisition) Decide(target Status, deciderID, deciderName string, now time.Time) error {
	if !target.IsValid() {
		return shared.Errorf(shared.ErrInvalidInput, "Unknown requisition status %q", target)
	}
	if !r.Status.CanTransitionTo(target) {
		return shared.Errorf(shared.ErrInvalidTransition,
			"Requisition in status %s cannot become %s", r.Status, target)
	}
	r.Status = target
	r.DecidedByID = deciderID
	r.DecidedByName = deciderName
	r.DecidedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// RecordIssue stores how many units were issued for line idx
func (r *Requisition) RecordIssue(idx int, qty int64) {
	if idx < 0 || idx >= len(r.Items) {
		return
	}
	r.Items[idx].FulfilledQuantity = qty
}

// TotalShortfall returns units requested but not issued across all lines
func (r *Requisition) TotalShortfall() int64 {
	var n int64
	for _, it := range r.Items {
		n += it.Shortfall()
	}
	return n
}
