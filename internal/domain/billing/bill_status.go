package billing

import (
	"github.com/hms/backend/internal/domain/shared"
)

// BillStatus represents the lifecycle status of a bill
type BillStatus string

const (
	BillStatusPendingApproval BillStatus = "PENDING_APPROVAL"
	BillStatusApproved        BillStatus = "APPROVED"
	BillStatusRejected        BillStatus = "REJECTED"
	BillStatusFinalized       BillStatus = "FINALIZED"
	BillStatusCancelled       BillStatus = "CANCELLED"
	BillStatusReturned        BillStatus = "RETURNED"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusPendingApproval, BillStatusApproved, BillStatusRejected,
		BillStatusFinalized, BillStatusCancelled, BillStatusReturned:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// BillCommand is a lifecycle command applied to a bill
type BillCommand string

const (
	BillCommandApprove  BillCommand = "APPROVE"
	BillCommandReject   BillCommand = "REJECT"
	BillCommandFinalize BillCommand = "FINALIZE"
	BillCommandCancel   BillCommand = "CANCEL"
	BillCommandReturn   BillCommand = "RETURN"
)

// billTransitions is the complete lifecycle. A (status, command) pair that is
// not listed is rejected.
var billTransitions = map[BillStatus]map[BillCommand]BillStatus{
	BillStatusPendingApproval: {
		BillCommandApprove: BillStatusApproved,
		BillCommandReject:  BillStatusRejected,
	},
	BillStatusApproved: {
		BillCommandFinalize: BillStatusFinalized,
		BillCommandCancel:   BillStatusCancelled,
	},
	BillStatusFinalized: {
		BillCommandCancel: BillStatusCancelled,
		BillCommandReturn: BillStatusReturned,
	},
	BillStatusReturned: {
		BillCommandReturn: BillStatusReturned,
	},
}

// Next returns the status reached by applying cmd, or ErrInvalidTransition.
func (s BillStatus) Next(cmd BillCommand) (BillStatus, error) {
	if next, ok := billTransitions[s][cmd]; ok {
		return next, nil
	}
	return s, shared.Errorf(shared.ErrInvalidTransition, "Cannot %s a bill in status %s", cmd, s)
}

// Allows reports whether cmd is legal from s
func (s BillStatus) Allows(cmd BillCommand) bool {
	_, ok := billTransitions[s][cmd]
	return ok
}

// IsTerminal reports whether no command is legal from s
func (s BillStatus) IsTerminal() bool {
	return len(billTransitions[s]) == 0
}
