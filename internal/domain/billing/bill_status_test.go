package billing

import (
	"testing"

	"github.com/hms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestBillStatus_Next(t *testing.T) {
	tests := []struct {
		from    BillStatus
		cmd     BillCommand
		want    BillStatus
		wantErr bool
	}{
		{BillStatusPendingApproval, BillCommandApprove, BillStatusApproved, false},
		{BillStatusPendingApproval, BillCommandReject, BillStatusRejected, false},
		{BillStatusPendingApproval, BillCommandFinalize, "", true},
		{BillStatusPendingApproval, BillCommandCancel, "", true},
		{BillStatusApproved, BillCommandFinalize, BillStatusFinalized, false},
		{BillStatusApproved, BillCommandCancel, BillStatusCancelled, false},
		{BillStatusApproved, BillCommandReturn, "", true},
		{BillStatusFinalized, BillCommandCancel, BillStatusCancelled, false},
		{BillStatusFinalized, BillCommandReturn, BillStatusReturned, false},
		{BillStatusFinalized, BillCommandApprove, "", true},
		{BillStatusReturned, BillCommandReturn, BillStatusReturned, false},
		{BillStatusReturned, BillCommandCancel, "", true},
		{BillStatusRejected, BillCommandCancel, "", true},
		{BillStatusCancelled, BillCommandCancel, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.cmd), func(t *testing.T) {
			got, err := tt.from.Next(tt.cmd)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrInvalidTransition)
				assert.Equal(t, tt.from, got)
				assert.False(t, tt.from.Allows(tt.cmd))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, tt.from.Allows(tt.cmd))
		})
	}
}

func TestBillStatus_Terminal(t *testing.T) {
	assert.True(t, BillStatusRejected.IsTerminal())
	assert.True(t, BillStatusCancelled.IsTerminal())
	assert.False(t, BillStatusReturned.IsTerminal())
	assert.False(t, BillStatusPendingApproval.IsTerminal())
	assert.False(t, BillStatus("DRAFT").IsValid())
}
