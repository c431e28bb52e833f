package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/shared"
)

// GetBill returns a bill by id.
func (s *Service) GetBill(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	var resp BillResponse
	err := s.read(ctx, "GetBill", func(ctx context.Context, repos TransactionalRepositories) error {
		bill, err := repos.Bills().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		resp = ToBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListBills returns a page of bills, newest first.
func (s *Service) ListBills(ctx context.Context, f BillListFilter) (shared.Paginated[BillResponse], error) {
	filter := billing.BillFilter{
		Filter:     shared.Filter{Page: f.Page, PageSize: f.PageSize},
		Status:     billing.BillStatus(f.Status),
		CustomerID: f.CustomerID,
	}
	var out shared.Paginated[BillResponse]
	err := s.read(ctx, "ListBills", func(ctx context.Context, repos TransactionalRepositories) error {
		bills, total, err := repos.Bills().List(ctx, filter)
		if err != nil {
			return err
		}
		resp := make([]BillResponse, len(bills))
		for i := range bills {
			resp[i] = ToBillResponse(&bills[i])
		}
		out = shared.NewPaginated(resp, total, filter.Page, filter.Limit())
		return nil
	})
	return out, err
}

// ListAuditLog returns a page of audit entries, newest first.
func (s *Service) ListAuditLog(ctx context.Context, f AuditLogFilter) (shared.Paginated[AuditEntryResponse], error) {
	filter := audit.Filter{
		Filter:   shared.Filter{Page: f.Page, PageSize: f.PageSize},
		Action:   audit.Action(f.Action),
		ActorID:  f.ActorID,
		EntityID: f.EntityID,
	}
	var out shared.Paginated[AuditEntryResponse]
	err := s.read(ctx, "ListAuditLog", func(ctx context.Context, repos TransactionalRepositories) error {
		entries, total, err := repos.AuditLog().List(ctx, filter)
		if err != nil {
			return err
		}
		resp := make([]AuditEntryResponse, len(entries))
		for i, e := range entries {
			resp[i] = ToAuditEntryResponse(e)
		}
		out = shared.NewPaginated(resp, total, filter.Page, filter.Limit())
		return nil
	})
	return out, err
}
