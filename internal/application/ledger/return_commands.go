package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
)

// ProcessSalesReturn returns part of a finalized bill. Each returned quantity
// goes back to the batch it was sold from and is refunded at the line's
// post-discount, post-tax unit price.
func (s *Service) ProcessSalesReturn(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd ProcessSalesReturnCommand) (*SalesReturnResponse, error) {
	var resp SalesReturnResponse
	err := s.execute(ctx, "ProcessSalesReturn", actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		bill, err := tx.repos.Bills().FindByID(ctx, billID)
		if err != nil {
			return err
		}

		requests := make([]billing.ReturnRequest, len(cmd.Items))
		for i, it := range cmd.Items {
			requests[i] = billing.ReturnRequest{LineNo: it.LineNo, Quantity: it.Quantity}
		}
		items, err := bill.ApplyReturn(requests, tx.now)
		if err != nil {
			return err
		}
		ret := billing.NewSalesReturn(bill, items, tx.actor.ID, tx.actor.DisplayName(), tx.now)

		tx.trail.About(entityBill, bill.ID.String()).
			Record(audit.ActionSalesReturn, "Return on bill %s: %d units, refund %s",
				bill.BillNumber, ret.TotalQuantity(), formatAmount(ret.TotalRefund))
		for _, it := range items {
			item, err := tx.item(ctx, it.ItemCode)
			if err != nil {
				return err
			}
			mv, err := inventory.RestoreExplicit(item, it.BatchNumber, it.Quantity, tx.now)
			if err != nil {
				return err
			}
			tx.markDirty(item)
			tx.trail.Record(audit.ActionInventoryUpdate, "[RETURN] %s batch %s: +%d (%d -> %d) bill %s",
				mv.ItemName, mv.BatchNumber, mv.Quantity(), mv.Before, mv.After, bill.BillNumber)
		}

		if err := tx.repos.Bills().Save(ctx, bill); err != nil {
			return err
		}
		if err := tx.repos.SalesReturns().Save(ctx, ret); err != nil {
			return err
		}
		tx.collect(bill)
		resp = ToSalesReturnResponse(ret)
		resp.BillStatus = string(bill.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSalesReturns returns the returns recorded against a bill, oldest first.
func (s *Service) ListSalesReturns(ctx context.Context, billID uuid.UUID) ([]SalesReturnResponse, error) {
	var out []SalesReturnResponse
	err := s.read(ctx, "ListSalesReturns", func(ctx context.Context, repos TransactionalRepositories) error {
		if _, err := repos.Bills().FindByID(ctx, billID); err != nil {
			return err
		}
		returns, err := repos.SalesReturns().ListByBill(ctx, billID)
		if err != nil {
			return err
		}
		out = make([]SalesReturnResponse, len(returns))
		for i := range returns {
			out[i] = ToSalesReturnResponse(&returns[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
