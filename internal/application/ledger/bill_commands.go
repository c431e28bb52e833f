package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
)

const entityBill = "Bill"

// CreateBill prices the lines against current inventory and opens a bill.
// A bill within the discount threshold is finalized at once and its stock
// deducted; otherwise it waits for approval and stock is untouched.
func (s *Service) CreateBill(ctx context.Context, actor audit.Actor, cmd CreateBillCommand) (*BillResponse, error) {
	var resp BillResponse
	err := s.execute(ctx, "CreateBill", actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		lines := make([]billing.LineInput, 0, len(cmd.Items))
		for _, l := range cmd.Items {
			item, err := tx.item(ctx, l.ItemCode)
			if err != nil {
				return err
			}
			in, err := billing.LineFromInventory(item, l.BatchNumber, l.Quantity, l.DiscountPercent)
			if err != nil {
				return err
			}
			lines = append(lines, in)
		}

		bill, err := billing.NewBill(billing.NewBillParams{
			BillNumber: documentNumber("BL", uuid.New(), tx.now),
			BillType:   billing.BillType(cmd.BillType),
			Customer: billing.Customer{
				Type:      billing.CustomerType(cmd.Customer.Type),
				PatientID: cmd.Customer.PatientID,
				Name:      cmd.Customer.Name,
				Contact:   cmd.Customer.Contact,
			},
			Lines:                     lines,
			PaymentMethod:             billing.PaymentMethod(cmd.PaymentMethod),
			RequestedByID:             tx.actor.ID,
			RequestedByName:           tx.actor.DisplayName(),
			DiscountApprovalThreshold: s.cfg.DiscountApprovalThreshold,
			Now:                       tx.now,
		})
		if err != nil {
			return err
		}

		trail := tx.trail.About(entityBill, bill.ID.String())
		if bill.Status == billing.BillStatusPendingApproval {
			trail.Record(audit.ActionDiscountRequest, "Bill %s for %s submitted for discount approval: %s%% off, %s",
				bill.BillNumber, bill.Customer.Name, bill.MaxDiscountPercent().String(), formatAmount(bill.GrandTotal))
		} else {
			trail.Record(audit.ActionBillGenerated, "Bill %s generated for %s: %s (%s)",
				bill.BillNumber, bill.Customer.Name, formatAmount(bill.GrandTotal), bill.Status)
			if err := s.deductBillStock(ctx, tx, bill); err != nil {
				return err
			}
		}

		if err := tx.repos.Bills().Save(ctx, bill); err != nil {
			return err
		}
		tx.collect(bill)
		tx.bills = append(tx.bills, bill)
		resp = ToBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DecideBillApproval approves or rejects a bill waiting on a discount approval.
func (s *Service) DecideBillApproval(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd DecideBillApprovalCommand) (*BillResponse, error) {
	return s.updateBill(ctx, "DecideBillApproval", actor, billID, cmd, func(ctx context.Context, tx *ledgerTx, bill *billing.Bill) error {
		var err error
		if cmd.Decision == BillDecisionApprove {
			err = bill.Approve(tx.now)
		} else {
			err = bill.Reject(tx.now)
		}
		if err != nil {
			return err
		}
		tx.trail.Record(audit.ActionDiscountApproval, "Discount of %s%% on bill %s %s",
			bill.MaxDiscountPercent().String(), bill.BillNumber, bill.Status)
		return nil
	})
}

// FinalizeBill settles an approved bill and deducts every line from its
// batch. Any line short of stock fails the whole command.
func (s *Service) FinalizeBill(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd FinalizeBillCommand) (*BillResponse, error) {
	return s.updateBill(ctx, "FinalizeBill", actor, billID, cmd, func(ctx context.Context, tx *ledgerTx, bill *billing.Bill) error {
		if err := bill.Finalize(billing.PaymentMethod(cmd.PaymentMethod), tx.actor.ID, tx.actor.DisplayName(), tx.now); err != nil {
			return err
		}
		tx.trail.Record(audit.ActionBillFinalized, "Bill %s finalized: %s paid by %s",
			bill.BillNumber, formatAmount(bill.GrandTotal), bill.PaymentMethod)
		return s.deductBillStock(ctx, tx, bill)
	})
}

// CancelBill voids a bill. A finalized bill puts each line's outstanding
// quantity back into the batch it was sold from.
func (s *Service) CancelBill(ctx context.Context, actor audit.Actor, billID uuid.UUID) (*BillResponse, error) {
	return s.updateBill(ctx, "CancelBill", actor, billID, nil, func(ctx context.Context, tx *ledgerTx, bill *billing.Bill) error {
		reversals, err := bill.Cancel(tx.now)
		if err != nil {
			return err
		}
		tx.trail.Record(audit.ActionBillCancelled, "Bill %s cancelled: %s voided",
			bill.BillNumber, formatAmount(bill.GrandTotal))
		for _, r := range reversals {
			item, err := tx.item(ctx, r.ItemCode)
			if err != nil {
				return err
			}
			mv, err := inventory.RestoreExplicit(item, r.BatchNumber, r.Quantity, tx.now)
			if err != nil {
				return err
			}
			tx.markDirty(item)
			tx.trail.Record(audit.ActionInventoryUpdate, "[CANCEL] %s batch %s: +%d (%d -> %d) bill %s",
				mv.ItemName, mv.BatchNumber, mv.Quantity(), mv.Before, mv.After, bill.BillNumber)
		}
		return nil
	})
}

// updateBill loads a bill, applies fn and saves it in one command.
func (s *Service) updateBill(ctx context.Context, name string, actor audit.Actor, billID uuid.UUID, cmd any,
	fn func(ctx context.Context, tx *ledgerTx, bill *billing.Bill) error,
) (*BillResponse, error) {
	var resp BillResponse
	err := s.execute(ctx, name, actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		bill, err := tx.repos.Bills().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		tx.trail.About(entityBill, bill.ID.String())
		if err := fn(ctx, tx, bill); err != nil {
			return err
		}
		if err := tx.repos.Bills().Save(ctx, bill); err != nil {
			return err
		}
		tx.collect(bill)
		resp = ToBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// deductBillStock removes every line's quantity from exactly its batch.
func (s *Service) deductBillStock(ctx context.Context, tx *ledgerTx, bill *billing.Bill) error {
	for _, l := range bill.Items {
		item, err := tx.item(ctx, l.ItemCode)
		if err != nil {
			return err
		}
		mv, err := inventory.DeductExplicit(item, l.BatchNumber, l.Quantity, tx.now)
		if err != nil {
			return err
		}
		tx.markDirty(item)
		tx.recordDeduction(StockSourceSale, mv.Quantity())
		tx.trail.Record(audit.ActionInventoryUpdate, "[SALE] %s batch %s: -%d (%d -> %d) bill %s",
			mv.ItemName, mv.BatchNumber, mv.Quantity(), mv.Before, mv.After, bill.BillNumber)
	}
	return nil
}
