package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/requisition"
)

const entityRequisition = "Requisition"

// RaiseRequisition records a department's request for stock. Nothing is
// withdrawn until the requisition is fulfilled.
func (s *Service) RaiseRequisition(ctx context.Context, actor audit.Actor, cmd RaiseRequisitionCommand) (*RequisitionResponse, error) {
	var resp RequisitionResponse
	err := s.execute(ctx, "RaiseRequisition", actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		items := make([]requisition.Item, len(cmd.Items))
		for i, l := range cmd.Items {
			item, err := tx.item(ctx, l.ItemCode)
			if err != nil {
				return err
			}
			items[i] = requisition.Item{ItemCode: item.Code, ItemName: item.Name, Quantity: l.Quantity}
		}
		req, err := requisition.NewRequisition(cmd.Department, items, tx.actor.ID, tx.actor.DisplayName(), tx.now)
		if err != nil {
			return err
		}
		tx.trail.About(entityRequisition, req.ID.String()).
			Record(audit.ActionRequisitionRaised, "Requisition from %s: %d items", req.Department, len(req.Items))
		if err := tx.repos.Requisitions().Save(ctx, req); err != nil {
			return err
		}
		resp = ToRequisitionResponse(req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// issue is the stock withdrawn for one requisition line
type issue struct {
	plan      inventory.FEFOPlan
	movements []inventory.StockMovement
	missing   bool
}

// DecideRequisition moves a requisition to a new status. Fulfilling it
// withdraws each line earliest-expiry-first; what the store cannot cover is
// recorded as a shortfall rather than failing the command.
func (s *Service) DecideRequisition(ctx context.Context, actor audit.Actor, reqID uuid.UUID, cmd DecideRequisitionCommand) (*RequisitionResponse, error) {
	var resp RequisitionResponse
	err := s.execute(ctx, "DecideRequisition", actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		req, err := tx.repos.Requisitions().FindByID(ctx, reqID)
		if err != nil {
			return err
		}
		target := requisition.Status(cmd.Status)
		if err := req.Decide(target, tx.actor.ID, tx.actor.DisplayName(), tx.now); err != nil {
			return err
		}

		trail := tx.trail.About(entityRequisition, req.ID.String())
		if target != requisition.StatusFulfilled {
			trail.Record(audit.ActionRequisitionUpdate, "Requisition from %s %s", req.Department, req.Status)
			return s.saveRequisition(ctx, tx, req, &resp)
		}

		issues := make([]issue, len(req.Items))
		for i, line := range req.Items {
			item, err := tx.optionalItem(ctx, line.ItemCode)
			if err != nil {
				return err
			}
			if item == nil {
				issues[i] = issue{missing: true}
				req.RecordIssue(i, 0)
				continue
			}
			plan, movements, err := inventory.DeductFEFO(item, line.Quantity, tx.now)
			if err != nil {
				return err
			}
			if len(movements) > 0 {
				tx.markDirty(item)
			}
			tx.recordDeduction(StockSourceRequisition, plan.Allocated)
			issues[i] = issue{plan: plan, movements: movements}
			req.RecordIssue(i, plan.Allocated)
		}

		if short := req.TotalShortfall(); short > 0 {
			trail.Record(audit.ActionRequisitionUpdate, "Requisition from %s fulfilled with shortfall of %d units",
				req.Department, short)
		} else {
			trail.Record(audit.ActionRequisitionUpdate, "Requisition from %s fulfilled", req.Department)
		}
		for i, line := range req.Items {
			if issues[i].missing {
				trail.Record(audit.ActionInventoryUpdate, "[REQUISITION] %s no longer in inventory: 0 of %d issued",
					line.ItemCode, line.Quantity)
				continue
			}
			for _, mv := range issues[i].movements {
				trail.Record(audit.ActionInventoryUpdate, "[REQUISITION] %s batch %s: -%d (%d -> %d) for %s",
					mv.ItemName, mv.BatchNumber, mv.Quantity(), mv.Before, mv.After, req.Department)
			}
		}
		return s.saveRequisition(ctx, tx, req, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) saveRequisition(ctx context.Context, tx *ledgerTx, req *requisition.Requisition, resp *RequisitionResponse) error {
	if err := tx.repos.Requisitions().Save(ctx, req); err != nil {
		return err
	}
	tx.collect(req)
	*resp = ToRequisitionResponse(req)
	return nil
}

// GetRequisition returns a requisition by id.
func (s *Service) GetRequisition(ctx context.Context, reqID uuid.UUID) (*RequisitionResponse, error) {
	var resp RequisitionResponse
	err := s.read(ctx, "GetRequisition", func(ctx context.Context, repos TransactionalRepositories) error {
		req, err := repos.Requisitions().FindByID(ctx, reqID)
		if err != nil {
			return err
		}
		resp = ToRequisitionResponse(req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
