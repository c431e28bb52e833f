package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/shared"
)

const (
	entityGoodsReceipt  = "GoodsReceipt"
	entityPurchaseOrder = "PurchaseOrder"
	expiryDateLayout    = "2006-01-02"
)

var mergeActions = map[procurement.MergeOutcome]audit.Action{
	procurement.MergeOutcomeRestock:  audit.ActionInventoryRestock,
	procurement.MergeOutcomeNewBatch: audit.ActionInventoryNewBatch,
	procurement.MergeOutcomeNewItem:  audit.ActionInventoryAdd,
}

// ProcessGoodsReceipt merges a vendor delivery into inventory. A receipt
// number is merged once; the linked purchase order, if any, is completed.
func (s *Service) ProcessGoodsReceipt(ctx context.Context, actor audit.Actor, cmd ProcessGoodsReceiptCommand) (*GoodsReceiptResponse, error) {
	var resp GoodsReceiptResponse
	err := s.execute(ctx, "ProcessGoodsReceipt", actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		exists, err := tx.repos.GoodsReceipts().ExistsByReceiptNumber(ctx, cmd.ReceiptNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.Errorf(shared.ErrDuplicateReceiptBatch,
				"Goods receipt %s has already been merged into stock", cmd.ReceiptNumber)
		}

		var po *procurement.PurchaseOrder
		if cmd.PurchaseOrderID != nil {
			if po, err = tx.repos.PurchaseOrders().FindByID(ctx, *cmd.PurchaseOrderID); err != nil {
				return err
			}
		}

		lines, err := receiptLines(cmd.Items, po)
		if err != nil {
			return err
		}
		receipt, err := procurement.NewGoodsReceipt(cmd.ReceiptNumber, cmd.PurchaseOrderID,
			procurement.Vendor{ID: cmd.VendorID, Name: cmd.VendorName}, cmd.InvoiceReference,
			lines, tx.actor.ID, tx.actor.DisplayName(), tx.now)
		if err != nil {
			return err
		}

		received := receipt.ReceivedLines()
		tx.trail.About(entityGoodsReceipt, receipt.ID.String()).
			Record(audit.ActionGRNCreated, "GRN %s from %s: %d lines, %d units",
				receipt.ReceiptNumber, receipt.Vendor.Name, len(received), receipt.TotalReceived())

		results := make([]GoodsReceiptLineResult, 0, len(received))
		for _, line := range received {
			existing, err := tx.optionalItem(ctx, line.ProductCode)
			if err != nil {
				return err
			}
			res, err := s.merger.Merge(existing, line, tx.now)
			if err != nil {
				return err
			}
			tx.markDirty(res.Item)
			tx.trail.Record(mergeActions[res.Outcome], "[GRN %s] %s batch %s: +%d (%d -> %d)",
				receipt.ReceiptNumber, res.Item.Name, res.Movement.BatchNumber,
				res.Movement.Quantity(), res.Movement.Before, res.Movement.After)
			results = append(results, GoodsReceiptLineResult{
				ProductCode: line.ProductCode,
				BatchNumber: line.BatchNumber,
				Quantity:    line.ReceivedQuantity,
				Outcome:     string(res.Outcome),
				PriceRaised: res.PriceRaised,
			})
		}

		if po != nil {
			if err := po.Complete(tx.now); err != nil {
				return err
			}
			if err := tx.repos.PurchaseOrders().Save(ctx, po); err != nil {
				return err
			}
			tx.collect(po)
		}
		if err := tx.repos.GoodsReceipts().Save(ctx, receipt); err != nil {
			return err
		}

		resp = GoodsReceiptResponse{
			ID:              receipt.ID,
			ReceiptNumber:   receipt.ReceiptNumber,
			PurchaseOrderID: receipt.PurchaseOrderID,
			VendorID:        receipt.Vendor.ID,
			VendorName:      receipt.Vendor.Name,
			ReceivedDate:    receipt.ReceivedDate,
			Lines:           results,
			TotalReceived:   receipt.TotalReceived(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// receiptLines converts command lines, filling names, categories and ordered
// quantities the delivery note left out from the purchase order.
func receiptLines(items []GoodsReceiptLineCommand, po *procurement.PurchaseOrder) ([]procurement.GoodsReceiptLine, error) {
	ordered := make(map[string]procurement.PurchaseOrderItem)
	if po != nil {
		for _, it := range po.Items {
			ordered[it.ProductCode] = it
		}
	}

	lines := make([]procurement.GoodsReceiptLine, 0, len(items))
	for _, it := range items {
		line := procurement.GoodsReceiptLine{
			ProductCode:      it.ProductCode,
			ItemName:         it.ItemName,
			Category:         inventory.Category(it.Category),
			TaxRate:          it.TaxRate,
			OrderedQuantity:  it.OrderedQuantity,
			ReceivedQuantity: it.ReceivedQuantity,
			BatchNumber:      it.BatchNumber,
			CostPrice:        it.CostPrice,
			MRP:              it.MRP,
		}
		if it.ExpiryDate != "" {
			expiry, err := time.Parse(expiryDateLayout, it.ExpiryDate)
			if err != nil {
				return nil, shared.Errorf(shared.ErrInvalidInput, "Invalid expiry date %q for %s", it.ExpiryDate, it.ProductCode)
			}
			line.ExpiryDate = expiry
		}
		if poItem, ok := ordered[it.ProductCode]; ok {
			if line.ItemName == "" {
				line.ItemName = poItem.ItemName
			}
			if line.Category == "" {
				line.Category = poItem.Category
			}
			if line.OrderedQuantity == 0 {
				line.OrderedQuantity = poItem.Quantity
			}
			if line.TaxRate.IsZero() {
				line.TaxRate = poItem.TaxRate
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CreatePurchaseOrder places an order with a vendor.
func (s *Service) CreatePurchaseOrder(ctx context.Context, actor audit.Actor, cmd CreatePurchaseOrderCommand) (*PurchaseOrderResponse, error) {
	var resp PurchaseOrderResponse
	err := s.execute(ctx, "CreatePurchaseOrder", actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		items := make([]procurement.PurchaseOrderItem, len(cmd.Items))
		for i, it := range cmd.Items {
			items[i] = procurement.PurchaseOrderItem{
				ProductCode:     it.ProductCode,
				ItemName:        it.ItemName,
				Category:        inventory.Category(it.Category),
				Quantity:        it.Quantity,
				CostPrice:       it.CostPrice,
				DiscountPercent: it.DiscountPercent,
				TaxRate:         it.TaxRate,
			}
		}
		po, err := procurement.NewPurchaseOrder(documentNumber("PO", uuid.New(), tx.now),
			procurement.Vendor{ID: cmd.VendorID, Name: cmd.VendorName}, items,
			tx.actor.ID, tx.actor.DisplayName(), tx.now)
		if err != nil {
			return err
		}
		tx.trail.About(entityPurchaseOrder, po.ID.String()).
			Record(audit.ActionPOCreated, "Purchase order %s placed with %s: %d items, %s",
				po.OrderNumber, po.Vendor.Name, len(po.Items), formatAmount(po.GrandTotal))
		if err := tx.repos.PurchaseOrders().Save(ctx, po); err != nil {
			return err
		}
		tx.collect(po)
		resp = ToPurchaseOrderResponse(po)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelPurchaseOrder withdraws a pending order.
func (s *Service) CancelPurchaseOrder(ctx context.Context, actor audit.Actor, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	var resp PurchaseOrderResponse
	err := s.execute(ctx, "CancelPurchaseOrder", actor, nil, func(ctx context.Context, tx *ledgerTx) error {
		po, err := tx.repos.PurchaseOrders().FindByID(ctx, poID)
		if err != nil {
			return err
		}
		if err := po.Cancel(tx.now); err != nil {
			return err
		}
		tx.trail.About(entityPurchaseOrder, po.ID.String()).
			Record(audit.ActionPOCancelled, "Purchase order %s with %s cancelled", po.OrderNumber, po.Vendor.Name)
		if err := tx.repos.PurchaseOrders().Save(ctx, po); err != nil {
			return err
		}
		tx.collect(po)
		resp = ToPurchaseOrderResponse(po)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPurchaseOrder returns a purchase order by id.
func (s *Service) GetPurchaseOrder(ctx context.Context, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	var resp PurchaseOrderResponse
	err := s.read(ctx, "GetPurchaseOrder", func(ctx context.Context, repos TransactionalRepositories) error {
		po, err := repos.PurchaseOrders().FindByID(ctx, poID)
		if err != nil {
			return err
		}
		resp = ToPurchaseOrderResponse(po)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
