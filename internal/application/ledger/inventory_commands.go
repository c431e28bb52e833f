package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
)

const entityInventoryItem = "InventoryItem"

// RegisterInventoryItem adds an item or diagnostic service to the master
// list with no stock.
func (s *Service) RegisterInventoryItem(ctx context.Context, actor audit.Actor, cmd RegisterInventoryItemCommand) (*InventoryItemResponse, error) {
	var resp InventoryItemResponse
	err := s.execute(ctx, "RegisterInventoryItem", actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		code := strings.TrimSpace(cmd.Code)
		exists, err := tx.repos.Items().ExistsByCode(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			return shared.Errorf(shared.ErrAlreadyExists, "Item %s already exists", code)
		}
		item, err := inventory.NewInventoryItem(code, cmd.master(), tx.now)
		if err != nil {
			return err
		}
		tx.markDirty(item)
		tx.trail.About(entityInventoryItem, item.Code).
			Record(audit.ActionInventoryMasterCreate, "Item %s (%s) registered in %s at %s",
				item.Code, item.Name, item.Category, formatAmount(item.SellingPrice))
		resp = ToInventoryItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// EditInventoryMaster replaces an item's name, category, reorder level,
// selling price and tax rate. Stock batches are left as they are.
func (s *Service) EditInventoryMaster(ctx context.Context, actor audit.Actor, code string, cmd InventoryMasterCommand) (*InventoryItemResponse, error) {
	var resp InventoryItemResponse
	err := s.execute(ctx, "EditInventoryMaster", actor, cmd, func(ctx context.Context, tx *ledgerTx) error {
		item, err := tx.item(ctx, code)
		if err != nil {
			return err
		}
		before := item.Master()
		if err := item.UpdateMaster(cmd.master(), tx.now); err != nil {
			return err
		}
		tx.markDirty(item)
		tx.trail.About(entityInventoryItem, item.Code).
			Record(audit.ActionInventoryMasterUpdate, "Item %s updated: %s", item.Code, describeMasterChange(before, item.Master()))
		resp = ToInventoryItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteInventoryItem removes an item and its batches from the master list.
// Bills already issued keep their copy of the item name and batch.
func (s *Service) DeleteInventoryItem(ctx context.Context, actor audit.Actor, code string) error {
	return s.execute(ctx, "DeleteInventoryItem", actor, nil, func(ctx context.Context, tx *ledgerTx) error {
		item, err := tx.item(ctx, code)
		if err != nil {
			return err
		}
		if err := tx.repos.Items().Delete(ctx, item.Code); err != nil {
			return err
		}
		delete(tx.items, item.Code)
		tx.trail.About(entityInventoryItem, item.Code).
			Record(audit.ActionInventoryMasterDelete, "Item %s (%s) deleted with %d units in %d batches",
				item.Code, item.Name, item.TotalStock(), len(item.Batches))
		return nil
	})
}

// GetInventoryItem returns an item with its batches.
func (s *Service) GetInventoryItem(ctx context.Context, code string) (*InventoryItemResponse, error) {
	var resp InventoryItemResponse
	err := s.read(ctx, "GetInventoryItem", func(ctx context.Context, repos TransactionalRepositories) error {
		item, err := repos.Items().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		resp = ToInventoryItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListInventory returns a page of items ordered by code.
func (s *Service) ListInventory(ctx context.Context, f InventoryListFilter) (shared.Paginated[InventoryItemResponse], error) {
	filter := inventory.ItemFilter{
		Filter:       shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search},
		Category:     inventory.Category(f.Category),
		LowStockOnly: f.LowStock,
	}
	var out shared.Paginated[InventoryItemResponse]
	err := s.read(ctx, "ListInventory", func(ctx context.Context, repos TransactionalRepositories) error {
		items, total, err := repos.Items().List(ctx, filter)
		if err != nil {
			return err
		}
		resp := make([]InventoryItemResponse, len(items))
		for i := range items {
			resp[i] = ToInventoryItemResponse(&items[i])
		}
		out = shared.NewPaginated(resp, total, filter.Page, filter.Limit())
		return nil
	})
	return out, err
}

func describeMasterChange(before, after inventory.MasterData) string {
	var changes []string
	if before.Name != after.Name {
		changes = append(changes, fmt.Sprintf("name %q -> %q", before.Name, after.Name))
	}
	if before.Category != after.Category {
		changes = append(changes, fmt.Sprintf("category %s -> %s", before.Category, after.Category))
	}
	if before.ReorderLevel != after.ReorderLevel {
		changes = append(changes, fmt.Sprintf("reorder level %d -> %d", before.ReorderLevel, after.ReorderLevel))
	}
	if !before.SellingPrice.Equal(after.SellingPrice) {
		changes = append(changes, fmt.Sprintf("price %s -> %s", formatAmount(before.SellingPrice), formatAmount(after.SellingPrice)))
	}
	if !before.TaxRate.Equal(after.TaxRate) {
		changes = append(changes, fmt.Sprintf("tax %s%% -> %s%%", before.TaxRate, after.TaxRate))
	}
	if len(changes) == 0 {
		return "no changes"
	}
	return strings.Join(changes, ", ")
}
