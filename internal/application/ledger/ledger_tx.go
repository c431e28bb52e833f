package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
)

// ledgerTx is the working set of one command. Items are loaded once, mutated
// in memory and written back together when the command succeeds.
type ledgerTx struct {
	repos   TransactionalRepositories
	actor   audit.Actor
	trail   *audit.Trail
	now     time.Time
	items   map[string]*inventory.InventoryItem
	dirty   []string
	isDirty map[string]bool
	events  []shared.DomainEvent

	// measurements reported once the command commits
	deducted map[string]int64
	bills    []*billing.Bill
}

func newLedgerTx(repos TransactionalRepositories, actor audit.Actor, now time.Time) *ledgerTx {
	return &ledgerTx{
		repos:    repos,
		actor:    actor,
		trail:    audit.NewTrail(actor, now),
		now:      now,
		items:    make(map[string]*inventory.InventoryItem),
		isDirty:  make(map[string]bool),
		deducted: make(map[string]int64),
	}
}

// recordDeduction notes qty units removed from stock for source.
func (t *ledgerTx) recordDeduction(source string, qty int64) {
	t.deducted[source] += qty
}

// item loads an item by code, returning ErrItemNotFound if it does not exist.
func (t *ledgerTx) item(ctx context.Context, code string) (*inventory.InventoryItem, error) {
	if it, ok := t.items[code]; ok {
		return it, nil
	}
	it, err := t.repos.Items().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	t.items[code] = it
	return it, nil
}

// optionalItem is like item but returns nil when the item does not exist.
func (t *ledgerTx) optionalItem(ctx context.Context, code string) (*inventory.InventoryItem, error) {
	it, err := t.item(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrItemNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return it, nil
}

// markDirty schedules item to be saved at flush.
func (t *ledgerTx) markDirty(item *inventory.InventoryItem) {
	t.items[item.Code] = item
	if !t.isDirty[item.Code] {
		t.isDirty[item.Code] = true
		t.dirty = append(t.dirty, item.Code)
	}
}

// collect takes the pending events of an aggregate the command saved.
func (t *ledgerTx) collect(agg shared.AggregateRoot) {
	t.events = append(t.events, agg.GetDomainEvents()...)
	agg.ClearDomainEvents()
}

// flush writes dirty items and appends the trail as one ordered batch.
func (t *ledgerTx) flush(ctx context.Context) error {
	for _, code := range t.dirty {
		item := t.items[code]
		if err := t.repos.Items().Save(ctx, item); err != nil {
			return fmt.Errorf("save inventory item %s: %w", code, err)
		}
		t.collect(item)
	}
	if t.trail.Len() == 0 {
		return nil
	}
	if err := t.repos.AuditLog().Append(ctx, t.trail.Entries()); err != nil {
		return fmt.Errorf("append audit entries: %w", err)
	}
	return nil
}
