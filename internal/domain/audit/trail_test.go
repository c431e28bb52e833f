package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrail(t *testing.T) {
	now := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	actor := Actor{ID: "u-1", Name: "Asha"}

	t.Run("keeps recording order", func(t *testing.T) {
		trail := NewTrail(actor, now).About("Bill", "b-1")
		trail.Record(ActionBillFinalized, "Bill %s finalized", "BL-1")
		trail.Record(ActionInventoryUpdate, "line %d", 1)
		trail.Record(ActionInventoryUpdate, "line %d", 2)

		entries := trail.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, ActionBillFinalized, entries[0].Action)
		assert.Equal(t, "Bill BL-1 finalized", entries[0].Details)
		assert.Equal(t, "line 2", entries[2].Details)
		for _, e := range entries {
			assert.Equal(t, "u-1", e.ActorID)
			assert.Equal(t, "Asha", e.ActorName)
			assert.Equal(t, "b-1", e.EntityID)
			assert.Equal(t, now, e.Timestamp)
		}
	})

	t.Run("entries is a copy", func(t *testing.T) {
		trail := NewTrail(actor, now)
		trail.Record(ActionPOCreated, "x")
		entries := trail.Entries()
		entries[0].Details = "changed"
		assert.Equal(t, "x", trail.Entries()[0].Details)
	})
}

func TestActor(t *testing.T) {
	t.Run("display name falls back to id", func(t *testing.T) {
		assert.Equal(t, "u-9", Actor{ID: "u-9"}.DisplayName())
	})

	t.Run("missing actor panics", func(t *testing.T) {
		assert.Panics(t, func() { Actor{}.MustBePresent("FinalizeBill") })
		assert.NotPanics(t, func() { Actor{ID: "u-1"}.MustBePresent("FinalizeBill") })
	})
}
