package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Trail collects the entries of a single command in the order they happened.
// The first entry recorded is the earliest; Entries hands the batch to the
// appender in exactly that order.
type Trail struct {
	actor      Actor
	now        time.Time
	entityType string
	entityID   string
	entries    []Entry
}

// NewTrail starts a trail for one command executed by actor at now.
func NewTrail(actor Actor, now time.Time) *Trail {
	return &Trail{actor: actor, now: now}
}

// About sets the entity that subsequent entries refer to.
func (t *Trail) About(entityType, entityID string) *Trail {
	t.entityType = entityType
	t.entityID = entityID
	return t
}

// Record appends an entry to the trail.
func (t *Trail) Record(action Action, format string, args ...any) {
	t.entries = append(t.entries, Entry{
		ID:         uuid.New(),
		Timestamp:  t.now,
		ActorID:    t.actor.ID,
		ActorName:  t.actor.DisplayName(),
		Action:     action,
		Details:    fmt.Sprintf(format, args...),
		EntityType: t.entityType,
		EntityID:   t.entityID,
	})
}

// Len returns the number of recorded entries
func (t *Trail) Len() int {
	return len(t.entries)
}

// Entries returns the recorded entries, oldest first.
func (t *Trail) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
