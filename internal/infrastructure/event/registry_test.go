package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	t.Run("specific handlers come before wildcards", func(t *testing.T) {
		r := NewHandlerRegistry()
		all := newTestHandler()
		specific := newTestHandler()
		r.Register(all)
		r.Register(specific, "A", "B")

		got := r.HandlersFor("A")
		assert.Len(t, got, 2)
		assert.Same(t, specific, got[0])
		assert.Same(t, all, got[1])
		assert.Len(t, r.HandlersFor("C"), 1)
	})

	t.Run("unregister removes from every type", func(t *testing.T) {
		r := NewHandlerRegistry()
		h := newTestHandler()
		other := newTestHandler()
		r.Register(h, "A", "B")
		r.Register(other, "A")
		r.Register(h)

		r.Unregister(h)
		assert.Len(t, r.HandlersFor("A"), 1)
		assert.Empty(t, r.HandlersFor("B"))
		assert.NotContains(t, r.handlers, "B")
	})
}
