package migration

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	_, err = src.Next(first)
	assert.ErrorIs(t, err, os.ErrNotExist)

	t.Run("up creates every ledger table", func(t *testing.T) {
		r, _, err := src.ReadUp(first)
		require.NoError(t, err)
		defer r.Close()
		body, err := io.ReadAll(r)
		require.NoError(t, err)

		for _, table := range []string{
			"inventory_items", "stock_batches", "bills", "bill_line_items",
			"sales_returns", "sales_return_items", "purchase_orders",
			"purchase_order_items", "goods_receipts", "goods_receipt_items",
			"requisitions", "requisition_items", "audit_log_entries",
		} {
			assert.Contains(t, string(body), "CREATE TABLE "+table+" (", table)
		}
	})

	t.Run("down drops them", func(t *testing.T) {
		r, _, err := src.ReadDown(first)
		require.NoError(t, err)
		defer r.Close()
		body, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, 13, strings.Count(string(body), "DROP TABLE IF EXISTS"))
	})
}
