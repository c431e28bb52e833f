package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whole rupees", "560", "₹560.00"},
		{"rounds to paise", "25.005", "₹25.01"},
		{"zero", "0", "₹0.00"},
		{"sign before symbol", "-5", "-₹5.00"},
		{"negative fraction", "-0.5", "-₹0.50"},
		{"beyond int64 keeps plain digits", "123456789012345678901234.56", "₹123456789012345678901234.56"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAmount(decimal.RequireFromString(tt.in)))
		})
	}

	t.Run("groups thousands", func(t *testing.T) {
		assert.Contains(t, formatAmount(decimal.RequireFromString("1234.5")), "1,234.50")
	})

	t.Run("keeps paise beyond float precision", func(t *testing.T) {
		got := formatAmount(decimal.RequireFromString("12345678901234567.89"))
		assert.True(t, strings.HasPrefix(got, "₹1"), got)
		assert.True(t, strings.HasSuffix(got, "4,567.89"), got)
	})
}

func TestDocumentNumber(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	at := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "GRN-20250115-A1B2C3", documentNumber("GRN", id, at))
}
