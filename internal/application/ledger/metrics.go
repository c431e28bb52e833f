package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Stock deduction sources reported to Metrics.
const (
	StockSourceSale        = "sale"
	StockSourceRequisition = "requisition"
)

// OutcomeApplied is the outcome of a committed command. Rejected commands
// report their error code.
const OutcomeApplied = "applied"

// Metrics receives business measurements. Everything except RecordCommand
// is reported only after the command has committed.
type Metrics interface {
	RecordCommand(ctx context.Context, command, outcome string, elapsed time.Duration)
	RecordBillCreated(ctx context.Context, status string, amount decimal.Decimal)
	RecordStockDeducted(ctx context.Context, source string, quantity int64)
	RecordLowStock(ctx context.Context, itemCode, alertType string, totalStock int64)
}

type nopMetrics struct{}

func (nopMetrics) RecordCommand(context.Context, string, string, time.Duration) {}
func (nopMetrics) RecordBillCreated(context.Context, string, decimal.Decimal)   {}
func (nopMetrics) RecordStockDeducted(context.Context, string, int64)           {}
func (nopMetrics) RecordLowStock(context.Context, string, string, int64)        {}

// outcomeOf maps a command error to its metric label.
func outcomeOf(err error) string {
	if err == nil {
		return OutcomeApplied
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return "VALIDATION_ERROR"
	}
	return "error"
}
