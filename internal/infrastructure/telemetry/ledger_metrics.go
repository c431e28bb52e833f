package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("ledger metrics: meter cannot be nil")

// Attribute keys shared by the ledger instruments.
var (
	AttrCommand     = attribute.Key("ledger.command")
	AttrOutcome     = attribute.Key("ledger.outcome")
	AttrBillStatus  = attribute.Key("bill.status")
	AttrStockSource = attribute.Key("stock.source")
	AttrItemCode    = attribute.Key("item.code")
	AttrAlertType   = attribute.Key("alert.type")
)

var paisePerRupee = decimal.NewFromInt(100)

// LedgerMetrics records the ledger's business activity.
type LedgerMetrics struct {
	commandDuration *Histogram
	billsCreated    *Counter
	billAmount      *Counter
	stockDeducted   *Counter
	lowStockAlerts  *Counter
	lowStockLevel   *Gauge
}

// NewLedgerMetrics creates the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &LedgerMetrics{}
	var err error

	if m.commandDuration, err = NewHistogram(meter, "hms_ledger_command_duration_seconds",
		"Duration of ledger commands", "s", CommandDurationBuckets...); err != nil {
		return nil, err
	}
	if m.billsCreated, err = NewCounter(meter, "hms_bill_created_total",
		"Bills created", "{bills}"); err != nil {
		return nil, err
	}
	if m.billAmount, err = NewCounter(meter, "hms_bill_amount_total",
		"Grand total of created bills in paise", "{paise}"); err != nil {
		return nil, err
	}
	if m.stockDeducted, err = NewCounter(meter, "hms_stock_deducted_total",
		"Units removed from stock", "{units}"); err != nil {
		return nil, err
	}
	if m.lowStockAlerts, err = NewCounter(meter, "hms_inventory_low_stock_alerts_total",
		"Items that crossed their reorder level", "{alerts}"); err != nil {
		return nil, err
	}
	if m.lowStockLevel, err = NewGauge(meter, "hms_inventory_low_stock_level",
		"Total stock of an item when it crossed its reorder level", "{units}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordCommand records one command's latency and outcome.
func (m *LedgerMetrics) RecordCommand(ctx context.Context, command, outcome string, elapsed time.Duration) {
	m.commandDuration.RecordDuration(ctx, elapsed, AttrCommand.String(command), AttrOutcome.String(outcome))
}

// RecordBillCreated counts a bill and adds its grand total in paise.
func (m *LedgerMetrics) RecordBillCreated(ctx context.Context, status string, amount decimal.Decimal) {
	attr := AttrBillStatus.String(status)
	m.billsCreated.Inc(ctx, attr)
	m.billAmount.Add(ctx, amount.Mul(paisePerRupee).Round(0).IntPart(), attr)
}

// RecordStockDeducted adds quantity units removed for source (sale, requisition).
func (m *LedgerMetrics) RecordStockDeducted(ctx context.Context, source string, quantity int64) {
	if quantity <= 0 {
		return
	}
	m.stockDeducted.Add(ctx, quantity, AttrStockSource.String(source))
}

// RecordLowStock counts a reorder alert and sets the item's stock gauge.
func (m *LedgerMetrics) RecordLowStock(ctx context.Context, itemCode, alertType string, totalStock int64) {
	m.lowStockAlerts.Inc(ctx, AttrAlertType.String(alertType))
	m.lowStockLevel.Record(ctx, totalStock, AttrItemCode.String(itemCode))
}
