package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/hms/backend/internal/application/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

var _ ledger.Metrics = (*LedgerMetrics)(nil)

func newTestLedgerMetrics(t *testing.T) (*LedgerMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.AsString()] += dp.Value
	}
	return out
}

func TestNewLedgerMetrics_NilMeter(t *testing.T) {
	m, err := NewLedgerMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.Nil(t, m)
}

func TestLedgerMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("bills are counted with totals in paise", func(t *testing.T) {
		m, reader := newTestLedgerMetrics(t)
		m.RecordBillCreated(ctx, "FINALIZED", decimal.RequireFromString("560.00"))
		m.RecordBillCreated(ctx, "FINALIZED", decimal.RequireFromString("12.345"))
		m.RecordBillCreated(ctx, "PENDING_APPROVAL", decimal.NewFromInt(504))

		got := collect(t, reader)
		assert.Equal(t, map[string]int64{"FINALIZED": 2, "PENDING_APPROVAL": 1},
			sumByAttr(t, got["hms_bill_created_total"], AttrBillStatus))
		assert.Equal(t, map[string]int64{"FINALIZED": 57235, "PENDING_APPROVAL": 50400},
			sumByAttr(t, got["hms_bill_amount_total"], AttrBillStatus))
	})

	t.Run("stock deductions are summed per source", func(t *testing.T) {
		m, reader := newTestLedgerMetrics(t)
		m.RecordStockDeducted(ctx, ledger.StockSourceSale, 20)
		m.RecordStockDeducted(ctx, ledger.StockSourceSale, 5)
		m.RecordStockDeducted(ctx, ledger.StockSourceRequisition, 120)
		m.RecordStockDeducted(ctx, ledger.StockSourceRequisition, 0)

		got := collect(t, reader)
		assert.Equal(t, map[string]int64{"sale": 25, "requisition": 120},
			sumByAttr(t, got["hms_stock_deducted_total"], AttrStockSource))
	})

	t.Run("low stock sets the gauge and counts the alert", func(t *testing.T) {
		m, reader := newTestLedgerMetrics(t)
		m.RecordLowStock(ctx, "MED001", "low_stock", 7)
		m.RecordLowStock(ctx, "MED001", "out_of_stock", 0)
		m.RecordLowStock(ctx, "MED002", "low_stock", 3)

		got := collect(t, reader)
		assert.Equal(t, map[string]int64{"low_stock": 2, "out_of_stock": 1},
			sumByAttr(t, got["hms_inventory_low_stock_alerts_total"], AttrAlertType))

		gauge, ok := got["hms_inventory_low_stock_level"].Data.(metricdata.Gauge[int64])
		require.True(t, ok)
		levels := make(map[string]int64)
		for _, dp := range gauge.DataPoints {
			v, _ := dp.Attributes.Value(AttrItemCode)
			levels[v.AsString()] = dp.Value
		}
		assert.Equal(t, map[string]int64{"MED001": 0, "MED002": 3}, levels)
	})

	t.Run("command latency is recorded per outcome", func(t *testing.T) {
		m, reader := newTestLedgerMetrics(t)
		m.RecordCommand(ctx, "FinalizeBill", ledger.OutcomeApplied, 20*time.Millisecond)
		m.RecordCommand(ctx, "FinalizeBill", "INSUFFICIENT_STOCK", 5*time.Millisecond)

		got := collect(t, reader)
		hist, ok := got["hms_ledger_command_duration_seconds"].Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		assert.Len(t, hist.DataPoints, 2)
		var total uint64
		for _, dp := range hist.DataPoints {
			total += dp.Count
			assert.Equal(t, CommandDurationBuckets, dp.Bounds)
		}
		assert.Equal(t, uint64(2), total)
	})
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(context.Background()))
	assert.NoError(t, mp.Shutdown(context.Background()))

	m, err := NewLedgerMetrics(mp.Meter("test"))
	require.NoError(t, err)
	m.RecordBillCreated(context.Background(), "FINALIZED", decimal.NewFromInt(1))
}
