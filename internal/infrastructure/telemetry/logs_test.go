package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memoryExporter keeps exported log bodies
type memoryExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))

	core := NewZapOTELCore("hms-ledger", lp, zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestBridge(t *testing.T) {
	exp := &memoryExporter{}
	lp, err := newLoggerProvider(LogsConfig{ServiceName: "hms-ledger"}, zap.NewNop(), sdklog.NewSimpleProcessor(exp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	require.True(t, lp.IsEnabled())

	base, observed := observer.New(zapcore.DebugLevel)
	log := Bridge(zap.New(base), NewZapOTELCore("hms-ledger", lp, zapcore.InfoLevel))

	log.Debug("sql statement")
	log.Info("ledger command applied", zap.String("command", "FinalizeBill"))
	log.Warn("stock at or below reorder level")
	require.NoError(t, lp.ForceFlush(context.Background()))

	assert.Equal(t, 3, observed.Len(), "the base core keeps every entry")
	exp.mu.Lock()
	defer exp.mu.Unlock()
	assert.Equal(t, []string{"ledger command applied", "stock at or below reorder level"}, exp.bodies)
}
