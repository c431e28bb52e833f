// Package ledger is the command surface of the inventory and billing ledger.
// Commands are serialised and each one runs in a single transaction that
// covers the state change and its audit entries.
package ledger

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/hms/backend/internal/application/ledger"

// Config holds ledger business settings
type Config struct {
	// DiscountApprovalThreshold is the highest line discount percentage a
	// bill may carry and still be finalized at creation.
	DiscountApprovalThreshold decimal.Decimal
	// DefaultReorderLevel is assigned to items registered by a goods receipt.
	DefaultReorderLevel int64
}

// DefaultConfig returns the default ledger configuration
func DefaultConfig() Config {
	return Config{
		DiscountApprovalThreshold: billing.DefaultDiscountApprovalThreshold,
		DefaultReorderLevel:       procurement.DefaultReorderLevel,
	}
}

// Service executes ledger commands and queries
type Service struct {
	scope     TransactionScope
	cfg       Config
	merger    procurement.ReceiptMerger
	publisher shared.EventPublisher
	metrics   Metrics
	logger    *zap.Logger
	tracer    trace.Tracer
	validate  *validator.Validate
	now       func() time.Time

	// mu serialises commands so that reads, checks and writes of one command
	// never interleave with another's.
	mu sync.Mutex
}

// Option configures a Service
type Option func(*Service)

// WithEventPublisher publishes domain events after each successful command
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics reports business measurements to m
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// NewService creates a new ledger Service
func NewService(scope TransactionScope, cfg Config, opts ...Option) *Service {
	if cfg.DiscountApprovalThreshold.IsNegative() {
		cfg.DiscountApprovalThreshold = billing.DefaultDiscountApprovalThreshold
	}
	s := &Service{
		scope:    scope,
		cfg:      cfg,
		merger:   procurement.NewReceiptMerger(cfg.DefaultReorderLevel),
		metrics:  nopMetrics{},
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		validate: newCommandValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newCommandValidator reads the same `binding` tags gin uses, so commands are
// checked identically whether they arrive over HTTP or from a direct caller.
func newCommandValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// execute runs one command: actor check, span, global lock, transaction,
// audit flush and, after commit, event publication.
func (s *Service) execute(ctx context.Context, name string, actor audit.Actor, cmd any, fn func(ctx context.Context, tx *ledgerTx) error) (err error) {
	actor.MustBePresent(name)

	ctx, span := s.tracer.Start(ctx, "ledger."+name, trace.WithAttributes(
		attribute.String("ledger.command", name),
		attribute.String("ledger.actor_id", actor.ID),
	))
	defer span.End()

	started := time.Now()
	defer func() {
		s.metrics.RecordCommand(ctx, name, outcomeOf(err), time.Since(started))
	}()

	if cmd != nil {
		if err := s.validate.Struct(cmd); err != nil {
			span.SetStatus(codes.Error, "validation failed")
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var committed *ledgerTx
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tx := newLedgerTx(repos, actor, now)
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if err := tx.flush(ctx); err != nil {
			return err
		}
		committed = tx
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Debug("ledger command rejected",
			zap.String("command", name),
			zap.String("actor_id", actor.ID),
			zap.Error(err),
		)
		return err
	}

	entries := committed.trail.Len()
	span.SetAttributes(attribute.Int("ledger.audit_entries", entries))
	s.logger.Info("ledger command applied",
		zap.String("command", name),
		zap.String("actor_id", actor.ID),
		zap.Int("audit_entries", entries),
	)
	s.report(ctx, committed)
	s.publish(ctx, committed.events)
	return nil
}

// report hands the committed command's measurements to the metrics sink.
func (s *Service) report(ctx context.Context, tx *ledgerTx) {
	for _, bill := range tx.bills {
		s.metrics.RecordBillCreated(ctx, string(bill.Status), bill.GrandTotal)
	}
	for source, qty := range tx.deducted {
		s.metrics.RecordStockDeducted(ctx, source, qty)
	}
}

// read runs a query in its own transaction without taking the command lock.
func (s *Service) read(ctx context.Context, name string, fn func(ctx context.Context, repos TransactionalRepositories) error) error {
	ctx, span := s.tracer.Start(ctx, "ledger."+name)
	defer span.End()

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return fn(ctx, repos)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		// State is already committed; a failed notification is not a ledger failure.
		s.logger.Warn("failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}
