// Package service orchestrates the ticket lifecycle: issue a single-use
// ticket with a server-side risk assessment, later redeem it exactly once,
// and keep the audit trail and counters in step.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kasbah/internal/guard/metrics"
	"kasbah/internal/guard/models"
	"kasbah/internal/guard/risk"
	"kasbah/internal/guard/stats"
)

// TicketStore is the authority's single-use ticket map.
type TicketStore interface {
	Issue(ctx context.Context, meta models.TicketMetadata, riskScore int, now time.Time) *models.Ticket
	Redeem(ctx context.Context, id, choice string, now time.Time) models.Outcome
}

// EventLog records guard activity, newest first.
type EventLog interface {
	Record(kind models.EventKind, data any)
	Snapshot() []models.Event
}

// Service composes the store, event log, and counters behind the guard's
// public operations. State is injected, never global, so the core stays
// independently testable.
type Service struct {
	store    TicketStore
	events   EventLog
	counters *stats.Counters

	serviceName string
	port        int

	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	clock   func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock overrides the time source for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithTracer injects a pre-configured tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New creates the decision authority service.
// Panics if required dependencies are nil - fail fast at startup.
func New(store TicketStore, events EventLog, counters *stats.Counters, serviceName string, port int, opts ...Option) *Service {
	if store == nil {
		panic("service.New: ticket store is required")
	}
	if events == nil {
		panic("service.New: event log is required")
	}
	if counters == nil {
		panic("service.New: counters are required")
	}

	s := &Service{
		store:       store,
		events:      events,
		counters:    counters,
		serviceName: serviceName,
		port:        port,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("kasbah/guard")
	}
	return s
}

type startupEvent struct {
	Message string `json:"message"`
	Port    int    `json:"port"`
}

type decideEvent struct {
	Ticket    string                `json:"ticket"`
	ExpMS     int64                 `json:"exp_ms"`
	Risk      int                   `json:"risk"`
	Preflight models.Verdict        `json:"preflight"`
	Reason    string                `json:"reason"`
	Secrets   int                   `json:"secrets"`
	Meta      models.TicketMetadata `json:"meta"`
}

type consumeEvent struct {
	Ticket   string          `json:"ticket"`
	Decision models.Decision `json:"decision"`
	Reason   models.Reason   `json:"reason"`
	Choice   string          `json:"choice"`
}

// Start seeds the audit log with the startup marker.
func (s *Service) Start() {
	s.events.Record(models.EventStartup, startupEvent{
		Message: "Kasbah Guard local authority started",
		Port:    s.port,
	})
	s.logger.Info("guard authority started", "service", s.serviceName, "port", s.port)
}

// Decide scores the caller's preview, mints a single-use ticket, and logs a
// DECIDE event. The caller's own scan results are recorded but never
// trusted: the returned risk comes from the server-side scorer.
func (s *Service) Decide(ctx context.Context, req models.DecideRequest) models.DecideResponse {
	now := s.clock()
	ctx, span := s.tracer.Start(ctx, "guard.Decide")
	defer span.End()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveDecideLatency(time.Since(now))
		}
	}()

	assessment := risk.Score(req.Meta.Preview)

	meta := models.TicketMetadata{
		Product:   req.Product,
		Host:      req.Host,
		Action:    req.Action,
		Meta:      &req.Meta,
		Preflight: assessment.Verdict,
		Reason:    assessment.Reason,
	}
	ticket := s.store.Issue(ctx, meta, assessment.Risk, now)

	secretCount := len(req.Meta.Secrets)
	if secretCount > 0 {
		s.counters.RecordSecretsCaught()
		if s.metrics != nil {
			s.metrics.IncrementSecretsCaught()
		}
	}

	s.events.Record(models.EventDecide, decideEvent{
		Ticket:    ticket.ID,
		ExpMS:     ticket.ExpiresAt.UnixMilli(),
		Risk:      assessment.Risk,
		Preflight: assessment.Verdict,
		Reason:    assessment.Reason,
		Secrets:   secretCount,
		Meta:      meta,
	})

	if s.metrics != nil {
		s.metrics.IncrementTicketsIssued()
		s.metrics.ObserveRiskScore(assessment.Risk)
	}
	span.SetAttributes(
		attribute.Int("guard.risk", assessment.Risk),
		attribute.String("guard.preflight", string(assessment.Verdict)),
	)
	s.logger.InfoContext(ctx, "ticket issued",
		"ticket", ticket.ID,
		"risk", assessment.Risk,
		"preflight", assessment.Verdict,
		"secrets", secretCount,
		"product", req.Product,
		"host", req.Host,
	)

	return models.DecideResponse{
		OK:        true,
		Decision:  models.DecisionPending,
		Ticket:    ticket.ID,
		ExpMS:     ticket.ExpiresAt.UnixMilli(),
		Risk:      assessment.Risk,
		Preflight: assessment.Verdict,
		Reason:    assessment.Reason,
	}
}

// Consume redeems a ticket with the caller's choice. Missing fields
// normalize to the default-deny posture before the store is consulted: an
// absent ticket id looks up as unknown and an absent choice reads as DENY.
func (s *Service) Consume(ctx context.Context, req models.ConsumeRequest) models.ConsumeResponse {
	now := s.clock()
	ctx, span := s.tracer.Start(ctx, "guard.Consume")
	defer span.End()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveConsumeLatency(time.Since(now))
		}
	}()

	choice := strings.ToUpper(strings.TrimSpace(req.Choice))
	if choice == "" {
		choice = string(models.DecisionDeny)
	}

	outcome := s.store.Redeem(ctx, req.Ticket, choice, now)
	s.counters.RecordRedemption(outcome)
	if s.metrics != nil {
		s.metrics.IncrementRedemptions(string(outcome.Decision()))
		if outcome.ReplayBlocked() {
			s.metrics.IncrementReplayBlocked()
		}
	}

	s.events.Record(models.EventConsume, consumeEvent{
		Ticket:   req.Ticket,
		Decision: outcome.Decision(),
		Reason:   outcome.Reason(),
		Choice:   choice,
	})

	span.SetAttributes(
		attribute.String("guard.decision", string(outcome.Decision())),
		attribute.String("guard.reason", string(outcome.Reason())),
	)
	s.logger.InfoContext(ctx, "ticket redeemed",
		"ticket", req.Ticket,
		"decision", outcome.Decision(),
		"reason", outcome.Reason(),
		"choice", choice,
	)

	return models.ConsumeResponse{
		OK:       true,
		Decision: outcome.Decision(),
		Reason:   outcome.Reason(),
	}
}

// Status reports service identity, current time, and counter snapshot.
func (s *Service) Status(_ context.Context) models.StatusResponse {
	return models.StatusResponse{
		OK:      true,
		Service: s.serviceName,
		Port:    s.port,
		TsMS:    s.clock().UnixMilli(),
		Stats:   s.counters.Snapshot(),
	}
}

// Events returns the audit log, newest first.
func (s *Service) Events(_ context.Context) []models.EventResponse {
	snapshot := s.events.Snapshot()
	out := make([]models.EventResponse, len(snapshot))
	for i, e := range snapshot {
		out[i] = models.EventResponse{
			TsMS: e.Timestamp.UnixMilli(),
			Kind: e.Kind,
			Data: e.Data,
		}
	}
	return out
}

// Stats returns the current counter snapshot.
func (s *Service) Stats(_ context.Context) models.Stats {
	return s.counters.Snapshot()
}
