// Package cleanup sweeps resolved and long-expired tickets out of the
// store so a guard left running for weeks does not grow without bound.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// retentionGrace is how long a ticket survives past its expiry before the
// sweeper may remove it. Recently expired tickets must stay resident so
// repeated redemption attempts keep reporting "expired ticket" (and
// consumed ones "replay blocked") instead of degrading to "unknown
// ticket". All three deny, but the reasons are part of the contract.
const retentionGrace = 10 * time.Minute

// TicketStore exposes cleanup for tickets whose expiry lies before a cutoff.
type TicketStore interface {
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Service periodically removes swept-eligible tickets.
type Service struct {
	store    TicketStore
	interval time.Duration
	logger   *slog.Logger
	clock    func() time.Time
}

// Option configures the cleanup Service.
type Option func(*Service)

// WithInterval overrides the sweep interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger overrides the logger used for sweep errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
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

// New constructs a cleanup Service for the given store.
func New(store TicketStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ticket store is required")
	}
	svc := &Service{
		store:    store,
		interval: 30 * time.Second,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs the sweep periodically until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "ticket cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep and returns the number of tickets removed.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	cutoff := s.clock().Add(-retentionGrace)
	deleted, err := s.store.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired tickets: %w", err)
	}
	if deleted > 0 {
		s.logger.DebugContext(ctx, "swept tickets", "deleted", deleted)
	}
	return deleted, nil
}
