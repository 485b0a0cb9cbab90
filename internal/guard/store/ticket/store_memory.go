// Package ticket holds the authoritative map of outstanding and resolved
// decision tickets.
package ticket

import (
	"context"
	"strings"
	"sync"
	"time"

	"kasbah/internal/guard/models"
	"kasbah/internal/guard/ticketid"
	"kasbah/internal/sentinel"
)

// Error Contract:
// Lookup helpers (Get) return sentinel.ErrNotFound when the ticket does not
// exist. Redeem never returns an error: every redemption resolves to a
// definite models.Outcome, and anything ambiguous denies.
//
// The in-memory store is the only implementation; guard state lives for
// the process lifetime.

// InMemoryTicketStore keeps tickets in a mutex-guarded map keyed by id.
type InMemoryTicketStore struct {
	mu      sync.RWMutex
	tickets map[string]*models.Ticket
	ttl     time.Duration
}

// NewInMemoryTicketStore creates an empty store with the given ticket TTL.
func NewInMemoryTicketStore(ttl time.Duration) *InMemoryTicketStore {
	return &InMemoryTicketStore{
		tickets: make(map[string]*models.Ticket),
		ttl:     ttl,
	}
}

// Issue mints a fresh ticket with expiry now+TTL and stores it unconsumed.
// Id collisions are not defended against; the id space makes them a
// documented out-of-scope risk.
func (s *InMemoryTicketStore) Issue(_ context.Context, meta models.TicketMetadata, riskScore int, now time.Time) *models.Ticket {
	t := &models.Ticket{
		ID:        ticketid.New(),
		ExpiresAt: now.Add(s.ttl),
		Consumed:  false,
		RiskScore: riskScore,
		Metadata:  meta,
		CreatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[t.ID] = t
	return t
}

// Redeem resolves a ticket exactly once. The checks form a strict priority:
// unknown, then expiry, then replay, then the caller's choice. Expiry is
// derived from now rather than stored, so an expired ticket reports
// "expired ticket" on every attempt, even when it was already consumed.
// The consumed flag flips one way only; at most one Redeem of a given id
// can ever return OutcomeAllowed.
func (s *InMemoryTicketStore) Redeem(_ context.Context, id, choice string, now time.Time) models.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return models.OutcomeDeniedUnknown
	}
	if now.After(t.ExpiresAt) {
		return models.OutcomeDeniedExpired
	}
	if t.Consumed {
		return models.OutcomeDeniedReplay
	}

	t.Consumed = true
	if strings.EqualFold(choice, "ALLOW") {
		return models.OutcomeAllowed
	}
	return models.OutcomeDeniedUserChoice
}

// Get returns a copy of the stored ticket for inspection.
func (s *InMemoryTicketStore) Get(_ context.Context, id string) (models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tickets[id]; ok {
		return *t, nil
	}
	return models.Ticket{}, sentinel.ErrNotFound
}

// Len reports how many tickets are currently held.
func (s *InMemoryTicketStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}

// DeleteExpiredBefore removes tickets whose expiry lies before cutoff and
// returns the number removed. Callers pass a cutoff well in the past
// (now minus a retention grace) so that recently expired tickets keep
// reporting "expired ticket" and consumed ones "replay blocked"; once a
// ticket is old enough to sweep, any further attempt degrades to
// "unknown ticket", which still denies.
func (s *InMemoryTicketStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, t := range s.tickets {
		if t.ExpiresAt.Before(cutoff) {
			delete(s.tickets, id)
			deleted++
		}
	}
	return deleted, nil
}
