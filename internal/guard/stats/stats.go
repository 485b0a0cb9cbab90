// Package stats tracks the guard's process-lifetime counters.
package stats

import (
	"sync"

	"kasbah/internal/guard/models"
)

// Counters aggregates redemption outcomes and issuance-time secret hits.
// All counters only ever go up; they reset only when the process restarts.
type Counters struct {
	mu sync.Mutex
	s  models.Stats
}

// New returns zeroed counters.
func New() *Counters {
	return &Counters{}
}

// RecordRedemption counts one redemption attempt. Exactly one of
// allowed/denied is bumped per attempt, and replay denials are counted
// within denied as well, keeping total == allowed + denied invariant.
func (c *Counters) RecordRedemption(outcome models.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Total++
	if outcome.Allowed() {
		c.s.Allowed++
		return
	}
	c.s.Denied++
	if outcome.ReplayBlocked() {
		c.s.ReplayBlocked++
	}
}

// RecordSecretsCaught counts an issuance whose caller-side scan already
// flagged candidate secrets.
func (c *Counters) RecordSecretsCaught() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.SecretsCaught++
}

// Snapshot returns a copy of the current counters.
func (c *Counters) Snapshot() models.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}
