package models

import "time"

// Decision is the externally visible state of a gated action.
type Decision string

const (
	DecisionPending Decision = "PENDING"
	DecisionAllow   Decision = "ALLOW"
	DecisionDeny    Decision = "DENY"
)

// Verdict is the coarse preflight judgment derived from a risk score.
type Verdict string

const (
	VerdictAllow  Verdict = "ALLOW"
	VerdictReview Verdict = "REVIEW"
	VerdictWarn   Verdict = "WARN"
)

// Reason encodes the human-readable reason attached to a redemption result.
// The strings are part of the wire contract with the extension.
type Reason string

const (
	ReasonDefaultDeny   Reason = "default deny"
	ReasonUnknownTicket Reason = "unknown ticket"
	ReasonExpiredTicket Reason = "expired ticket"
	ReasonReplayBlocked Reason = "replay blocked"
	ReasonUserAllowed   Reason = "user allowed"
	ReasonUserBlocked   Reason = "user blocked"
)

// Outcome is the closed set of redemption results. The zero value is the
// default-deny posture: anything not explicitly resolved denies.
type Outcome int

const (
	OutcomeDefaultDeny Outcome = iota
	OutcomeAllowed
	OutcomeDeniedUnknown
	OutcomeDeniedExpired
	OutcomeDeniedReplay
	OutcomeDeniedUserChoice
)

// Decision maps the outcome to its wire decision. Only OutcomeAllowed ever
// maps to ALLOW.
func (o Outcome) Decision() Decision {
	if o == OutcomeAllowed {
		return DecisionAllow
	}
	return DecisionDeny
}

// Reason maps the outcome to its wire reason string.
func (o Outcome) Reason() Reason {
	switch o {
	case OutcomeAllowed:
		return ReasonUserAllowed
	case OutcomeDeniedUnknown:
		return ReasonUnknownTicket
	case OutcomeDeniedExpired:
		return ReasonExpiredTicket
	case OutcomeDeniedReplay:
		return ReasonReplayBlocked
	case OutcomeDeniedUserChoice:
		return ReasonUserBlocked
	default:
		return ReasonDefaultDeny
	}
}

// Allowed reports whether the outcome permits the gated action.
func (o Outcome) Allowed() bool { return o == OutcomeAllowed }

// ReplayBlocked reports whether the outcome was a replay denial.
func (o Outcome) ReplayBlocked() bool { return o == OutcomeDeniedReplay }

// TicketMetadata echoes the caller's request context for audit display.
// The authority stores it verbatim and never interprets it.
type TicketMetadata struct {
	Product   string     `json:"product,omitempty"`
	Host      string     `json:"host,omitempty"`
	Action    string     `json:"action,omitempty"`
	Meta      *DecideMeta `json:"meta,omitempty"`
	Preflight Verdict    `json:"preflight,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// Ticket identifies one pending or resolved decision. Owned exclusively by
// the ticket store; Consumed is one-way and ExpiresAt never changes after
// creation.
type Ticket struct {
	ID        string
	ExpiresAt time.Time
	Consumed  bool
	RiskScore int
	Metadata  TicketMetadata
	CreatedAt time.Time
}

// EventKind tags audit log entries.
type EventKind string

const (
	EventStartup EventKind = "STARTUP"
	EventDecide  EventKind = "DECIDE"
	EventConsume EventKind = "CONSUME"
)

// Event is an immutable audit record. Data is opaque to the log itself.
type Event struct {
	Timestamp time.Time `json:"-"`
	Kind      EventKind `json:"kind"`
	Data      any       `json:"data"`
}

// Stats are the process-lifetime redemption counters. All five are
// monotonically non-decreasing; Total == Allowed + Denied at all times.
type Stats struct {
	Total         uint64 `json:"total"`
	Allowed       uint64 `json:"allowed"`
	Denied        uint64 `json:"denied"`
	ReplayBlocked uint64 `json:"replay_blocked"`
	SecretsCaught uint64 `json:"secrets_caught"`
}
