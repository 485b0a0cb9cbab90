package models

// DecideRequest is the issuance payload. Every field is optional; an empty
// JSON object still mints a ticket with baseline risk.
type DecideRequest struct {
	Product string     `json:"product"`
	Host    string     `json:"host"`
	Action  string     `json:"action"`
	Meta    DecideMeta `json:"meta"`
}

// DecideMeta carries the caller's local scan results. The preview is the
// only field the authority re-scores; the rest is an untrusted hint kept
// for audit.
type DecideMeta struct {
	Length  int      `json:"length,omitempty"`
	Preview string   `json:"preview,omitempty"`
	Secrets []string `json:"secrets,omitempty"`
	Risk    int      `json:"risk,omitempty"`
}

// ConsumeRequest redeems a ticket with the user's choice. A missing or
// unrecognized choice resolves to DENY.
type ConsumeRequest struct {
	Ticket string `json:"ticket"`
	Choice string `json:"choice"`
}
