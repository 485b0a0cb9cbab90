package models

// DecideResponse is the issuance result. Field names and the "ok"/"decision"
// envelope match the legacy guard wire format.
type DecideResponse struct {
	OK        bool     `json:"ok"`
	Decision  Decision `json:"decision"`
	Ticket    string   `json:"ticket"`
	ExpMS     int64    `json:"exp_ms"`
	Risk      int      `json:"risk"`
	Preflight Verdict  `json:"preflight"`
	Reason    string   `json:"reason"`
}

// ConsumeResponse is the redemption result.
type ConsumeResponse struct {
	OK       bool     `json:"ok"`
	Decision Decision `json:"decision"`
	Reason   Reason   `json:"reason"`
}

// StatusResponse reports service identity and live counters.
type StatusResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Port    int    `json:"port"`
	TsMS    int64  `json:"ts_ms"`
	Stats   Stats  `json:"stats"`
}

// EventResponse is one audit log entry on the wire, newest first.
type EventResponse struct {
	TsMS int64     `json:"ts_ms"`
	Kind EventKind `json:"kind"`
	Data any       `json:"data"`
}
