package model

import "time"

// Outcome is how a lookup ended.
type Outcome string

const (
	// OutcomeRejected means the identifier was empty and no request was sent.
	OutcomeRejected Outcome = "rejected"
	// OutcomeRendered means a 2xx reply was written to the output.
	OutcomeRendered Outcome = "rendered"
	// OutcomeServerError means a non-2xx reply's message was written to the output.
	OutcomeServerError Outcome = "server_error"
	// OutcomeTransportError means no response was received.
	OutcomeTransportError Outcome = "transport_error"
	// OutcomeDecodeError means the reply body was not JSON.
	OutcomeDecodeError Outcome = "decode_error"
	// OutcomeStale means a newer lookup on the same form superseded this one.
	OutcomeStale Outcome = "stale"
)

// Lookup records one form submission. It carries metadata only; response
// bodies are never kept.
type Lookup struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Outcome    Outcome   `json:"outcome"`
	Status     int       `json:"status"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
