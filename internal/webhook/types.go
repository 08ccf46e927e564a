package webhook

import (
	"encoding/json"
	"time"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// Headers set on every delivery
const (
	SIGNATURE_HEADER = "X-Bridge-Signature"
	TIMESTAMP_HEADER = "X-Bridge-Timestamp"
	EVENT_ID_HEADER  = "X-Bridge-Event-ID"
)

// Event is a primary chain event delivered to the ledger side
type Event struct {
	// EventID is the deterministic event id, identical across notaries, used by the receiver to deduplicate
	EventID string `json:"event_id"`
	// EventType is registration, native_deposit or token_deposit
	EventType domain.EventType `json:"event_type"`
	// Chain is the primary chain of the event (e.g., "eip155:1")
	Chain domain.Chain `json:"chain"`
	// Timestamp is when the event was published to the stream
	Timestamp time.Time `json:"timestamp"`
	// Data is the event body as published
	Data json.RawMessage `json:"data"`
}
