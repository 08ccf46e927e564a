package messaging

import (
	"context"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// Envelope is the wire form of a published primary chain event
type Envelope struct {
	ID    string                   `json:"id"`
	Chain domain.Chain             `json:"chain"`
	Type  domain.EventType         `json:"type"`
	Event domain.PrimaryChainEvent `json:"event"`
}

// NewEnvelope wraps the event with its deterministic id
func NewEnvelope(chain domain.Chain, event domain.PrimaryChainEvent) Envelope {
	return Envelope{
		ID:    domain.EventID(event),
		Chain: chain,
		Type:  event.Type(),
		Event: event,
	}
}

// Publisher defines the interface for publishing events to message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a primary chain event to the message broker.
	// Publishing the same event twice is deduplicated by the broker.
	PublishEvent(ctx context.Context, chain domain.Chain, event domain.PrimaryChainEvent) error
	// Close closes the connection
	Close()
}
