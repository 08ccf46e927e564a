package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/messaging"
)

// SUBJECT_PREFIX is the prefix of every event subject: bridge.events.<type>
const SUBJECT_PREFIX = "bridge.events"

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// DuplicateWindow is how long the stream remembers message ids
	DuplicateWindow time.Duration
}

type publisher struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	json   adapter.JSON
	logger *zap.Logger
}

// NewPublisher connects to NATS and makes sure the event stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON, logger *zap.Logger) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error("Disconnected from NATS", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{SUBJECT_PREFIX + ".>"},
		Storage:    jetstream.FileStorage,
		Duplicates: cfg.DuplicateWindow,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.StreamName, err)
	}

	logger.Info("Connected to NATS JetStream",
		zap.String("url", nc.ConnectedUrl()),
		zap.String("stream", cfg.StreamName),
	)

	return &publisher{
		nc:     nc,
		js:     js,
		json:   jsonAdapter,
		logger: logger,
	}, nil
}

// PublishEvent publishes the event as canonical JSON with its id as Nats-Msg-Id
func (p *publisher) PublishEvent(ctx context.Context, chain domain.Chain, event domain.PrimaryChainEvent) error {
	if event == nil {
		return errors.New("nil event")
	}

	envelope := messaging.NewEnvelope(chain, event)
	data, err := p.json.MarshalCanonical(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := buildSubject(event.Type())
	ack, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(envelope.ID))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Published event",
		zap.String("subject", subject),
		zap.String("id", envelope.ID),
		zap.Bool("duplicate", ack != nil && ack.Duplicate),
	)

	return nil
}

// buildSubject constructs the NATS subject of an event type, e.g. bridge.events.token_deposit
func buildSubject(eventType domain.EventType) string {
	return fmt.Sprintf("%s.%s", SUBJECT_PREFIX, eventType)
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
