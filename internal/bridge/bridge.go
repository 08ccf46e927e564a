package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/metrics"
	eventstream "github.com/feral-file/notary-bridge/internal/providers/jetstream"
	"github.com/feral-file/notary-bridge/internal/webhook"
)

const (
	DEFAULT_WORKERS    = 4
	DEFAULT_QUEUE_SIZE = 100
	DEFAULT_NAK_DELAY  = 5 * time.Second
)

// Config holds the configuration for the event bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	// NakDelay is how long a failed delivery waits before the stream redelivers it
	NakDelay time.Duration
	Workers  int
}

// Bridge relays primary chain events from the stream to the ledger side
type Bridge interface {
	// Run consumes the stream until ctx is cancelled
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

// envelope mirrors messaging.Envelope, keeping the event body undecoded
type envelope struct {
	ID    string           `json:"id"`
	Chain domain.Chain     `json:"chain"`
	Type  domain.EventType `json:"type"`
	Event json.RawMessage  `json:"event"`
}

type bridge struct {
	nc        adapter.NatsConn
	js        adapter.JetStream
	deliverer webhook.Deliverer
	json      adapter.JSON
	metrics   *metrics.Metrics
	logger    *zap.Logger
	config    Config
}

// NewBridge connects to NATS and creates a new event bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	deliverer webhook.Deliverer,
	jsonAdapter adapter.JSON,
	m *metrics.Metrics,
	logger *zap.Logger,
) (Bridge, error) {
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

	if cfg.Workers <= 0 {
		cfg.Workers = DEFAULT_WORKERS
	}
	if cfg.NakDelay <= 0 {
		cfg.NakDelay = DEFAULT_NAK_DELAY
	}

	return &bridge{
		nc:        nc,
		js:        js,
		deliverer: deliverer,
		json:      jsonAdapter,
		metrics:   m,
		logger:    logger,
		config:    cfg,
	}, nil
}

// Run starts the event bridge
func (b *bridge) Run(ctx context.Context) error {
	b.logger.Info("Starting event bridge", zap.String("stream", b.config.StreamName), zap.String("consumer", b.config.ConsumerName))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: eventstream.SUBJECT_PREFIX + ".>",
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	b.logger.Info("Consumer created/retrieved",
		zap.String("consumer", consumerInfo.Name),
		zap.Uint64("pending", consumerInfo.NumPending))

	pool := pond.NewPool(b.config.Workers, pond.WithQueueSize(DEFAULT_QUEUE_SIZE))
	defer func() {
		pool.StopAndWait()
		b.logger.Info("Event bridge worker pool stopped",
			zap.Uint64("completed", pool.CompletedTasks()),
			zap.Uint64("failed", pool.FailedTasks()))
	}()

	msgChan := make(chan adapter.Message, DEFAULT_QUEUE_SIZE)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		select {
		case msgChan <- msg:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	b.logger.Info("Started consuming messages", zap.Int("workers", b.config.Workers))

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down event bridge")
			return ctx.Err()
		case msg := <-msgChan:
			pool.Submit(func() {
				b.handleMessage(ctx, msg)
			})
		}
	}
}

// handleMessage delivers one stream message and settles it.
// Undecodable messages and events refused by the receiver are terminated, anything else is redelivered later.
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var deliveries uint64
	var published time.Time
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		deliveries = metadata.NumDelivered
		published = metadata.Timestamp
	}

	var env envelope
	if err := b.json.Unmarshal(msg.Data(), &env); err != nil || env.ID == "" {
		b.logger.Error("Failed to unmarshal event", zap.String("subject", msg.Subject()), zap.Error(err))
		b.settle(msg.Term, "term")
		b.record(env.Type, "malformed")
		return
	}

	logger := b.logger.With(
		zap.String("eventID", env.ID),
		zap.String("eventType", string(env.Type)),
		zap.Uint64("deliveryCount", deliveries),
	)
	logger.Info("Received event")

	event := webhook.Event{
		EventID:   env.ID,
		EventType: env.Type,
		Chain:     env.Chain,
		Timestamp: published.UTC(),
		Data:      env.Event,
	}

	if err := b.deliverer.Deliver(ctx, event); err != nil {
		if webhook.IsRejected(err) {
			logger.Error("Event rejected by receiver", zap.Error(err))
			b.settle(msg.Term, "term")
			b.record(env.Type, "rejected")
			return
		}

		logger.Warn("Failed to deliver event, will retry", zap.Error(err), zap.Duration("delay", b.config.NakDelay))
		b.settle(func() error { return msg.NakWithDelay(b.config.NakDelay) }, "nak")
		b.record(env.Type, "retried")
		return
	}

	b.settle(msg.Ack, "ack")
	b.record(env.Type, "delivered")
	logger.Info("Event delivered")
}

func (b *bridge) settle(fn func() error, action string) {
	if err := fn(); err != nil {
		b.logger.Error("Failed to settle message", zap.String("action", action), zap.Error(err))
	}
}

func (b *bridge) record(eventType domain.EventType, outcome string) {
	if b.metrics == nil {
		return
	}
	label := string(eventType)
	if label == "" {
		label = "unknown"
	}
	b.metrics.EventsDelivered.WithLabelValues(label, outcome).Inc()
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
