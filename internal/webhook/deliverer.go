package webhook

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/feral-file/notary-bridge/internal/adapter"
)

// Deliverer posts events to the ledger side receiver
//
//go:generate mockgen -source=deliverer.go -destination=../mocks/webhook_deliverer.go -package=mocks -mock_names=Deliverer=MockWebhookDeliverer
type Deliverer interface {
	// Deliver posts the signed event. Transient failures are retried by the HTTP client.
	Deliver(ctx context.Context, event Event) error
}

// Config holds the receiver endpoint and the shared secret
type Config struct {
	URL string
	// Secret is the hex encoded HMAC key shared with the receiver
	Secret string
}

type deliverer struct {
	url    string
	secret []byte
	client adapter.HTTPClient
	json   adapter.JSON
	clock  adapter.Clock
}

// NewDeliverer creates a deliverer signing every request with the shared secret
func NewDeliverer(cfg Config, client adapter.HTTPClient, jsonAdapter adapter.JSON, clock adapter.Clock) (Deliverer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	secret, err := hex.DecodeString(cfg.Secret)
	if err != nil || len(secret) == 0 {
		return nil, fmt.Errorf("webhook secret must be non-empty hex")
	}

	return &deliverer{
		url:    cfg.URL,
		secret: secret,
		client: client,
		json:   jsonAdapter,
		clock:  clock,
	}, nil
}

func (d *deliverer) Deliver(ctx context.Context, event Event) error {
	timestamp := d.clock.Now().Unix()
	payload, signature, err := GenerateSignedPayload(d.json, d.secret, event, timestamp)
	if err != nil {
		return err
	}

	headers := map[string]string{
		SIGNATURE_HEADER: signature,
		TIMESTAMP_HEADER: strconv.FormatInt(timestamp, 10),
		EVENT_ID_HEADER:  event.EventID,
	}
	if _, err := d.client.Post(ctx, d.url, headers, payload); err != nil {
		return fmt.Errorf("failed to deliver event %s: %w", event.EventID, err)
	}
	return nil
}

// IsRejected reports whether the receiver refused the event, in which case redelivery cannot succeed
func IsRejected(err error) bool {
	var statusErr *adapter.StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode >= http.StatusBadRequest &&
		statusErr.StatusCode < http.StatusInternalServerError &&
		statusErr.StatusCode != http.StatusTooManyRequests
}
