package bridge_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/bridge"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/metrics"
	mockspkg "github.com/feral-file/notary-bridge/internal/mocks"
	"github.com/feral-file/notary-bridge/internal/webhook"
)

// testBridgeMocks contains all the mocks needed for testing the bridge
type testBridgeMocks struct {
	ctrl      *gomock.Controller
	natsJS    *mockspkg.MockNatsJetStream
	natsConn  *mockspkg.MockNatsConn
	jetStream *mockspkg.MockJetStream
	consumer  *mockspkg.MockNatsConsumer
	sub       *mockspkg.MockConsumeContext
	deliverer *mockspkg.MockWebhookDeliverer
	metrics   *metrics.Metrics
}

func setupTestBridge(t *testing.T) *testBridgeMocks {
	ctrl := gomock.NewController(t)

	return &testBridgeMocks{
		ctrl:      ctrl,
		natsJS:    mockspkg.NewMockNatsJetStream(ctrl),
		natsConn:  mockspkg.NewMockNatsConn(ctrl),
		jetStream: mockspkg.NewMockJetStream(ctrl),
		consumer:  mockspkg.NewMockNatsConsumer(ctrl),
		sub:       mockspkg.NewMockConsumeContext(ctrl),
		deliverer: mockspkg.NewMockWebhookDeliverer(ctrl),
		metrics:   metrics.NewNop(),
	}
}

func testConfig() bridge.Config {
	return bridge.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "BRIDGE_EVENTS",
		ConsumerName:   "ledger-relay",
		MaxReconnects:  10,
		ReconnectWait:  time.Second,
		ConnectionName: "test-bridge",
		AckWaitTimeout: 30 * time.Second,
		MaxDeliver:     5,
		NakDelay:       2 * time.Second,
		Workers:        2,
	}
}

func newTestBridge(t *testing.T, mocks *testBridgeMocks) bridge.Bridge {
	mocks.natsJS.
		EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(mocks.natsConn, mocks.jetStream, nil)

	b, err := bridge.NewBridge(testConfig(), mocks.natsJS, mocks.deliverer, adapter.NewJSON(), mocks.metrics, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}

func TestBridge_NewBridge_ConnectError(t *testing.T) {
	mocks := setupTestBridge(t)
	defer mocks.ctrl.Finish()

	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	b, err := bridge.NewBridge(testConfig(), mocks.natsJS, mocks.deliverer, adapter.NewJSON(), mocks.metrics, zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestBridge_Run_CreateConsumerError(t *testing.T) {
	mocks := setupTestBridge(t)
	defer mocks.ctrl.Finish()

	b := newTestBridge(t, mocks)

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(),
			"BRIDGE_EVENTS",
			jetstream.ConsumerConfig{
				Durable:       "ledger-relay",
				AckPolicy:     jetstream.AckExplicitPolicy,
				AckWait:       30 * time.Second,
				MaxDeliver:    5,
				FilterSubject: "bridge.events.>",
			}).
		Return(nil, assert.AnError)

	err := b.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

func TestBridge_Run_ConsumeError(t *testing.T) {
	mocks := setupTestBridge(t)
	defer mocks.ctrl.Finish()

	b := newTestBridge(t, mocks)

	mocks.jetStream.EXPECT().CreateOrUpdateConsumer(gomock.Any(), "BRIDGE_EVENTS", gomock.Any()).Return(mocks.consumer, nil)
	mocks.consumer.EXPECT().Info(gomock.Any()).Return(&jetstream.ConsumerInfo{Name: "ledger-relay"}, nil)
	mocks.consumer.EXPECT().Consume(gomock.Any()).Return(nil, assert.AnError)

	err := b.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create subscription")
}

// runWithMessage starts the bridge, feeds msg through the consumer handler and waits for done
func runWithMessage(t *testing.T, mocks *testBridgeMocks, b bridge.Bridge, msg adapter.Message, done <-chan struct{}) {
	t.Helper()

	handlers := make(chan adapter.MessageHandler, 1)
	mocks.jetStream.EXPECT().CreateOrUpdateConsumer(gomock.Any(), "BRIDGE_EVENTS", gomock.Any()).Return(mocks.consumer, nil)
	mocks.consumer.EXPECT().Info(gomock.Any()).Return(&jetstream.ConsumerInfo{Name: "ledger-relay"}, nil)
	mocks.consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			handlers <- handler
			return mocks.sub, nil
		})
	mocks.sub.EXPECT().Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(ctx)
	}()

	select {
	case handler := <-handlers:
		handler(msg)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer was not started")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("message was not settled")
	}

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not stop")
	}
}

func TestBridge_Run_HandleMessage(t *testing.T) {
	published := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	validData := []byte(`{"chain":"eip155:11155111","event":{"tx_hash":"0x1","amount":"1000"},"id":"native_deposit:0x1","type":"native_deposit"}`)

	tests := []struct {
		name       string
		data       []byte
		deliverErr error
		deliver    bool
		settle     func(msg *mockspkg.MockJetStreamMessage, done chan struct{})
		eventType  string
		outcome    string
	}{
		{
			name:    "delivered event is acked",
			data:    validData,
			deliver: true,
			settle: func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
				msg.EXPECT().Ack().DoAndReturn(func() error { close(done); return nil })
			},
			eventType: "native_deposit",
			outcome:   "delivered",
		},
		{
			name:       "rejected event is terminated",
			data:       validData,
			deliver:    true,
			deliverErr: fmt.Errorf("failed to deliver: %w", &adapter.StatusError{StatusCode: http.StatusConflict}),
			settle: func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
				msg.EXPECT().Term().DoAndReturn(func() error { close(done); return nil })
			},
			eventType: "native_deposit",
			outcome:   "rejected",
		},
		{
			name:       "transient failure is redelivered later",
			data:       validData,
			deliver:    true,
			deliverErr: errors.New("connection refused"),
			settle: func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
				msg.EXPECT().NakWithDelay(2 * time.Second).DoAndReturn(func(time.Duration) error { close(done); return nil })
			},
			eventType: "native_deposit",
			outcome:   "retried",
		},
		{
			name: "malformed message is terminated",
			data: []byte(`not json`),
			settle: func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
				msg.EXPECT().Term().DoAndReturn(func() error { close(done); return nil })
			},
			eventType: "unknown",
			outcome:   "malformed",
		},
		{
			name: "message without id is terminated",
			data: []byte(`{"type":"registration","event":{}}`),
			settle: func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
				msg.EXPECT().Term().DoAndReturn(func() error { close(done); return nil })
			},
			eventType: "registration",
			outcome:   "malformed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestBridge(t)
			defer mocks.ctrl.Finish()

			b := newTestBridge(t, mocks)

			msg := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
			msg.EXPECT().Data().Return(tt.data).AnyTimes()
			msg.EXPECT().Subject().Return("bridge.events.native_deposit").AnyTimes()
			msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: 1, Timestamp: published}, nil).AnyTimes()

			if tt.deliver {
				mocks.deliverer.EXPECT().
					Deliver(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event webhook.Event) error {
						assert.Equal(t, "native_deposit:0x1", event.EventID)
						assert.Equal(t, domain.EventTypeNativeDeposit, event.EventType)
						assert.Equal(t, domain.ChainEthereumSepolia, event.Chain)
						assert.True(t, published.Equal(event.Timestamp))
						assert.JSONEq(t, `{"tx_hash":"0x1","amount":"1000"}`, string(event.Data))
						return tt.deliverErr
					})
			}

			done := make(chan struct{})
			tt.settle(msg, done)

			runWithMessage(t, mocks, b, msg, done)

			assert.Eventually(t, func() bool {
				return testutil.ToFloat64(mocks.metrics.EventsDelivered.WithLabelValues(tt.eventType, tt.outcome)) == 1
			}, time.Second, 10*time.Millisecond)
		})
	}
}

func TestBridge_Close(t *testing.T) {
	mocks := setupTestBridge(t)
	defer mocks.ctrl.Finish()

	b := newTestBridge(t, mocks)
	mocks.natsConn.EXPECT().Close()

	b.Close()
}
