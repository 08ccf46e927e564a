package jetstream_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/messaging"
	"github.com/feral-file/notary-bridge/internal/mocks"
	jspublisher "github.com/feral-file/notary-bridge/internal/providers/jetstream"
)

type testPublisherMocks struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	nc     *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func testConfig() jspublisher.Config {
	return jspublisher.Config{
		URL:             "nats://localhost:4222",
		StreamName:      "BRIDGE_EVENTS",
		MaxReconnects:   5,
		ReconnectWait:   time.Second,
		ConnectionName:  "notary-test",
		DuplicateWindow: 10 * time.Minute,
	}
}

func setupTestPublisher(t *testing.T) (messaging.Publisher, *testPublisherMocks) {
	ctrl := gomock.NewController(t)
	m := &testPublisherMocks{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		nc:     mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}

	m.natsJS.EXPECT().Connect("nats://localhost:4222", gomock.Any()).Return(m.nc, m.js, nil)
	m.js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
			assert.Equal(t, "BRIDGE_EVENTS", cfg.Name)
			assert.Equal(t, []string{"bridge.events.>"}, cfg.Subjects)
			assert.Equal(t, 10*time.Minute, cfg.Duplicates)
			return nil, nil
		})
	m.nc.EXPECT().ConnectedUrl().Return("nats://localhost:4222").AnyTimes()

	p, err := jspublisher.NewPublisher(context.Background(), testConfig(), m.natsJS, adapter.NewJSON(), zap.NewNop())
	require.NoError(t, err)
	return p, m
}

func TestNewPublisher_ConnectError(t *testing.T) {
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("no servers available"))

	_, err := jspublisher.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON(), zap.NewNop())
	assert.ErrorContains(t, err, "no servers available")
}

func TestNewPublisher_StreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nc, js, nil)
	js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(nil, errors.New("insufficient resources"))
	nc.EXPECT().Close()

	_, err := jspublisher.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON(), zap.NewNop())
	assert.ErrorContains(t, err, "insufficient resources")
}

func TestPublishEvent(t *testing.T) {
	p, m := setupTestPublisher(t)
	ctx := context.Background()

	event := domain.TokenDeposit{
		TxHash:      "0xabc",
		LogIndex:    3,
		Time:        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		AccountID:   "alice@d3",
		Asset:       "dai#ethereum",
		Amount:      "12.5",
		FromAddress: "0x82a978b3f5962a5b0957d9ee9eef472ee55b42f1",
		Anchor:      domain.AnchorPrimary,
	}

	m.js.EXPECT().Publish(ctx, "bridge.events.token_deposit", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			assert.Len(t, opts, 1)
			assert.Equal(t,
				`{"chain":"eip155:1","event":{"account_id":"alice@d3","amount":"12.5","anchor":"primary","asset":"dai#ethereum","from_address":"0x82a978b3f5962a5b0957d9ee9eef472ee55b42f1","log_index":3,"time":"2024-01-02T03:04:05Z","tx_hash":"0xabc"},"id":"token_deposit:0xabc:3","type":"token_deposit"}`,
				string(data))
			return &jetstream.PubAck{Stream: "BRIDGE_EVENTS", Sequence: 1}, nil
		})

	require.NoError(t, p.PublishEvent(ctx, domain.ChainEthereumMainnet, event))
}

func TestPublishEvent_Errors(t *testing.T) {
	p, m := setupTestPublisher(t)
	ctx := context.Background()

	assert.Error(t, p.PublishEvent(ctx, domain.ChainEthereumMainnet, nil))

	m.js.EXPECT().Publish(ctx, "bridge.events.registration", gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	err := p.PublishEvent(ctx, domain.ChainEthereumMainnet, domain.Registration{TxHash: "0x1", AccountID: "bob@d3"})
	assert.ErrorContains(t, err, "timeout")
}

func TestClose(t *testing.T) {
	p, m := setupTestPublisher(t)
	m.nc.EXPECT().Close()
	p.Close()
}
