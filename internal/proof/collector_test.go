package proof_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/canonical"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/mocks"
	"github.com/feral-file/notary-bridge/internal/proof"
	"github.com/feral-file/notary-bridge/internal/signer"
)

func withdrawOp() domain.Operation {
	return domain.Operation{
		Kind:        domain.OperationWithdraw,
		TriggerHash: "0x" + strings.Repeat("cd", 32),
		Asset:       "0x6b175474e89094c44da98b954eedeac495271d0f",
		Amount:      "250000000000000000",
		Beneficiary: "0x82a978b3f5962a5b0957d9ee9eef472ee55b42f1",
		Context:     "0x7ea0a0f5f0e1a2b3c4d5e6f708192a3b4c5d6e7f",
	}
}

func newTestSigner(t *testing.T) *signer.KeySigner {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s, err := signer.NewKeySigner(key)
	require.NoError(t, err)
	return s
}

func buildMessage(t *testing.T, op domain.Operation) canonical.Message {
	t.Helper()
	msg, err := canonical.Build(op)
	require.NoError(t, err)
	return msg
}

// signingEndpoint signs whatever it is asked for with its own key
type signingEndpoint struct {
	name   string
	signer signer.Signer
	// claim overrides the reported signer address
	claim *common.Address
	// mutate changes the operation before signing
	mutate func(op domain.Operation) domain.Operation
}

func (e *signingEndpoint) Name() string { return e.name }

func (e *signingEndpoint) RequestProof(_ context.Context, op domain.Operation) (*domain.SignedProof, error) {
	if e.mutate != nil {
		op = e.mutate(op)
	}
	msg, err := canonical.Build(op)
	if err != nil {
		return nil, err
	}
	sig, err := e.signer.Sign(msg)
	if err != nil {
		return nil, err
	}
	address := e.signer.Address()
	if e.claim != nil {
		address = *e.claim
	}
	return &domain.SignedProof{Signer: address, Signature: sig}, nil
}

func honest(t *testing.T, name string) *signingEndpoint {
	return &signingEndpoint{name: name, signer: newTestSigner(t)}
}

// blockingEndpoint never answers before its context ends
func blockingEndpoint(ctrl *gomock.Controller, name string) proof.Endpoint {
	endpoint := mocks.NewMockProofEndpoint(ctrl)
	endpoint.EXPECT().Name().Return(name).AnyTimes()
	endpoint.EXPECT().RequestProof(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ domain.Operation) (*domain.SignedProof, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).AnyTimes()
	return endpoint
}

func setupTestCollector(t *testing.T, config proof.Config) proof.Collector {
	c := proof.NewCollector(config, zap.NewNop())
	t.Cleanup(c.Stop)
	return c
}

func TestCollect_ThresholdReachedWithOneSlowEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	collector := setupTestCollector(t, proof.Config{})

	endpoints := []proof.Endpoint{
		honest(t, "a"),
		blockingEndpoint(ctrl, "slow"),
		honest(t, "b"),
		honest(t, "c"),
	}

	timeout := 5 * time.Second
	start := time.Now()
	result, err := collector.Collect(context.Background(), withdrawOp(), endpoints, 3, timeout)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), timeout)

	require.Equal(t, 3, result.Len())
	assert.Equal(t, domain.OperationWithdraw, result.Kind)
	msg := buildMessage(t, withdrawOp())
	assert.Equal(t, msg.Digest(), result.Digest)

	seen := make(map[common.Address]bool)
	for _, p := range result.Proofs {
		assert.False(t, seen[p.Signer], "duplicate signer %s", p.Signer.Hex())
		seen[p.Signer] = true
		assert.NoError(t, signer.Verify(msg, p.Signature, p.Signer))
	}
}

func TestCollect_LargeFederationStartsEveryRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	collector := setupTestCollector(t, proof.Config{})

	// more hanging members than any fixed worker count, ahead of the honest quorum
	var endpoints []proof.Endpoint
	for i := 0; i < 40; i++ {
		endpoints = append(endpoints, blockingEndpoint(ctrl, fmt.Sprintf("hanging-%d", i)))
	}
	endpoints = append(endpoints, honest(t, "a"), honest(t, "b"))

	timeout := 5 * time.Second
	start := time.Now()
	result, err := collector.Collect(context.Background(), withdrawOp(), endpoints, 2, timeout)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), timeout)
	assert.Equal(t, 2, result.Len())
}

func TestCollect_StopWaitsForAbandonedRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	collector := proof.NewCollector(proof.Config{}, zap.NewNop())

	endpoints := []proof.Endpoint{honest(t, "a"), blockingEndpoint(ctrl, "slow")}
	_, err := collector.Collect(context.Background(), withdrawOp(), endpoints, 1, 5*time.Second)
	require.NoError(t, err)

	stopped := make(chan struct{})
	go func() {
		collector.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the collection was cancelled")
	}
}

func TestCollect_DuplicateSignerCountsOnce(t *testing.T) {
	collector := setupTestCollector(t, proof.Config{})

	shared := newTestSigner(t)
	endpoints := []proof.Endpoint{
		&signingEndpoint{name: "a", signer: shared},
		&signingEndpoint{name: "a-replica", signer: shared},
		honest(t, "b"),
	}

	_, err := collector.Collect(context.Background(), withdrawOp(), endpoints, 3, time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrQuorumNotReached))

	var quorumErr *domain.QuorumNotReachedError
	require.True(t, errors.As(err, &quorumErr))
	assert.Equal(t, 3, quorumErr.Threshold)
	assert.Equal(t, 2, quorumErr.Partial.Len())
	assert.True(t, quorumErr.Partial.Contains(shared.Address()))
}

func TestCollect_RejectsForgedAndDivergentProofs(t *testing.T) {
	collector := setupTestCollector(t, proof.Config{})

	victim := newTestSigner(t).Address()
	endpoints := []proof.Endpoint{
		// claims somebody else's identity
		&signingEndpoint{name: "forger", signer: newTestSigner(t), claim: &victim},
		// signs a different amount
		&signingEndpoint{name: "divergent", signer: newTestSigner(t), mutate: func(op domain.Operation) domain.Operation {
			op.Amount = "250000000000000001"
			return op
		}},
		honest(t, "a"),
	}

	_, err := collector.Collect(context.Background(), withdrawOp(), endpoints, 2, time.Second)
	var quorumErr *domain.QuorumNotReachedError
	require.True(t, errors.As(err, &quorumErr))
	assert.Equal(t, 1, quorumErr.Partial.Len())
	assert.False(t, quorumErr.Partial.Contains(victim))
}

func TestCollect_AllowedSigners(t *testing.T) {
	member := honest(t, "member")
	outsider := honest(t, "outsider")

	collector := setupTestCollector(t, proof.Config{AllowedSigners: []common.Address{member.signer.Address()}})

	_, err := collector.Collect(context.Background(), withdrawOp(), []proof.Endpoint{member, outsider}, 2, time.Second)
	var quorumErr *domain.QuorumNotReachedError
	require.True(t, errors.As(err, &quorumErr))
	require.Equal(t, 1, quorumErr.Partial.Len())
	assert.Equal(t, member.signer.Address(), quorumErr.Partial.Proofs[0].Signer)
}

func TestCollect_TimeoutReturnsPartial(t *testing.T) {
	ctrl := gomock.NewController(t)
	collector := setupTestCollector(t, proof.Config{})

	endpoints := []proof.Endpoint{
		honest(t, "a"),
		blockingEndpoint(ctrl, "slow-1"),
		honest(t, "b"),
		blockingEndpoint(ctrl, "slow-2"),
	}

	start := time.Now()
	_, err := collector.Collect(context.Background(), withdrawOp(), endpoints, 3, 100*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)

	var quorumErr *domain.QuorumNotReachedError
	require.True(t, errors.As(err, &quorumErr))
	assert.Equal(t, 2, quorumErr.Partial.Len())
}

func TestCollect_EndpointErrorsDoNotCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	collector := setupTestCollector(t, proof.Config{})

	failing := mocks.NewMockProofEndpoint(ctrl)
	failing.EXPECT().Name().Return("failing").AnyTimes()
	failing.EXPECT().RequestProof(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	result, err := collector.Collect(context.Background(), withdrawOp(), []proof.Endpoint{failing, honest(t, "a"), honest(t, "b")}, 2, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Len())
}

func TestCollect_InvalidInput(t *testing.T) {
	collector := setupTestCollector(t, proof.Config{})

	_, err := collector.Collect(context.Background(), withdrawOp(), nil, 0, time.Second)
	assert.Error(t, err)

	op := withdrawOp()
	op.Amount = "-1"
	_, err = collector.Collect(context.Background(), op, []proof.Endpoint{honest(t, "a")}, 1, time.Second)
	assert.True(t, errors.Is(err, domain.ErrMalformedOperation))
}
