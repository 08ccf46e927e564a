package notary_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/canonical"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/metrics"
	"github.com/feral-file/notary-bridge/internal/mocks"
	"github.com/feral-file/notary-bridge/internal/notary"
	"github.com/feral-file/notary-bridge/internal/replay"
	"github.com/feral-file/notary-bridge/internal/signer"
)

// well known development key (hardhat account #0)
const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var now = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func withdrawOp() domain.Operation {
	return domain.Operation{
		Kind:        domain.OperationWithdraw,
		TriggerHash: "0x" + strings.Repeat("5e", 32),
		Asset:       "0x6b175474e89094c44da98b954eedeac495271d0f",
		Amount:      "1000",
		Beneficiary: "0x82a978b3f5962a5b0957d9ee9eef472ee55b42f1",
		Context:     "0x7ea0a0f5f0e1a2b3c4d5e6f708192a3b4c5d6e7f",
	}
}

type testServiceMocks struct {
	ctrl     *gomock.Controller
	proofs   *mocks.MockProofStore
	verifier *mocks.MockTriggerVerifier
	clock    *mocks.MockClock
	guard    replay.Guard
	signer   *signer.KeySigner
	metrics  *metrics.Metrics
}

func setupTestService(t *testing.T, withVerifier bool) (notary.Service, *testServiceMocks) {
	ctrl := gomock.NewController(t)
	s, err := signer.NewKeySignerFromHex(testKeyHex)
	require.NoError(t, err)

	m := &testServiceMocks{
		ctrl:     ctrl,
		proofs:   mocks.NewMockProofStore(ctrl),
		verifier: mocks.NewMockTriggerVerifier(ctrl),
		clock:    mocks.NewMockClock(ctrl),
		guard:    replay.NewMemoryGuard(),
		signer:   s,
		metrics:  metrics.NewNop(),
	}
	m.clock.EXPECT().Now().Return(now).AnyTimes()

	var verifier notary.TriggerVerifier
	if withVerifier {
		verifier = m.verifier
	}

	svc, err := notary.NewService(notary.Config{CacheSize: 16, AllowUnverified: !withVerifier}, s, m.guard, m.proofs, verifier, m.clock, m.metrics, zap.NewNop())
	require.NoError(t, err)
	return svc, m
}

func buildMessage(t *testing.T, op domain.Operation) canonical.Message {
	t.Helper()
	msg, err := canonical.Build(op)
	require.NoError(t, err)
	return msg
}

func TestSign_IssuesVerifiableProof(t *testing.T) {
	svc, m := setupTestService(t, false)
	ctx := context.Background()
	op := withdrawOp()
	msg := buildMessage(t, op)

	m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)
	m.proofs.EXPECT().SaveIssuedProof(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p domain.IssuedProof) error {
		assert.Equal(t, msg.Digest(), p.Digest)
		return nil
	})

	issued, err := svc.Sign(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, m.signer.Address(), issued.Proof.Signer)
	assert.Equal(t, svc.Address(), issued.Proof.Signer)
	assert.Equal(t, msg.Digest(), issued.Digest)
	assert.Equal(t, now, issued.IssuedAt)
	assert.NoError(t, signer.Verify(msg, issued.Proof.Signature, m.signer.Address()))

	used, err := m.guard.IsUsed(ctx, op.TriggerHash, op.Kind)
	require.NoError(t, err)
	assert.True(t, used)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.SignaturesIssued.WithLabelValues("withdraw", notary.OutcomeIssued)))
}

func TestSign_RetryReturnsSameProof(t *testing.T) {
	svc, m := setupTestService(t, false)
	ctx := context.Background()
	op := withdrawOp()

	m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil).Times(1)
	m.proofs.EXPECT().SaveIssuedProof(ctx, gomock.Any()).Return(nil).Times(1)

	first, err := svc.Sign(ctx, op)
	require.NoError(t, err)

	// address case does not change the message
	op.Beneficiary = strings.ToUpper(op.Beneficiary[2:])
	second, err := svc.Sign(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.SignaturesIssued.WithLabelValues("withdraw", notary.OutcomeReplayed)))
}

func TestSign_DifferentMessageForUsedTrigger(t *testing.T) {
	svc, m := setupTestService(t, false)
	ctx := context.Background()
	op := withdrawOp()

	m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)
	m.proofs.EXPECT().SaveIssuedProof(ctx, gomock.Any()).Return(nil)

	_, err := svc.Sign(ctx, op)
	require.NoError(t, err)

	op.Amount = "1001"
	_, err = svc.Sign(ctx, op)
	assert.ErrorIs(t, err, domain.ErrAlreadyUsed)

	// the same trigger is independent for another kind
	op.Kind = domain.OperationMint
	m.proofs.EXPECT().GetIssuedProof(ctx, domain.OperationMint, op.TriggerHash).Return(nil, nil)
	m.proofs.EXPECT().SaveIssuedProof(ctx, gomock.Any()).Return(nil)
	_, err = svc.Sign(ctx, op)
	assert.NoError(t, err)
}

func TestSign_FallsBackToStoredProof(t *testing.T) {
	svc, m := setupTestService(t, false)
	ctx := context.Background()
	op := withdrawOp()
	msg := buildMessage(t, op)

	sig, err := m.signer.Sign(msg)
	require.NoError(t, err)
	stored := &domain.IssuedProof{
		Kind:        op.Kind,
		TriggerHash: op.TriggerHash,
		Digest:      msg.Digest(),
		Proof:       domain.SignedProof{Signer: m.signer.Address(), Signature: sig},
		IssuedAt:    now.Add(-time.Hour),
	}
	m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(stored, nil)

	issued, err := svc.Sign(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, stored, issued)

	// the guard was never touched
	used, err := m.guard.IsUsed(ctx, op.TriggerHash, op.Kind)
	require.NoError(t, err)
	assert.False(t, used)
}

func TestSign_TriggerConsumedElsewhere(t *testing.T) {
	svc, m := setupTestService(t, false)
	ctx := context.Background()
	op := withdrawOp()

	require.NoError(t, m.guard.TryConsume(ctx, op.TriggerHash, op.Kind))
	m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)

	_, err := svc.Sign(ctx, op)
	assert.ErrorIs(t, err, domain.ErrAlreadyUsed)
}

func TestSign_ConsumedTriggerSkipsVerifier(t *testing.T) {
	svc, m := setupTestService(t, true)
	ctx := context.Background()
	op := withdrawOp()

	require.NoError(t, m.guard.TryConsume(ctx, op.TriggerHash, op.Kind))
	m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)
	m.verifier.EXPECT().VerifyTrigger(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Sign(ctx, op)
	assert.ErrorIs(t, err, domain.ErrAlreadyUsed)
}

func TestSign_GuardLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, err := signer.NewKeySignerFromHex(testKeyHex)
	require.NoError(t, err)
	guard := mocks.NewMockReplayGuard(ctrl)
	proofs := mocks.NewMockProofStore(ctrl)
	verifier := mocks.NewMockTriggerVerifier(ctrl)

	svc, err := notary.NewService(notary.Config{}, s, guard, proofs, verifier, mocks.NewMockClock(ctrl), metrics.NewNop(), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	op := withdrawOp()
	proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)
	guard.EXPECT().IsUsed(ctx, op.TriggerHash, op.Kind).Return(false, errors.New("redis unavailable"))

	_, err = svc.Sign(ctx, op)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrAlreadyUsed))
	assert.Contains(t, err.Error(), "failed to check trigger")
}

func TestSign_Verifier(t *testing.T) {
	ctx := context.Background()
	op := withdrawOp()

	t.Run("rejected trigger is not consumed", func(t *testing.T) {
		svc, m := setupTestService(t, true)
		m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)
		m.verifier.EXPECT().VerifyTrigger(ctx, op).Return(fmt.Errorf("%w: amount differs", domain.ErrUnverifiedTrigger))

		_, err := svc.Sign(ctx, op)
		assert.ErrorIs(t, err, domain.ErrUnverifiedTrigger)

		used, err := m.guard.IsUsed(ctx, op.TriggerHash, op.Kind)
		require.NoError(t, err)
		assert.False(t, used)
	})

	t.Run("verifier failure", func(t *testing.T) {
		svc, m := setupTestService(t, true)
		m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)
		m.verifier.EXPECT().VerifyTrigger(ctx, op).Return(errors.New("ledger unreachable"))

		_, err := svc.Sign(ctx, op)
		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrUnverifiedTrigger))
	})

	t.Run("accepted trigger", func(t *testing.T) {
		svc, m := setupTestService(t, true)
		m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)
		m.verifier.EXPECT().VerifyTrigger(ctx, op).Return(nil)
		m.proofs.EXPECT().SaveIssuedProof(ctx, gomock.Any()).Return(nil)

		_, err := svc.Sign(ctx, op)
		assert.NoError(t, err)
	})
}

func TestNewService_RequiresVerifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, err := signer.NewKeySignerFromHex(testKeyHex)
	require.NoError(t, err)

	_, err = notary.NewService(notary.Config{}, s, replay.NewMemoryGuard(), mocks.NewMockProofStore(ctrl), nil, mocks.NewMockClock(ctrl), metrics.NewNop(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trigger verifier is required")

	svc, err := notary.NewService(notary.Config{AllowUnverified: true}, s, replay.NewMemoryGuard(), mocks.NewMockProofStore(ctrl), nil, mocks.NewMockClock(ctrl), metrics.NewNop(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, s.Address(), svc.Address())
}

func TestSign_Malformed(t *testing.T) {
	svc, _ := setupTestService(t, false)

	op := withdrawOp()
	op.TriggerHash = "0x1234"
	_, err := svc.Sign(context.Background(), op)
	assert.ErrorIs(t, err, domain.ErrMalformedOperation)

	op = withdrawOp()
	op.Kind = "refund"
	_, err = svc.Sign(context.Background(), op)
	assert.ErrorIs(t, err, domain.ErrMalformedOperation)
}

func TestSign_RecordFailureStillReleasesProof(t *testing.T) {
	svc, m := setupTestService(t, false)
	ctx := context.Background()
	op := withdrawOp()

	m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil)
	m.proofs.EXPECT().SaveIssuedProof(ctx, gomock.Any()).Return(errors.New("db down"))

	first, err := svc.Sign(ctx, op)
	require.NoError(t, err)

	// served from the cache
	second, err := svc.Sign(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSign_ConcurrentIdenticalRequests(t *testing.T) {
	svc, m := setupTestService(t, false)
	ctx := context.Background()
	op := withdrawOp()

	m.proofs.EXPECT().GetIssuedProof(ctx, op.Kind, op.TriggerHash).Return(nil, nil).Times(1)
	m.proofs.EXPECT().SaveIssuedProof(ctx, gomock.Any()).Return(nil).Times(1)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []*domain.IssuedProof
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			issued, err := svc.Sign(ctx, op)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			results = append(results, issued)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, results, 16)
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}
