package notary

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/canonical"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/metrics"
	"github.com/feral-file/notary-bridge/internal/replay"
	"github.com/feral-file/notary-bridge/internal/signer"
)

// Signature request outcomes
const (
	OutcomeIssued   = "issued"
	OutcomeReplayed = "replayed"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// TriggerVerifier checks the operation against the secondary ledger transaction named by its trigger
//
//go:generate mockgen -source=service.go -destination=../mocks/notary.go -package=mocks -mock_names=TriggerVerifier=MockTriggerVerifier,ProofStore=MockProofStore,Service=MockNotaryService
type TriggerVerifier interface {
	// VerifyTrigger returns an error wrapping domain.ErrUnverifiedTrigger when the ledger does not back op
	VerifyTrigger(ctx context.Context, op domain.Operation) error
}

// ProofStore persists released signatures
type ProofStore interface {
	SaveIssuedProof(ctx context.Context, proof domain.IssuedProof) error
	GetIssuedProof(ctx context.Context, kind domain.OperationKind, triggerHash string) (*domain.IssuedProof, error)
}

// Service signs operations at most once per trigger
type Service interface {
	// Sign returns this notary's proof for op. A repeated request for the same trigger returns the
	// proof already issued when the message is identical and domain.ErrAlreadyUsed otherwise.
	Sign(ctx context.Context, op domain.Operation) (*domain.IssuedProof, error)

	// Address returns the signer address of this notary
	Address() common.Address
}

// Config holds the configuration for the service
type Config struct {
	// CacheSize bounds the in-memory cache of issued proofs
	CacheSize int
	// AllowUnverified permits a nil verifier, triggers are then signed unchecked
	AllowUnverified bool
}

type service struct {
	signer   signer.Signer
	guard    replay.Guard
	proofs   ProofStore
	verifier TriggerVerifier
	cache    *lru.Cache[string, domain.IssuedProof]
	clock    adapter.Clock
	metrics  *metrics.Metrics
	logger   *zap.Logger

	// triggerLocks serializes requests for the same trigger within the process
	triggerLocks [lockStripes]sync.Mutex
}

const lockStripes = 256

// NewService creates the signing service. verifier may be nil only when config.AllowUnverified is set.
func NewService(
	config Config,
	s signer.Signer,
	guard replay.Guard,
	proofs ProofStore,
	verifier TriggerVerifier,
	clock adapter.Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) (Service, error) {
	if verifier == nil && !config.AllowUnverified {
		return nil, errors.New("trigger verifier is required")
	}
	if config.CacheSize <= 0 {
		config.CacheSize = 4096
	}
	cache, err := lru.New[string, domain.IssuedProof](config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create proof cache: %w", err)
	}

	return &service{
		signer:   s,
		guard:    guard,
		proofs:   proofs,
		verifier: verifier,
		cache:    cache,
		clock:    clock,
		metrics:  m,
		logger:   logger,
	}, nil
}

func (s *service) Address() common.Address {
	return s.signer.Address()
}

func cacheKey(kind domain.OperationKind, triggerHash string) string {
	return fmt.Sprintf("%s:%s", kind, domain.NormalizeHash(triggerHash))
}

func (s *service) lockTrigger(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	mu := &s.triggerLocks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func (s *service) Sign(ctx context.Context, op domain.Operation) (*domain.IssuedProof, error) {
	issued, outcome, err := s.sign(ctx, op)
	s.metrics.SignaturesIssued.WithLabelValues(string(op.Kind), outcome).Inc()
	if err != nil {
		s.logger.Warn("Signature request refused",
			zap.String("kind", string(op.Kind)),
			zap.String("trigger_hash", op.TriggerHash),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return nil, err
	}
	return issued, nil
}

func (s *service) sign(ctx context.Context, op domain.Operation) (*domain.IssuedProof, string, error) {
	if !domain.IsHexHash(op.TriggerHash) {
		return nil, OutcomeRejected, domain.MalformedOperationError("invalid trigger_hash %q", op.TriggerHash)
	}
	msg, err := canonical.Build(op)
	if err != nil {
		return nil, OutcomeRejected, err
	}

	key := cacheKey(op.Kind, op.TriggerHash)
	unlock := s.lockTrigger(key)
	defer unlock()

	previous, err := s.issued(ctx, key, op)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	if previous != nil {
		if previous.Digest != msg.Digest() {
			return nil, OutcomeRejected, fmt.Errorf("%w: trigger was signed for a different message", domain.ErrAlreadyUsed)
		}
		return previous, OutcomeReplayed, nil
	}

	// consumed without a recorded proof, refused before the ledger round trip
	used, err := s.guard.IsUsed(ctx, op.TriggerHash, op.Kind)
	if err != nil {
		return nil, OutcomeFailed, fmt.Errorf("failed to check trigger: %w", err)
	}
	if used {
		return nil, OutcomeRejected, domain.ErrAlreadyUsed
	}

	if s.verifier != nil {
		if err := s.verifier.VerifyTrigger(ctx, op); err != nil {
			if errors.Is(err, domain.ErrUnverifiedTrigger) {
				return nil, OutcomeRejected, err
			}
			return nil, OutcomeFailed, fmt.Errorf("failed to verify trigger: %w", err)
		}
	}

	sig, err := s.signer.Sign(msg)
	if err != nil {
		return nil, OutcomeFailed, err
	}

	if err := s.guard.TryConsume(ctx, op.TriggerHash, op.Kind); err != nil {
		if errors.Is(err, domain.ErrAlreadyUsed) {
			return nil, OutcomeRejected, err
		}
		return nil, OutcomeFailed, err
	}

	proof := domain.IssuedProof{
		Kind:        op.Kind,
		TriggerHash: domain.NormalizeHash(op.TriggerHash),
		Digest:      msg.Digest(),
		Proof: domain.SignedProof{
			Signer:    s.signer.Address(),
			Signature: sig,
		},
		IssuedAt: s.clock.Now().UTC().Truncate(time.Microsecond),
	}

	// the trigger is consumed at this point, so the proof is released even when it cannot be recorded
	if err := s.proofs.SaveIssuedProof(ctx, proof); err != nil {
		s.logger.Error("Failed to record issued proof",
			zap.String("kind", string(op.Kind)),
			zap.String("trigger_hash", proof.TriggerHash),
			zap.Error(err),
		)
	}
	s.cache.Add(key, proof)

	s.logger.Info("Signed operation",
		zap.String("kind", string(op.Kind)),
		zap.String("trigger_hash", proof.TriggerHash),
		zap.String("digest", proof.Digest.Hex()),
	)

	return &proof, OutcomeIssued, nil
}

// issued returns the proof already released for the trigger, from the cache or the store
func (s *service) issued(ctx context.Context, key string, op domain.Operation) (*domain.IssuedProof, error) {
	if proof, ok := s.cache.Get(key); ok {
		return &proof, nil
	}

	proof, err := s.proofs.GetIssuedProof(ctx, op.Kind, op.TriggerHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get issued proof: %w", err)
	}
	if proof != nil {
		s.cache.Add(key, *proof)
	}
	return proof, nil
}
