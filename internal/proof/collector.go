package proof

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/canonical"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/signer"
)

// Collector assembles quorum proofs from independent notary endpoints
//
//go:generate mockgen -source=collector.go -destination=../mocks/proof_collector.go -package=mocks -mock_names=Collector=MockProofCollector
type Collector interface {
	// Collect queries every endpoint concurrently and returns as soon as threshold distinct
	// valid signers answered. On timeout it returns *domain.QuorumNotReachedError with the partial proof.
	Collect(ctx context.Context, op domain.Operation, endpoints []Endpoint, threshold int, timeout time.Duration) (*domain.QuorumProof, error)

	// Stop waits for in-flight requests of finished collections
	Stop()
}

// Config holds the configuration for the collector
type Config struct {
	// AllowedSigners restricts accepted signers when not empty
	AllowedSigners []common.Address
}

type collector struct {
	allowed  map[common.Address]struct{}
	logger   *zap.Logger
	inflight sync.WaitGroup
}

type response struct {
	endpoint string
	proof    *domain.SignedProof
	err      error
}

// NewCollector creates a new proof collector
func NewCollector(config Config, logger *zap.Logger) Collector {
	allowed := make(map[common.Address]struct{}, len(config.AllowedSigners))
	for _, addr := range config.AllowedSigners {
		allowed[addr] = struct{}{}
	}

	return &collector{
		allowed: allowed,
		logger:  logger,
	}
}

func (c *collector) Collect(ctx context.Context, op domain.Operation, endpoints []Endpoint, threshold int, timeout time.Duration) (*domain.QuorumProof, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("invalid threshold: %d", threshold)
	}

	msg, err := canonical.Build(op)
	if err != nil {
		return nil, err
	}

	result := &domain.QuorumProof{
		Kind:        op.Kind,
		TriggerHash: domain.NormalizeHash(op.TriggerHash),
		Digest:      msg.Digest(),
		Proofs:      make([]domain.SignedProof, 0, threshold),
	}

	collectCtx, cancel := context.WithTimeout(ctx, timeout)

	// one worker per endpoint: every request starts at once, so hanging members never delay the rest
	pool := pond.NewPool(max(len(endpoints), 1))
	c.inflight.Add(1)
	defer func() {
		cancel()
		go func() {
			pool.StopAndWait()
			c.inflight.Done()
		}()
	}()

	// buffered so abandoned requests never block once we return
	responses := make(chan response, len(endpoints))
	for _, endpoint := range endpoints {
		pool.Submit(func() {
			proof, err := endpoint.RequestProof(collectCtx, op)
			responses <- response{endpoint: endpoint.Name(), proof: proof, err: err}
		})
	}

	for pending := len(endpoints); pending > 0; pending-- {
		select {
		case <-collectCtx.Done():
			c.logger.Warn("Proof collection deadline reached",
				zap.String("trigger_hash", result.TriggerHash),
				zap.Int("collected", result.Len()),
				zap.Int("threshold", threshold),
			)
			return nil, &domain.QuorumNotReachedError{Threshold: threshold, Partial: result}
		case resp := <-responses:
			if err := c.accept(msg, result, resp); err != nil {
				c.logger.Warn("Rejected proof",
					zap.String("endpoint", resp.endpoint),
					zap.String("trigger_hash", result.TriggerHash),
					zap.Error(err),
				)
				continue
			}
			if result.Len() >= threshold {
				return result, nil
			}
		}
	}

	// every endpoint answered and the threshold is out of reach
	return nil, &domain.QuorumNotReachedError{Threshold: threshold, Partial: result}
}

var errDuplicateSigner = errors.New("duplicate signer")

// accept verifies the response against the locally built message and appends it
func (c *collector) accept(msg canonical.Message, result *domain.QuorumProof, resp response) error {
	if resp.err != nil {
		return resp.err
	}
	if resp.proof == nil {
		return errors.New("empty response")
	}
	if err := signer.Verify(msg, resp.proof.Signature, resp.proof.Signer); err != nil {
		return err
	}
	if len(c.allowed) > 0 {
		if _, ok := c.allowed[resp.proof.Signer]; !ok {
			return fmt.Errorf("signer %s is not a federation member", resp.proof.Signer.Hex())
		}
	}
	if result.Contains(resp.proof.Signer) {
		return errDuplicateSigner
	}
	result.Proofs = append(result.Proofs, *resp.proof)
	return nil
}

func (c *collector) Stop() {
	c.inflight.Wait()
}
