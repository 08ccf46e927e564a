package watcher

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/block"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/extractor"
	"github.com/feral-file/notary-bridge/internal/governor"
	"github.com/feral-file/notary-bridge/internal/messaging"
	"github.com/feral-file/notary-bridge/internal/metrics"
)

// Config holds the configuration for the chain watcher
type Config struct {
	Chain domain.Chain
	// Master is the bridge master contract
	Master common.Address
	// StartBlock overrides the stored cursor when not zero
	StartBlock uint64
	// PollInterval is the wait between head checks once the watcher caught up
	PollInterval time.Duration
	// RetryInitialInterval and RetryMaxInterval shape the backoff of a failing block
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// BlockSource fetches full blocks
//
//go:generate mockgen -source=watcher.go -destination=../mocks/watcher.go -package=mocks -mock_names=BlockSource=MockBlockSource,CursorStore=MockCursorStore,Watcher=MockWatcher
type BlockSource interface {
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
}

// CursorStore persists the last processed block per chain
type CursorStore interface {
	GetBlockCursor(ctx context.Context, chain domain.Chain) (uint64, error)
	SetBlockCursor(ctx context.Context, chain domain.Chain, blockNumber uint64) error
}

// Watcher follows the primary chain and publishes the events of every confirmed block
type Watcher interface {
	// Run processes blocks until ctx is canceled
	Run(ctx context.Context) error
}

type watcher struct {
	config    Config
	heads     block.BlockHeadProvider
	blocks    BlockSource
	source    extractor.WatchSource
	extractor extractor.Extractor
	publisher messaging.Publisher
	governor  governor.Governor
	cursor    CursorStore
	clock     adapter.Clock
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewWatcher creates a chain watcher. gov may be nil when no asset is governed.
func NewWatcher(
	cfg Config,
	heads block.BlockHeadProvider,
	blocks BlockSource,
	source extractor.WatchSource,
	ext extractor.Extractor,
	pub messaging.Publisher,
	gov governor.Governor,
	cursor CursorStore,
	clock adapter.Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = time.Second
	}
	if cfg.RetryMaxInterval <= 0 {
		cfg.RetryMaxInterval = time.Minute
	}
	return &watcher{
		config:    cfg,
		heads:     heads,
		blocks:    blocks,
		source:    source,
		extractor: ext,
		publisher: pub,
		governor:  gov,
		cursor:    cursor,
		clock:     clock,
		metrics:   m,
		logger:    logger.With(zap.String("chain", string(cfg.Chain))),
	}
}

// Run starts the watcher
func (w *watcher) Run(ctx context.Context) error {
	next, err := w.startBlock(ctx)
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		confirmed, ok, err := w.heads.GetConfirmedBlock(ctx)
		if err != nil {
			w.logger.Warn("Failed to get confirmed block", zap.Error(err))
		}
		if err != nil || !ok || next > confirmed {
			if err := w.wait(ctx); err != nil {
				return err
			}
			continue
		}

		for ; next <= confirmed; next++ {
			if err := w.processBlockWithRetry(ctx, next); err != nil {
				return err
			}
		}
	}
}

// startBlock determines the first block to process
func (w *watcher) startBlock(ctx context.Context) (uint64, error) {
	if w.config.StartBlock > 0 {
		w.logger.Info("Starting from configured block", zap.Uint64("block", w.config.StartBlock))
		return w.config.StartBlock, nil
	}

	lastBlock, err := w.cursor.GetBlockCursor(ctx, w.config.Chain)
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if lastBlock > 0 {
		w.logger.Info("Resuming from last processed block", zap.Uint64("block", lastBlock+1))
		return lastBlock + 1, nil
	}

	confirmed, _, err := w.heads.GetConfirmedBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get confirmed block number: %w", err)
	}
	w.logger.Info("Starting from confirmed head", zap.Uint64("block", confirmed))
	return confirmed, nil
}

func (w *watcher) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.clock.After(w.config.PollInterval):
		return nil
	}
}

// processBlockWithRetry retries a failing block until it succeeds or ctx ends
func (w *watcher) processBlockWithRetry(ctx context.Context, number uint64) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.config.RetryInitialInterval
	b.MaxInterval = w.config.RetryMaxInterval
	b.MaxElapsedTime = 0 // retry until canceled
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		w.logger.Warn("Block processing failed, retrying",
			zap.Uint64("block", number),
			zap.Error(err),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	operation := func() error {
		return w.processBlock(ctx, number)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to process block %d: %w", number, err)
	}
	return nil
}

// processBlock extracts, publishes, drives the governor and then advances the cursor.
// A failure leaves the cursor untouched so the whole block is replayed; the stream dedupes republished events.
func (w *watcher) processBlock(ctx context.Context, number uint64) error {
	blk, err := w.blocks.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return fmt.Errorf("failed to fetch block: %w", err)
	}
	if blk == nil {
		return errors.New("block not found")
	}

	watch, err := extractor.LoadWatchSet(ctx, w.config.Master, w.source)
	if err != nil {
		return err
	}

	events, err := w.extractor.ParseBlock(ctx, blk, watch)
	if err != nil {
		return fmt.Errorf("failed to parse block: %w", err)
	}

	for _, event := range events {
		if err := w.publisher.PublishEvent(ctx, w.config.Chain, event); err != nil {
			return err
		}
	}

	if w.governor != nil {
		if _, err := w.governor.Observe(ctx, blk); err != nil {
			return err
		}
	}

	if err := w.cursor.SetBlockCursor(ctx, w.config.Chain, number); err != nil {
		return err
	}

	// counted once the cursor moved, a replayed block republishes its events
	for _, event := range events {
		w.metrics.EventsExtracted.WithLabelValues(string(event.Type())).Inc()
	}
	w.metrics.BlocksProcessed.Inc()
	w.metrics.LastProcessedBlock.Set(float64(number))
	if len(events) > 0 {
		w.logger.Info("Processed block", zap.Uint64("block", number), zap.Int("events", len(events)))
	} else {
		w.logger.Debug("Processed block", zap.Uint64("block", number))
	}
	return nil
}
