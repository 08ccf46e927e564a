package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/adapter"
)

// BlockInfo represents cached block information
type BlockInfo struct {
	Number    uint64
	Timestamp time.Time
}

// BlockHeadProvider provides cached access to the chain head.
// The watcher polls it every tick, so the latest block number is cached
// for a configurable TTL to keep RPC usage flat.
//
//go:generate mockgen -source=head.go -destination=../mocks/block_head_provider.go -package=mocks -mock_names=BlockHeadProvider=MockBlockHeadProvider
type BlockHeadProvider interface {
	// GetLatestBlock returns the latest block number, potentially from cache
	GetLatestBlock(ctx context.Context) (uint64, error)

	// GetConfirmedBlock returns the newest block with enough confirmations.
	// ok is false while the chain is shorter than the confirmation depth.
	GetConfirmedBlock(ctx context.Context) (number uint64, ok bool, err error)
}

// BlockFetcher is the interface for fetching the latest block from the blockchain
//
//go:generate mockgen -source=head.go -destination=../mocks/block_head_provider.go -package=mocks -mock_names=BlockFetcher=MockBlockFetcher
type BlockFetcher interface {
	// FetchLatestBlock fetches the latest block from the blockchain
	FetchLatestBlock(ctx context.Context) (uint64, error)
}

// Config holds configuration for the BlockHeadProvider
type Config struct {
	// TTL is how long to cache the block number
	TTL time.Duration

	// StaleWindow is how long to use stale data if fetching fails
	// If the cached data is older than this and fetch fails, return error
	StaleWindow time.Duration

	// Confirmations is the number of blocks a block must be buried under before it is processed
	Confirmations uint64
}

// blockHeadProvider implements BlockHeadProvider with TTL-based caching
type blockHeadProvider struct {
	fetcher BlockFetcher
	config  Config
	clock   adapter.Clock
	logger  *zap.Logger

	mu        sync.RWMutex
	blockInfo *BlockInfo
}

// NewBlockHeadProvider creates a new BlockHeadProvider with caching
func NewBlockHeadProvider(fetcher BlockFetcher, config Config, clock adapter.Clock, logger *zap.Logger) BlockHeadProvider {
	return &blockHeadProvider{
		fetcher: fetcher,
		config:  config,
		clock:   clock,
		logger:  logger,
	}
}

// GetLatestBlock returns the latest block number, using cache if valid
func (p *blockHeadProvider) GetLatestBlock(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.blockInfo
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.Timestamp) < p.config.TTL {
		p.logger.Debug("Using cached block number", zap.Uint64("block_number", cached.Number))
		return cached.Number, nil
	}

	p.logger.Debug("Fetching latest block number from blockchain provider")
	blockNumber, err := p.fetcher.FetchLatestBlock(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.Timestamp) < p.config.StaleWindow {
			p.logger.Debug("Using stale block number", zap.Uint64("block_number", cached.Number), zap.Error(err))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block and no valid cache available: %w", err)
	}

	p.mu.Lock()
	p.blockInfo = &BlockInfo{
		Number:    blockNumber,
		Timestamp: now,
	}
	p.mu.Unlock()

	return blockNumber, nil
}

// GetConfirmedBlock returns latest minus the confirmation depth
func (p *blockHeadProvider) GetConfirmedBlock(ctx context.Context) (uint64, bool, error) {
	latest, err := p.GetLatestBlock(ctx)
	if err != nil {
		return 0, false, err
	}
	if latest < p.config.Confirmations {
		return 0, false, nil
	}
	return latest - p.config.Confirmations, true, nil
}
