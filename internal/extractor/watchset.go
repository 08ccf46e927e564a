package extractor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// WatchSource provides the ledger-side state the extractor filters against
//
//go:generate mockgen -source=watchset.go -destination=../mocks/watch_source.go -package=mocks -mock_names=WatchSource=MockWatchSource
type WatchSource interface {
	// Allocations returns pool address to ledger account for every allocated address
	Allocations(ctx context.Context) (map[string]string, error)

	// ListTokens returns the registered bridge tokens
	ListTokens(ctx context.Context) ([]domain.TokenInfo, error)
}

// WatchSet is a snapshot of the addresses the extractor tracks for one block
type WatchSet struct {
	Master  common.Address
	Wallets map[common.Address]string
	Tokens  map[common.Address]domain.TokenInfo
}

// LoadWatchSet builds a snapshot from the watch source
func LoadWatchSet(ctx context.Context, master common.Address, source WatchSource) (*WatchSet, error) {
	allocations, err := source.Allocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations: %w", err)
	}

	tokens, err := source.ListTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}

	return NewWatchSet(master, allocations, tokens), nil
}

// NewWatchSet indexes allocations and tokens by address
func NewWatchSet(master common.Address, allocations map[string]string, tokens []domain.TokenInfo) *WatchSet {
	ws := &WatchSet{
		Master:  master,
		Wallets: make(map[common.Address]string, len(allocations)),
		Tokens:  make(map[common.Address]domain.TokenInfo, len(tokens)),
	}
	for address, accountID := range allocations {
		ws.Wallets[common.HexToAddress(address)] = accountID
	}
	for _, token := range tokens {
		ws.Tokens[common.HexToAddress(token.Address)] = token
	}
	return ws
}
