package store

import (
	"context"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// AddFree seeds free addresses into the pool and returns how many were new
	AddFree(ctx context.Context, addresses []string) (int, error)
	// Allocate hands the next free address to the account
	Allocate(ctx context.Context, accountID string) (string, error)
	// AddressOf returns the address allocated to the account
	AddressOf(ctx context.Context, accountID string) (string, bool, error)
	// AllocatedCount returns the number of allocated addresses
	AllocatedCount(ctx context.Context) (int, error)
	// FreeCount returns the number of free addresses
	FreeCount(ctx context.Context) (int, error)
	// Allocations returns pool address to ledger account for every allocated address
	Allocations(ctx context.Context) (map[string]string, error)

	// TryConsume marks the trigger hash as used for the kind, failing with domain.ErrAlreadyUsed on repeat
	TryConsume(ctx context.Context, triggerHash string, kind domain.OperationKind) error
	// IsUsed reports whether the trigger hash was consumed for the kind
	IsUsed(ctx context.Context, triggerHash string, kind domain.OperationKind) (bool, error)

	// GetLimit returns the stored limit of the asset, nil when none exists
	GetLimit(ctx context.Context, asset string) (*domain.LimitState, error)
	// SaveLimit replaces the stored limit of the asset
	SaveLimit(ctx context.Context, state domain.LimitState) error

	// UpsertToken registers or updates a bridge token
	UpsertToken(ctx context.Context, token domain.TokenInfo) error
	// ListTokens returns all registered bridge tokens
	ListTokens(ctx context.Context) ([]domain.TokenInfo, error)

	// SaveIssuedProof records a released signature; an existing record is kept
	SaveIssuedProof(ctx context.Context, proof domain.IssuedProof) error
	// GetIssuedProof returns a released signature, nil when none exists
	GetIssuedProof(ctx context.Context, kind domain.OperationKind, triggerHash string) (*domain.IssuedProof, error)

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain domain.Chain) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain domain.Chain, blockNumber uint64) error

	// Ping checks the database connection
	Ping(ctx context.Context) error
}
