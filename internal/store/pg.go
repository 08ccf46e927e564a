package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/store/schema"
)

type pgStore struct {
	db    *gorm.DB
	clock adapter.Clock
}

// NewPGStore creates a new PostgreSQL store instance.
// The connection must be opened with gorm.Config.TranslateError so unique violations map to gorm.ErrDuplicatedKey.
func NewPGStore(db *gorm.DB, clock adapter.Clock) Store {
	return &pgStore{db: db, clock: clock}
}

// Migrate creates or updates the tables used by the store
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&schema.AddressAllocation{},
		&schema.UsedHash{},
		&schema.WithdrawalLimit{},
		&schema.BridgeToken{},
		&schema.IssuedSignature{},
		&schema.KeyValueStore{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, defaults are used:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and keeps MaxIdleConns within MaxOpenConns
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// =============================================================================
// Address pool
// =============================================================================

// AddFree seeds free addresses; already known addresses are skipped
func (s *pgStore) AddFree(ctx context.Context, addresses []string) (int, error) {
	if len(addresses) == 0 {
		return 0, nil
	}

	rows := make([]schema.AddressAllocation, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	for _, address := range addresses {
		if !common.IsHexAddress(address) {
			return 0, fmt.Errorf("invalid address: %s", address)
		}
		normalized := domain.NormalizeAddress(address)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		rows = append(rows, schema.AddressAllocation{
			Address: normalized,
			State:   domain.AllocationFree,
		})
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoNothing: true,
		}).
		CreateInBatches(rows, 1000)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to add free addresses: %w", result.Error)
	}

	return int(result.RowsAffected), nil
}

// Allocate pops a free address inside one transaction.
// FOR UPDATE SKIP LOCKED lets concurrent allocations take different rows and the
// unique index on owner_account_id rejects a second address for the same account.
func (s *pgStore) Allocate(ctx context.Context, accountID string) (string, error) {
	var allocated string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing schema.AddressAllocation
		err := tx.Where("owner_account_id = ?", accountID).First(&existing).Error
		if err == nil {
			return &domain.AlreadyRegisteredError{AccountID: accountID, Address: existing.Address}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to get existing allocation: %w", err)
		}

		var free schema.AddressAllocation
		err = tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("state = ?", domain.AllocationFree).
			Order("created_at").
			First(&free).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNoFreeAddress
			}
			return fmt.Errorf("failed to lock free address: %w", err)
		}

		now := s.clock.Now().UTC()
		err = tx.Model(&schema.AddressAllocation{}).
			Where("address = ?", free.Address).
			Updates(map[string]interface{}{
				"owner_account_id": accountID,
				"state":            domain.AllocationAllocated,
				"allocated_at":     now,
			}).Error
		if err != nil {
			return err
		}

		allocated = free.Address
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race against a concurrent allocation for the same account
			address, ok, lookupErr := s.AddressOf(ctx, accountID)
			if lookupErr == nil && ok {
				return "", &domain.AlreadyRegisteredError{AccountID: accountID, Address: address}
			}
			return "", fmt.Errorf("failed to allocate address: %w", err)
		}
		if errors.Is(err, domain.ErrAlreadyRegistered) || errors.Is(err, domain.ErrNoFreeAddress) {
			return "", err
		}
		return "", fmt.Errorf("failed to allocate address: %w", err)
	}

	return allocated, nil
}

// AddressOf returns the address allocated to the account
func (s *pgStore) AddressOf(ctx context.Context, accountID string) (string, bool, error) {
	var allocation schema.AddressAllocation
	err := s.db.WithContext(ctx).Where("owner_account_id = ?", accountID).First(&allocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get allocation: %w", err)
	}
	return allocation.Address, true, nil
}

// AllocatedCount returns the number of allocated addresses
func (s *pgStore) AllocatedCount(ctx context.Context) (int, error) {
	return s.countByState(ctx, domain.AllocationAllocated)
}

// FreeCount returns the number of free addresses
func (s *pgStore) FreeCount(ctx context.Context) (int, error) {
	return s.countByState(ctx, domain.AllocationFree)
}

func (s *pgStore) countByState(ctx context.Context, state domain.AllocationState) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&schema.AddressAllocation{}).Where("state = ?", state).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s addresses: %w", state, err)
	}
	return int(count), nil
}

// Allocations returns pool address to ledger account for every allocated address
func (s *pgStore) Allocations(ctx context.Context) (map[string]string, error) {
	var rows []schema.AddressAllocation
	err := s.db.WithContext(ctx).Where("state = ?", domain.AllocationAllocated).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	allocations := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.OwnerAccountID != nil {
			allocations[row.Address] = *row.OwnerAccountID
		}
	}
	return allocations, nil
}

// =============================================================================
// Replay guard
// =============================================================================

// TryConsume inserts the (trigger_hash, kind) pair; a conflicting insert means the hash was used
func (s *pgStore) TryConsume(ctx context.Context, triggerHash string, kind domain.OperationKind) error {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&schema.UsedHash{
			TriggerHash: domain.NormalizeHash(triggerHash),
			Kind:        kind,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to consume trigger hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyUsed
	}
	return nil
}

// IsUsed reports whether the trigger hash was consumed for the kind
func (s *pgStore) IsUsed(ctx context.Context, triggerHash string, kind domain.OperationKind) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&schema.UsedHash{}).
		Where("trigger_hash = ? AND kind = ?", domain.NormalizeHash(triggerHash), kind).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check trigger hash: %w", err)
	}
	return count > 0, nil
}

// =============================================================================
// Withdrawal limits
// =============================================================================

// GetLimit returns the stored limit of the asset
func (s *pgStore) GetLimit(ctx context.Context, asset string) (*domain.LimitState, error) {
	var row schema.WithdrawalLimit
	err := s.db.WithContext(ctx).Where("asset = ?", asset).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get withdrawal limit: %w", err)
	}
	return &domain.LimitState{
		Asset:        row.Asset,
		CurrentLimit: row.CurrentLimit,
		ValidUntil:   row.ValidUntil.UTC(),
	}, nil
}

// SaveLimit replaces the stored limit of the asset
func (s *pgStore) SaveLimit(ctx context.Context, state domain.LimitState) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_limit", "valid_until", "updated_at"}),
		}).
		Create(&schema.WithdrawalLimit{
			Asset:        state.Asset,
			CurrentLimit: state.CurrentLimit,
			ValidUntil:   state.ValidUntil.UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save withdrawal limit: %w", err)
	}
	return nil
}

// =============================================================================
// Token registry
// =============================================================================

// UpsertToken registers or updates a bridge token
func (s *pgStore) UpsertToken(ctx context.Context, token domain.TokenInfo) error {
	if !common.IsHexAddress(token.Address) {
		return fmt.Errorf("invalid token address: %s", token.Address)
	}
	if token.Anchor != domain.AnchorPrimary && token.Anchor != domain.AnchorSecondary {
		return fmt.Errorf("invalid token anchor: %s", token.Anchor)
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{"asset_id", "decimals", "anchor", "updated_at"}),
		}).
		Create(&schema.BridgeToken{
			Address:   domain.NormalizeAddress(token.Address),
			AssetID:   token.AssetID,
			Precision: token.Precision,
			Anchor:    token.Anchor,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}
	return nil
}

// ListTokens returns all registered bridge tokens
func (s *pgStore) ListTokens(ctx context.Context) ([]domain.TokenInfo, error) {
	var rows []schema.BridgeToken
	if err := s.db.WithContext(ctx).Order("address").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	tokens := make([]domain.TokenInfo, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, domain.TokenInfo{
			Address:   row.Address,
			AssetID:   row.AssetID,
			Precision: row.Precision,
			Anchor:    row.Anchor,
		})
	}
	return tokens, nil
}

// =============================================================================
// Issued signatures
// =============================================================================

// SaveIssuedProof records a released signature; the first record for a trigger wins
func (s *pgStore) SaveIssuedProof(ctx context.Context, proof domain.IssuedProof) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&schema.IssuedSignature{
			Kind:        proof.Kind,
			TriggerHash: domain.NormalizeHash(proof.TriggerHash),
			Digest:      proof.Digest.Hex(),
			Signer:      strings.ToLower(proof.Proof.Signer.Hex()),
			V:           proof.Proof.Signature.V,
			R:           proof.Proof.Signature.RHex(),
			S:           proof.Proof.Signature.SHex(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save issued proof: %w", err)
	}
	return nil
}

// GetIssuedProof returns a released signature
func (s *pgStore) GetIssuedProof(ctx context.Context, kind domain.OperationKind, triggerHash string) (*domain.IssuedProof, error) {
	var row schema.IssuedSignature
	err := s.db.WithContext(ctx).
		Where("kind = ? AND trigger_hash = ?", kind, domain.NormalizeHash(triggerHash)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issued proof: %w", err)
	}

	sig, err := domain.SignatureComponentsFromHex(row.V, row.R, row.S)
	if err != nil {
		return nil, fmt.Errorf("failed to decode issued proof: %w", err)
	}

	return &domain.IssuedProof{
		Kind:        row.Kind,
		TriggerHash: row.TriggerHash,
		Digest:      common.HexToHash(row.Digest),
		Proof: domain.SignedProof{
			Signer:    common.HexToAddress(row.Signer),
			Signature: sig,
		},
		IssuedAt: row.CreatedAt.UTC(),
	}, nil
}

// =============================================================================
// Block cursor
// =============================================================================

func blockCursorKey(chain domain.Chain) string {
	return fmt.Sprintf("block_cursor:%s", chain)
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain domain.Chain) (uint64, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", blockCursorKey(chain)).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil // Return 0 if no cursor exists
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain domain.Chain, blockNumber uint64) error {
	kv := schema.KeyValueStore{
		Key:   blockCursorKey(chain),
		Value: strconv.FormatUint(blockNumber, 10),
	}

	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
