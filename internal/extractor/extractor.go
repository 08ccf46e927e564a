package extractor

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/feral-file/notary-bridge/internal/amount"
	"github.com/feral-file/notary-bridge/internal/domain"
)

var (
	// ERC20 Transfer(address indexed from, address indexed to, uint256 value)
	TRANSFER_EVENT_SIGNATURE = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

	// Emitted by the master contract when a client address is bound to a ledger account
	REGISTRATION_EVENT_SIGNATURE = common.HexToHash("0x6a70775b447c720635e28c6ecca0cec2b8917a93dc40135739e28dd2299ea5ab")
)

// ChainReader is the subset of primary chain reads the extractor needs
//
//go:generate mockgen -source=extractor.go -destination=../mocks/extractor.go -package=mocks -mock_names=ChainReader=MockChainReader
type ChainReader interface {
	// TransactionReceipt returns the receipt of a mined transaction
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// TransactionSender returns the sender of a transaction included in the block
	TransactionSender(ctx context.Context, tx *types.Transaction, blockHash common.Hash, index uint) (common.Address, error)

	// RegisteredAccount reads the ledger account id bound to a client address
	RegisteredAccount(ctx context.Context, master common.Address, client common.Address) (string, error)
}

// Extractor turns primary chain blocks into bridge events
//
//go:generate mockgen -source=extractor.go -destination=../mocks/extractor.go -package=mocks -mock_names=Extractor=MockExtractor
type Extractor interface {
	// ParseBlock returns the events of the block in transaction order
	ParseBlock(ctx context.Context, block *types.Block, watch *WatchSet) ([]domain.PrimaryChainEvent, error)
}

// Config holds the configuration for the extractor
type Config struct {
	// NativeAsset is the ledger asset id credited for native deposits
	NativeAsset string
	// NativePrecision is the decimal count of the native asset
	NativePrecision int32
	// ReceiptConcurrency bounds concurrent receipt fetches within one block
	ReceiptConcurrency int
}

type extractor struct {
	reader ChainReader
	config Config
	logger *zap.Logger
}

// NewExtractor creates a new block extractor
func NewExtractor(reader ChainReader, cfg Config, logger *zap.Logger) Extractor {
	if cfg.NativeAsset == "" {
		cfg.NativeAsset = domain.ETHER_ASSET_ID
	}
	if cfg.NativePrecision == 0 {
		cfg.NativePrecision = domain.ETHER_PRECISION
	}
	if cfg.ReceiptConcurrency <= 0 {
		cfg.ReceiptConcurrency = 8
	}
	return &extractor{reader: reader, config: cfg, logger: logger}
}

type txKind int

const (
	txIgnored txKind = iota
	txMasterCall
	txNativeDeposit
	txTokenTransfer
)

// classify applies the priority master call, watched wallet, watched token
func classify(tx *types.Transaction, watch *WatchSet) txKind {
	to := tx.To()
	if to == nil {
		return txIgnored
	}
	if *to == watch.Master {
		return txMasterCall
	}
	if _, ok := watch.Wallets[*to]; ok {
		return txNativeDeposit
	}
	if _, ok := watch.Tokens[*to]; ok {
		return txTokenTransfer
	}
	return txIgnored
}

// ParseBlock extracts registrations, native deposits and token deposits from a block.
// Receipts are fetched concurrently; any RPC failure fails the whole block so the caller can retry it.
func (e *extractor) ParseBlock(ctx context.Context, block *types.Block, watch *WatchSet) ([]domain.PrimaryChainEvent, error) {
	if watch == nil {
		return nil, fmt.Errorf("nil watch set")
	}

	txs := block.Transactions()
	blockTime := time.Unix(int64(block.Time()), 0).UTC() //nolint:gosec,G115
	results := make([][]domain.PrimaryChainEvent, len(txs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.ReceiptConcurrency)

	for i, tx := range txs {
		kind := classify(tx, watch)
		if kind == txIgnored {
			continue
		}

		i, tx := i, tx
		g.Go(func() error {
			var (
				events []domain.PrimaryChainEvent
				err    error
			)
			switch kind {
			case txMasterCall:
				events, err = e.handleMasterCall(gctx, block.Hash(), uint(i), tx, blockTime, watch) //nolint:gosec,G115
			case txNativeDeposit:
				events, err = e.handleNative(gctx, block.Hash(), uint(i), tx, blockTime, watch) //nolint:gosec,G115
			case txTokenTransfer:
				events, err = e.handleToken(gctx, tx, blockTime, watch)
			}
			if err != nil {
				return err
			}
			results[i] = events
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to parse block %d: %w", block.NumberU64(), err)
	}

	events := lo.Flatten(results)
	e.logger.Debug("Parsed block",
		zap.Uint64("block", block.NumberU64()),
		zap.Int("transactions", len(txs)),
		zap.Int("events", len(events)))

	return events, nil
}

// successfulReceipt fetches the receipt and reports whether the transaction succeeded
func (e *extractor) successfulReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, bool, error) {
	receipt, err := e.reader.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, false, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		e.logger.Warn("Transaction has FAIL status", zap.String("txHash", tx.Hash().Hex()))
		return receipt, false, nil
	}
	return receipt, true, nil
}

func (e *extractor) handleMasterCall(ctx context.Context, blockHash common.Hash, index uint, tx *types.Transaction, blockTime time.Time, watch *WatchSet) ([]domain.PrimaryChainEvent, error) {
	receipt, ok, err := e.successfulReceipt(ctx, tx)
	if err != nil || !ok {
		return nil, err
	}

	var (
		events    []domain.PrimaryChainEvent
		sender    common.Address
		accountID string
		resolved  bool
	)
	for _, log := range receipt.Logs {
		if log.Address != watch.Master || len(log.Topics) == 0 || log.Topics[0] != REGISTRATION_EVENT_SIGNATURE {
			continue
		}

		if !resolved {
			sender, err = e.reader.TransactionSender(ctx, tx, blockHash, index)
			if err != nil {
				return nil, err
			}
			accountID, err = e.reader.RegisteredAccount(ctx, watch.Master, sender)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve registered account of %s: %w", sender.Hex(), err)
			}
			resolved = true
		}

		e.logger.Info("Registration event",
			zap.String("txHash", tx.Hash().Hex()),
			zap.String("account", accountID),
			zap.String("address", sender.Hex()))

		events = append(events, domain.Registration{
			TxHash:       tx.Hash().Hex(),
			Time:         blockTime,
			AccountID:    accountID,
			ChainAddress: domain.NormalizeAddress(sender.Hex()),
		})
	}

	return events, nil
}

func (e *extractor) handleNative(ctx context.Context, blockHash common.Hash, index uint, tx *types.Transaction, blockTime time.Time, watch *WatchSet) ([]domain.PrimaryChainEvent, error) {
	if tx.Value() == nil || tx.Value().Sign() <= 0 {
		e.logger.Warn("Transaction with 0 native amount", zap.String("txHash", tx.Hash().Hex()))
		return nil, nil
	}

	_, ok, err := e.successfulReceipt(ctx, tx)
	if err != nil || !ok {
		return nil, err
	}

	from, err := e.reader.TransactionSender(ctx, tx, blockHash, index)
	if err != nil {
		return nil, err
	}

	value, err := amount.FromBaseUnits(tx.Value(), e.config.NativePrecision)
	if err != nil {
		return nil, fmt.Errorf("failed to format amount of %s: %w", tx.Hash().Hex(), err)
	}

	return []domain.PrimaryChainEvent{
		domain.NativeDeposit{
			TxHash:      tx.Hash().Hex(),
			Time:        blockTime,
			AccountID:   watch.Wallets[*tx.To()],
			Asset:       e.config.NativeAsset,
			Amount:      value,
			FromAddress: domain.NormalizeAddress(from.Hex()),
		},
	}, nil
}

func (e *extractor) handleToken(ctx context.Context, tx *types.Transaction, blockTime time.Time, watch *WatchSet) ([]domain.PrimaryChainEvent, error) {
	token := watch.Tokens[*tx.To()]

	receipt, ok, err := e.successfulReceipt(ctx, tx)
	if err != nil || !ok {
		return nil, err
	}

	var events []domain.PrimaryChainEvent
	for _, log := range receipt.Logs {
		if log.Address != *tx.To() || len(log.Topics) != 3 || log.Topics[0] != TRANSFER_EVENT_SIGNATURE {
			continue
		}

		to := common.BytesToAddress(log.Topics[2].Bytes())
		accountID, watched := watch.Wallets[to]
		if !watched {
			continue
		}

		value := new(big.Int).SetBytes(log.Data)
		if value.Sign() <= 0 {
			e.logger.Warn("Transaction with 0 token amount",
				zap.String("txHash", tx.Hash().Hex()),
				zap.String("token", token.AssetID))
			continue
		}

		formatted, err := amount.FromBaseUnits(value, token.Precision)
		if err != nil {
			return nil, fmt.Errorf("failed to format amount of %s: %w", tx.Hash().Hex(), err)
		}

		events = append(events, domain.TokenDeposit{
			TxHash:      tx.Hash().Hex(),
			LogIndex:    log.Index,
			Time:        blockTime,
			AccountID:   accountID,
			Asset:       token.AssetID,
			Amount:      formatted,
			FromAddress: domain.NormalizeAddress(common.BytesToAddress(log.Topics[1].Bytes()).Hex()),
			Anchor:      token.Anchor,
		})
	}

	return events, nil
}
