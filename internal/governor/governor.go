package governor

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/amount"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/metrics"
)

// working precision of the division; wide enough that a tie at the governed precision is exact
const divisionPrecision = 200

// Recompute reasons
const (
	ReasonInitial       = "initial"
	ReasonExpired       = "expired"
	ReasonSupplyChanged = "supply_changed"
)

// SupplyReader reads the pooled supply of the governed token
//
//go:generate mockgen -source=governor.go -destination=../mocks/governor.go -package=mocks -mock_names=SupplyReader=MockSupplyReader,LimitStore=MockLimitStore,Governor=MockGovernor
type SupplyReader interface {
	// Supply returns the pooled supply in token base units at blockNumber
	Supply(ctx context.Context, blockNumber *big.Int) (*big.Int, error)
}

// LimitStore persists the limit state
type LimitStore interface {
	GetLimit(ctx context.Context, asset string) (*domain.LimitState, error)
	SaveLimit(ctx context.Context, state domain.LimitState) error
}

// Governor derives a time-decaying withdrawal ceiling from observed supply
type Governor interface {
	// Recompute derives a new limit from the observed supply expressed as a decimal in ledger units
	Recompute(asset string, observedSupply string, now time.Time) (domain.LimitState, error)

	// Observe recomputes and stores the limit when the block requires it and returns the current state
	Observe(ctx context.Context, block *types.Block) (*domain.LimitState, error)

	// Current returns the stored limit of the governed asset
	Current(ctx context.Context) (*domain.LimitState, error)
}

// Config holds the configuration for the governor
type Config struct {
	// Asset is the ledger asset id of the governed token
	Asset string
	// Token is the governed token contract
	Token common.Address
	// Pool holds the pooled supply
	Pool common.Address
	// TokenPrecision is the decimals of the token contract
	TokenPrecision int32
	// Divisor is the decimal the supply is divided by
	Divisor string
	// Precision is the number of fractional digits of the limit
	Precision int32
	// Window is how long a computed limit stays valid
	Window time.Duration
}

type governor struct {
	config  Config
	divisor *apd.Decimal
	supply  SupplyReader
	store   LimitStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewGovernor creates a governor for one asset
func NewGovernor(config Config, supply SupplyReader, store LimitStore, m *metrics.Metrics, logger *zap.Logger) (Governor, error) {
	if config.Asset == "" {
		return nil, fmt.Errorf("governed asset is required")
	}
	if config.Window <= 0 {
		return nil, fmt.Errorf("invalid window: %s", config.Window)
	}
	if config.Precision < 0 || config.Precision > amount.MAX_PRECISION {
		return nil, fmt.Errorf("invalid precision: %d", config.Precision)
	}
	if config.TokenPrecision < 0 || config.TokenPrecision > amount.MAX_PRECISION {
		return nil, fmt.Errorf("invalid token precision: %d", config.TokenPrecision)
	}

	divisor, err := amount.Parse(config.Divisor)
	if err != nil {
		return nil, fmt.Errorf("invalid divisor: %w", err)
	}
	if divisor.IsZero() {
		return nil, fmt.Errorf("divisor must be positive")
	}

	return &governor{
		config:  config,
		divisor: divisor,
		supply:  supply,
		store:   store,
		metrics: m,
		logger:  logger,
	}, nil
}

// Recompute returns supply / divisor quantized to the governed precision, rounding half up
func (g *governor) Recompute(asset string, observedSupply string, now time.Time) (domain.LimitState, error) {
	supply, err := amount.Parse(observedSupply)
	if err != nil {
		return domain.LimitState{}, fmt.Errorf("invalid supply: %w", err)
	}

	ctx := apd.BaseContext.WithPrecision(divisionPrecision)
	ctx.Rounding = apd.RoundHalfUp

	var quotient apd.Decimal
	if _, err := ctx.Quo(&quotient, supply, g.divisor); err != nil {
		return domain.LimitState{}, fmt.Errorf("failed to divide supply: %w", err)
	}

	var limit apd.Decimal
	if _, err := ctx.Quantize(&limit, &quotient, -g.config.Precision); err != nil {
		return domain.LimitState{}, fmt.Errorf("failed to quantize limit: %w", err)
	}

	return domain.LimitState{
		Asset:        asset,
		CurrentLimit: limit.Text('f'),
		ValidUntil:   now.Add(g.config.Window).UTC(),
	}, nil
}

// Observe uses the block timestamp as the clock so every notary derives the same validity window
func (g *governor) Observe(ctx context.Context, block *types.Block) (*domain.LimitState, error) {
	state, err := g.store.GetLimit(ctx, g.config.Asset)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal limit: %w", err)
	}

	now := time.Unix(int64(block.Time()), 0).UTC() //nolint:gosec,G115
	var reason string
	switch {
	case state == nil:
		reason = ReasonInitial
	case state.Expired(now):
		reason = ReasonExpired
	case g.changesSupply(block):
		reason = ReasonSupplyChanged
	default:
		return state, nil
	}

	supply, err := g.supply.Supply(ctx, block.Number())
	if err != nil {
		return nil, fmt.Errorf("failed to read supply: %w", err)
	}
	observed, err := amount.FromBaseUnits(supply, g.config.TokenPrecision)
	if err != nil {
		return nil, fmt.Errorf("failed to convert supply: %w", err)
	}

	next, err := g.Recompute(g.config.Asset, observed, now)
	if err != nil {
		return nil, err
	}
	if err := g.store.SaveLimit(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save withdrawal limit: %w", err)
	}

	g.metrics.LimitRecomputations.WithLabelValues(g.config.Asset, reason).Inc()
	g.metrics.SetWithdrawalLimit(g.config.Asset, next.CurrentLimit)
	g.logger.Info("Withdrawal limit recomputed",
		zap.String("asset", g.config.Asset),
		zap.String("reason", reason),
		zap.String("supply", observed),
		zap.String("limit", next.CurrentLimit),
		zap.Time("valid_until", next.ValidUntil),
		zap.Uint64("block", block.NumberU64()),
	)

	return &next, nil
}

// changesSupply reports whether any transaction of the block targets the token or the pool
func (g *governor) changesSupply(block *types.Block) bool {
	for _, tx := range block.Transactions() {
		to := tx.To()
		if to == nil {
			continue
		}
		if *to == g.config.Token || *to == g.config.Pool {
			return true
		}
	}
	return false
}

func (g *governor) Current(ctx context.Context) (*domain.LimitState, error) {
	return g.store.GetLimit(ctx, g.config.Asset)
}
