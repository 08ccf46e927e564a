package governor_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/governor"
	"github.com/feral-file/notary-bridge/internal/metrics"
	"github.com/feral-file/notary-bridge/internal/mocks"
)

var (
	tokenAddress = common.HexToAddress("0x40fd72257597aa14c7231a7b1aaa29fce868f677")
	poolAddress  = common.HexToAddress("0x3c7b16a8b0c4b7c1a5f7e2a1d9b1a6f0e3c9d2b4")
	blockTime    = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func testConfig() governor.Config {
	return governor.Config{
		Asset:          "xor#sora",
		Token:          tokenAddress,
		Pool:           poolAddress,
		TokenPrecision: 18,
		Divisor:        "905",
		Precision:      2,
		Window:         24 * time.Hour,
	}
}

type testGovernorMocks struct {
	ctrl   *gomock.Controller
	supply *mocks.MockSupplyReader
	store  *mocks.MockLimitStore
}

func setupTestGovernor(t *testing.T, config governor.Config) (governor.Governor, *testGovernorMocks) {
	ctrl := gomock.NewController(t)
	m := &testGovernorMocks{
		ctrl:   ctrl,
		supply: mocks.NewMockSupplyReader(ctrl),
		store:  mocks.NewMockLimitStore(ctrl),
	}
	g, err := governor.NewGovernor(config, m.supply, m.store, metrics.NewNop(), zap.NewNop())
	require.NoError(t, err)
	return g, m
}

func newBlock(number int64, at time.Time, to ...common.Address) *types.Block {
	txs := make([]*types.Transaction, 0, len(to))
	for i, addr := range to {
		txs = append(txs, types.NewTx(&types.LegacyTx{
			Nonce:    uint64(i),
			To:       &addr,
			Value:    big.NewInt(0),
			Gas:      21000,
			GasPrice: big.NewInt(1),
		}))
	}
	header := &types.Header{Number: big.NewInt(number), Time: uint64(at.Unix())}
	return types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: txs})
}

func tokens(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestRecompute(t *testing.T) {
	tests := []struct {
		name      string
		supply    string
		divisor   string
		precision int32
		expected  string
	}{
		{name: "500000 / 905 at 2 digits", supply: "500000", divisor: "905", precision: 2, expected: "552.49"},
		{name: "500000 / 905 at 6 digits rounds half up", supply: "500000", divisor: "905", precision: 6, expected: "552.486188"},
		{name: "500000 / 905 at 0 digits", supply: "500000", divisor: "905", precision: 0, expected: "552"},
		{name: "exact tie rounds up", supply: "1", divisor: "8", precision: 2, expected: "0.13"},
		{name: "below tie rounds down", supply: "1", divisor: "16", precision: 3, expected: "0.063"},
		{name: "fractional supply", supply: "1000.5", divisor: "2", precision: 2, expected: "500.25"},
		{name: "zero supply", supply: "0", divisor: "905", precision: 2, expected: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			config.Divisor = tt.divisor
			config.Precision = tt.precision
			g, _ := setupTestGovernor(t, config)

			state, err := g.Recompute("xor#sora", tt.supply, blockTime)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, state.CurrentLimit)
			assert.Equal(t, "xor#sora", state.Asset)
			assert.Equal(t, blockTime.Add(24*time.Hour), state.ValidUntil)
		})
	}
}

func TestRecompute_InvalidSupply(t *testing.T) {
	g, _ := setupTestGovernor(t, testConfig())

	_, err := g.Recompute("xor#sora", "-5", blockTime)
	assert.Error(t, err)
	_, err = g.Recompute("xor#sora", "", blockTime)
	assert.Error(t, err)
}

func TestNewGovernor_InvalidConfig(t *testing.T) {
	tests := map[string]func(c *governor.Config){
		"zero divisor":    func(c *governor.Config) { c.Divisor = "0" },
		"bad divisor":     func(c *governor.Config) { c.Divisor = "abc" },
		"no window":       func(c *governor.Config) { c.Window = 0 },
		"no asset":        func(c *governor.Config) { c.Asset = "" },
		"negative digits": func(c *governor.Config) { c.Precision = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			config := testConfig()
			mutate(&config)
			_, err := governor.NewGovernor(config, nil, nil, metrics.NewNop(), zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestObserve_InitialComputation(t *testing.T) {
	g, m := setupTestGovernor(t, testConfig())
	ctx := context.Background()
	block := newBlock(100, blockTime)

	expected := domain.LimitState{Asset: "xor#sora", CurrentLimit: "552.49", ValidUntil: blockTime.Add(24 * time.Hour)}

	m.store.EXPECT().GetLimit(ctx, "xor#sora").Return(nil, nil)
	m.supply.EXPECT().Supply(ctx, big.NewInt(100)).Return(tokens(500000), nil)
	m.store.EXPECT().SaveLimit(ctx, expected).Return(nil)

	state, err := g.Observe(ctx, block)
	require.NoError(t, err)
	assert.Equal(t, expected, *state)
}

func TestObserve_KeepsValidState(t *testing.T) {
	g, m := setupTestGovernor(t, testConfig())
	ctx := context.Background()

	existing := &domain.LimitState{Asset: "xor#sora", CurrentLimit: "100.00", ValidUntil: blockTime.Add(time.Hour)}
	m.store.EXPECT().GetLimit(ctx, "xor#sora").Return(existing, nil)

	// an unrelated transaction does not trigger recomputation
	state, err := g.Observe(ctx, newBlock(101, blockTime, common.HexToAddress("0x01")))
	require.NoError(t, err)
	assert.Equal(t, existing, state)
}

func TestObserve_ExpiredState(t *testing.T) {
	g, m := setupTestGovernor(t, testConfig())
	ctx := context.Background()

	existing := &domain.LimitState{Asset: "xor#sora", CurrentLimit: "100.00", ValidUntil: blockTime}
	m.store.EXPECT().GetLimit(ctx, "xor#sora").Return(existing, nil)
	m.supply.EXPECT().Supply(ctx, big.NewInt(102)).Return(tokens(905), nil)
	m.store.EXPECT().SaveLimit(ctx, gomock.Any()).Return(nil)

	state, err := g.Observe(ctx, newBlock(102, blockTime))
	require.NoError(t, err)
	assert.Equal(t, "1.00", state.CurrentLimit)
	assert.Equal(t, blockTime.Add(24*time.Hour), state.ValidUntil)
}

func TestObserve_SupplyChangingTransaction(t *testing.T) {
	for name, target := range map[string]common.Address{"token": tokenAddress, "pool": poolAddress} {
		t.Run(name, func(t *testing.T) {
			g, m := setupTestGovernor(t, testConfig())
			ctx := context.Background()

			existing := &domain.LimitState{Asset: "xor#sora", CurrentLimit: "100.00", ValidUntil: blockTime.Add(time.Hour)}
			m.store.EXPECT().GetLimit(ctx, "xor#sora").Return(existing, nil)
			m.supply.EXPECT().Supply(ctx, big.NewInt(103)).Return(tokens(1810), nil)
			m.store.EXPECT().SaveLimit(ctx, gomock.Any()).Return(nil)

			state, err := g.Observe(ctx, newBlock(103, blockTime, common.HexToAddress("0x01"), target))
			require.NoError(t, err)
			assert.Equal(t, "2.00", state.CurrentLimit)
		})
	}
}

func TestObserve_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("store read", func(t *testing.T) {
		g, m := setupTestGovernor(t, testConfig())
		m.store.EXPECT().GetLimit(ctx, "xor#sora").Return(nil, errors.New("db down"))
		_, err := g.Observe(ctx, newBlock(1, blockTime))
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("supply read", func(t *testing.T) {
		g, m := setupTestGovernor(t, testConfig())
		m.store.EXPECT().GetLimit(ctx, "xor#sora").Return(nil, nil)
		m.supply.EXPECT().Supply(ctx, gomock.Any()).Return(nil, errors.New("rpc timeout"))
		_, err := g.Observe(ctx, newBlock(1, blockTime))
		assert.ErrorContains(t, err, "rpc timeout")
	})

	t.Run("store write", func(t *testing.T) {
		g, m := setupTestGovernor(t, testConfig())
		m.store.EXPECT().GetLimit(ctx, "xor#sora").Return(nil, nil)
		m.supply.EXPECT().Supply(ctx, gomock.Any()).Return(tokens(1), nil)
		m.store.EXPECT().SaveLimit(ctx, gomock.Any()).Return(errors.New("disk full"))
		_, err := g.Observe(ctx, newBlock(1, blockTime))
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestBalanceSupplyReader(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEthereumClient(ctrl)
	reader := governor.NewBalanceSupplyReader(client, tokenAddress, poolAddress)

	client.EXPECT().BalanceOf(gomock.Any(), tokenAddress, poolAddress, big.NewInt(7)).Return(big.NewInt(42), nil)

	supply, err := reader.Supply(context.Background(), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), supply)
}
