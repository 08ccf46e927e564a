package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestAddresses creates n distinct pool addresses
func buildTestAddresses(prefix byte, n int) []string {
	addresses := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var addr common.Address
		addr[0] = prefix
		addr[19] = byte(i + 1)
		addresses = append(addresses, addr.Hex())
	}
	return addresses
}

func testTrigger(b byte) string {
	return "0x" + strings.Repeat(fmt.Sprintf("%02x", b), 32)
}

// RunStoreTests runs every store test against the implementation produced by initDB
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := map[string]func(t *testing.T, store Store){
		"AddressPool":     testAddressPool,
		"ReplayGuard":     testReplayGuard,
		"WithdrawalLimit": testWithdrawalLimit,
		"TokenRegistry":   testTokenRegistry,
		"IssuedProofs":    testIssuedProofs,
		"BlockCursor":     testBlockCursor,
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			test(t, store)
		})
	}
}

// =============================================================================
// Test: Address pool
// =============================================================================

func testAddressPool(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("empty pool fails with no free address", func(t *testing.T) {
		_, err := store.Allocate(ctx, "nobody@d3")
		assert.True(t, errors.Is(err, domain.ErrNoFreeAddress))
	})

	addresses := buildTestAddresses(0xaa, 3)

	t.Run("seeding is idempotent", func(t *testing.T) {
		added, err := store.AddFree(ctx, addresses)
		require.NoError(t, err)
		assert.Equal(t, 3, added)

		added, err = store.AddFree(ctx, []string{addresses[0], strings.ToLower(addresses[0])})
		require.NoError(t, err)
		assert.Equal(t, 0, added)

		free, err := store.FreeCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, free)
	})

	t.Run("invalid address is rejected", func(t *testing.T) {
		_, err := store.AddFree(ctx, []string{"not-an-address"})
		assert.Error(t, err)
	})

	var aliceAddress string

	t.Run("allocation moves an address from free to allocated", func(t *testing.T) {
		address, err := store.Allocate(ctx, "alice@d3")
		require.NoError(t, err)
		assert.Contains(t, lowerAll(addresses), address)
		aliceAddress = address

		free, err := store.FreeCount(ctx)
		require.NoError(t, err)
		allocated, err := store.AllocatedCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, free)
		assert.Equal(t, 1, allocated)

		got, ok, err := store.AddressOf(ctx, "alice@d3")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, address, got)
	})

	t.Run("second allocation for the same account reports the existing address", func(t *testing.T) {
		_, err := store.Allocate(ctx, "alice@d3")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAlreadyRegistered))

		var registered *domain.AlreadyRegisteredError
		require.True(t, errors.As(err, &registered))
		assert.Equal(t, aliceAddress, registered.Address)

		allocated, err := store.AllocatedCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, allocated)

		free, err := store.FreeCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, free)
	})

	t.Run("allocations map addresses to accounts", func(t *testing.T) {
		_, err := store.Allocate(ctx, "bob@d3")
		require.NoError(t, err)

		allocations, err := store.Allocations(ctx)
		require.NoError(t, err)
		assert.Len(t, allocations, 2)
		assert.Equal(t, "alice@d3", allocations[aliceAddress])
	})

	t.Run("unknown account has no address", func(t *testing.T) {
		_, ok, err := store.AddressOf(ctx, "carol@d3")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("pool exhaustion", func(t *testing.T) {
		_, err := store.Allocate(ctx, "carol@d3")
		require.NoError(t, err)
		_, err = store.Allocate(ctx, "dave@d3")
		assert.True(t, errors.Is(err, domain.ErrNoFreeAddress))
	})
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}

// =============================================================================
// Test: Replay guard
// =============================================================================

func testReplayGuard(t *testing.T, store Store) {
	ctx := context.Background()
	trigger := testTrigger(0x01)

	used, err := store.IsUsed(ctx, trigger, domain.OperationWithdraw)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, store.TryConsume(ctx, trigger, domain.OperationWithdraw))

	err = store.TryConsume(ctx, trigger, domain.OperationWithdraw)
	assert.True(t, errors.Is(err, domain.ErrAlreadyUsed))

	// case of the hash does not create a second entry
	err = store.TryConsume(ctx, strings.ToUpper(trigger[2:]), domain.OperationWithdraw)
	assert.True(t, errors.Is(err, domain.ErrAlreadyUsed))

	// the same hash for another kind is independent
	require.NoError(t, store.TryConsume(ctx, trigger, domain.OperationMint))

	used, err = store.IsUsed(ctx, trigger, domain.OperationWithdraw)
	require.NoError(t, err)
	assert.True(t, used)
}

// =============================================================================
// Test: Withdrawal limits
// =============================================================================

func testWithdrawalLimit(t *testing.T, store Store) {
	ctx := context.Background()

	state, err := store.GetLimit(ctx, "xor#sora")
	require.NoError(t, err)
	assert.Nil(t, state)

	validUntil := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveLimit(ctx, domain.LimitState{Asset: "xor#sora", CurrentLimit: "552.49", ValidUntil: validUntil}))

	state, err = store.GetLimit(ctx, "xor#sora")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "552.49", state.CurrentLimit)
	assert.True(t, validUntil.Equal(state.ValidUntil))

	later := validUntil.Add(time.Hour)
	require.NoError(t, store.SaveLimit(ctx, domain.LimitState{Asset: "xor#sora", CurrentLimit: "600", ValidUntil: later}))

	state, err = store.GetLimit(ctx, "xor#sora")
	require.NoError(t, err)
	assert.Equal(t, "600", state.CurrentLimit)
	assert.True(t, later.Equal(state.ValidUntil))
}

// =============================================================================
// Test: Token registry
// =============================================================================

func testTokenRegistry(t *testing.T, store Store) {
	ctx := context.Background()

	dai := domain.TokenInfo{
		Address:   "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		AssetID:   "dai#ethereum",
		Precision: 18,
		Anchor:    domain.AnchorPrimary,
	}
	require.NoError(t, store.UpsertToken(ctx, dai))
	require.NoError(t, store.UpsertToken(ctx, domain.TokenInfo{
		Address:   "0x1111111111111111111111111111111111111111",
		AssetID:   "xor#sora",
		Precision: 18,
		Anchor:    domain.AnchorSecondary,
	}))

	dai.Precision = 6
	require.NoError(t, store.UpsertToken(ctx, dai))

	tokens, err := store.ListTokens(ctx)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", tokens[0].Address)
	assert.Equal(t, domain.AnchorSecondary, tokens[0].Anchor)
	assert.Equal(t, "0x6b175474e89094c44da98b954eedeac495271d0f", tokens[1].Address)
	assert.Equal(t, int32(6), tokens[1].Precision)

	assert.Error(t, store.UpsertToken(ctx, domain.TokenInfo{Address: "bad", AssetID: "x#y", Anchor: domain.AnchorPrimary}))
	assert.Error(t, store.UpsertToken(ctx, domain.TokenInfo{Address: dai.Address, AssetID: "x#y", Anchor: "sideways"}))
}

// =============================================================================
// Test: Issued proofs
// =============================================================================

func testIssuedProofs(t *testing.T, store Store) {
	ctx := context.Background()
	trigger := testTrigger(0x02)

	proof, err := store.GetIssuedProof(ctx, domain.OperationWithdraw, trigger)
	require.NoError(t, err)
	assert.Nil(t, proof)

	sig, err := domain.SignatureComponentsFromHex(27, testTrigger(0x11), testTrigger(0x22))
	require.NoError(t, err)
	issued := domain.IssuedProof{
		Kind:        domain.OperationWithdraw,
		TriggerHash: trigger,
		Digest:      common.HexToHash(testTrigger(0x33)),
		Proof: domain.SignedProof{
			Signer:    common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
			Signature: sig,
		},
	}
	require.NoError(t, store.SaveIssuedProof(ctx, issued))

	// the first record wins
	other := issued
	other.Digest = common.HexToHash(testTrigger(0x44))
	require.NoError(t, store.SaveIssuedProof(ctx, other))

	proof, err = store.GetIssuedProof(ctx, domain.OperationWithdraw, trigger)
	require.NoError(t, err)
	require.NotNil(t, proof)
	assert.Equal(t, issued.Digest, proof.Digest)
	assert.Equal(t, issued.Proof.Signer, proof.Proof.Signer)
	assert.Equal(t, sig, proof.Proof.Signature)
	assert.False(t, proof.IssuedAt.IsZero())

	proof, err = store.GetIssuedProof(ctx, domain.OperationMint, trigger)
	require.NoError(t, err)
	assert.Nil(t, proof)
}

// =============================================================================
// Test: Block cursor
// =============================================================================

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	cursor, err := store.GetBlockCursor(ctx, domain.ChainEthereumSepolia)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)

	require.NoError(t, store.SetBlockCursor(ctx, domain.ChainEthereumSepolia, 100))
	require.NoError(t, store.SetBlockCursor(ctx, domain.ChainEthereumSepolia, 101))

	cursor, err = store.GetBlockCursor(ctx, domain.ChainEthereumSepolia)
	require.NoError(t, err)
	assert.Equal(t, uint64(101), cursor)

	cursor, err = store.GetBlockCursor(ctx, domain.ChainEthereumMainnet)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)
}

// =============================================================================
// Test: Concurrent allocation (outside the per-test transaction)
// =============================================================================

func TestPostgreSQLStore_ConcurrentAllocate(t *testing.T) {
	if testDB == nil {
		t.Fatal("Test database not initialized")
	}

	cleanup := func() {
		testDB.Where("1 = 1").Delete(&schema.AddressAllocation{})
	}
	cleanup()
	t.Cleanup(cleanup)

	store := NewPGStore(testDB, adapter.NewClock())
	ctx := context.Background()

	_, err := store.AddFree(ctx, buildTestAddresses(0xbb, 5))
	require.NoError(t, err)

	// 10 accounts race for 5 addresses while every account also races against itself
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string][]string)
		noFree  int
	)
	for i := 0; i < 10; i++ {
		account := fmt.Sprintf("account-%d@d3", i)
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				address, err := store.Allocate(ctx, account)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					results[account] = append(results[account], address)
				case errors.Is(err, domain.ErrNoFreeAddress):
					noFree++
				case errors.Is(err, domain.ErrAlreadyRegistered):
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
	}
	wg.Wait()

	seen := make(map[string]string)
	for account, addresses := range results {
		require.Len(t, addresses, 1, "account %s got more than one address", account)
		owner, dup := seen[addresses[0]]
		require.False(t, dup, "address %s given to %s and %s", addresses[0], owner, account)
		seen[addresses[0]] = account
	}
	assert.Len(t, seen, 5)

	allocated, err := store.AllocatedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, allocated)
}
