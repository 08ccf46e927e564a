package replay_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/mocks"
	"github.com/feral-file/notary-bridge/internal/replay"
)

var trigger = "0x" + strings.Repeat("ab", 32)

func TestMemoryGuard(t *testing.T) {
	ctx := context.Background()
	guard := replay.NewMemoryGuard()

	used, err := guard.IsUsed(ctx, trigger, domain.OperationWithdraw)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, guard.TryConsume(ctx, trigger, domain.OperationWithdraw))
	assert.ErrorIs(t, guard.TryConsume(ctx, trigger, domain.OperationWithdraw), domain.ErrAlreadyUsed)
	assert.ErrorIs(t, guard.TryConsume(ctx, strings.ToUpper(trigger[2:]), domain.OperationWithdraw), domain.ErrAlreadyUsed)

	// kinds are tracked independently
	require.NoError(t, guard.TryConsume(ctx, trigger, domain.OperationMint))

	used, err = guard.IsUsed(ctx, trigger, domain.OperationWithdraw)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestMemoryGuard_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	guard := replay.NewMemoryGuard()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := guard.TryConsume(ctx, trigger, domain.OperationWithdraw)
			if err == nil {
				succeeded.Add(1)
				return
			}
			if !errors.Is(err, domain.ErrAlreadyUsed) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
}

func TestRedisGuard_TryConsume(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRedisClient(ctrl)
	guard := replay.NewRedisGuard(client)
	ctx := context.Background()
	expectedKey := "notary:used:withdraw:" + trigger

	client.EXPECT().SetNX(ctx, expectedKey, 1, gomock.Any()).Return(redis.NewBoolResult(true, nil))
	require.NoError(t, guard.TryConsume(ctx, strings.ToUpper(trigger[2:]), domain.OperationWithdraw))

	client.EXPECT().SetNX(ctx, expectedKey, 1, gomock.Any()).Return(redis.NewBoolResult(false, nil))
	assert.ErrorIs(t, guard.TryConsume(ctx, trigger, domain.OperationWithdraw), domain.ErrAlreadyUsed)

	client.EXPECT().SetNX(ctx, expectedKey, 1, gomock.Any()).Return(redis.NewBoolResult(false, errors.New("connection refused")))
	err := guard.TryConsume(ctx, trigger, domain.OperationWithdraw)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrAlreadyUsed))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRedisGuard_IsUsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRedisClient(ctrl)
	guard := replay.NewRedisGuard(client)
	ctx := context.Background()

	client.EXPECT().Exists(ctx, "notary:used:mint:"+trigger).Return(redis.NewIntResult(1, nil))
	used, err := guard.IsUsed(ctx, trigger, domain.OperationMint)
	require.NoError(t, err)
	assert.True(t, used)

	client.EXPECT().Exists(ctx, "notary:used:mint:"+trigger).Return(redis.NewIntResult(0, nil))
	used, err = guard.IsUsed(ctx, trigger, domain.OperationMint)
	require.NoError(t, err)
	assert.False(t, used)
}
