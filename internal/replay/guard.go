package replay

import (
	"context"
	"fmt"
	"sync"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
)

// Guard records trigger hashes that already produced a signature.
// TryConsume is the only check-and-set: of any number of concurrent calls for the same
// (trigger hash, kind) exactly one succeeds.
//
//go:generate mockgen -source=guard.go -destination=../mocks/replay_guard.go -package=mocks -mock_names=Guard=MockReplayGuard
type Guard interface {
	// TryConsume marks the trigger hash as used for the kind, failing with domain.ErrAlreadyUsed on repeat
	TryConsume(ctx context.Context, triggerHash string, kind domain.OperationKind) error
	// IsUsed reports whether the trigger hash was consumed for the kind
	IsUsed(ctx context.Context, triggerHash string, kind domain.OperationKind) (bool, error)
}

func key(triggerHash string, kind domain.OperationKind) string {
	return fmt.Sprintf("%s:%s", kind, domain.NormalizeHash(triggerHash))
}

// =============================================================================
// Memory
// =============================================================================

type memoryGuard struct {
	mu   sync.Mutex
	used map[string]struct{}
}

// NewMemoryGuard creates a process-local guard
func NewMemoryGuard() Guard {
	return &memoryGuard{used: make(map[string]struct{})}
}

func (g *memoryGuard) TryConsume(_ context.Context, triggerHash string, kind domain.OperationKind) error {
	k := key(triggerHash, kind)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.used[k]; ok {
		return domain.ErrAlreadyUsed
	}
	g.used[k] = struct{}{}
	return nil
}

func (g *memoryGuard) IsUsed(_ context.Context, triggerHash string, kind domain.OperationKind) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.used[key(triggerHash, kind)]
	return ok, nil
}

// =============================================================================
// Redis
// =============================================================================

const redisKeyPrefix = "notary:used:"

type redisGuard struct {
	client adapter.RedisClient
}

// NewRedisGuard creates a guard shared by every process using the same Redis database.
// Keys never expire.
func NewRedisGuard(client adapter.RedisClient) Guard {
	return &redisGuard{client: client}
}

func (g *redisGuard) TryConsume(ctx context.Context, triggerHash string, kind domain.OperationKind) error {
	ok, err := g.client.SetNX(ctx, redisKeyPrefix+key(triggerHash, kind), 1, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to consume trigger hash: %w", err)
	}
	if !ok {
		return domain.ErrAlreadyUsed
	}
	return nil
}

func (g *redisGuard) IsUsed(ctx context.Context, triggerHash string, kind domain.OperationKind) (bool, error) {
	n, err := g.client.Exists(ctx, redisKeyPrefix+key(triggerHash, kind)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check trigger hash: %w", err)
	}
	return n > 0, nil
}
