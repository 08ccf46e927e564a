package addresspool

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// Pool hands out primary chain deposit addresses to ledger accounts.
// An account holds at most one address and an address is owned by at most one account.
//
//go:generate mockgen -source=pool.go -destination=../mocks/address_pool.go -package=mocks -mock_names=Pool=MockAddressPool
type Pool interface {
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
}

type memoryPool struct {
	// accountLocks serializes allocations per account
	accountLocks sync.Map

	freeMu sync.Mutex
	free   []string
	known  map[string]struct{}

	allocMu   sync.RWMutex
	byAccount map[string]string
	byAddress map[string]string
}

// NewMemoryPool creates an in-process pool seeded with the given addresses
func NewMemoryPool(addresses []string) (Pool, error) {
	p := &memoryPool{
		known:     make(map[string]struct{}),
		byAccount: make(map[string]string),
		byAddress: make(map[string]string),
	}
	if _, err := p.AddFree(context.Background(), addresses); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *memoryPool) lockAccount(accountID string) func() {
	v, _ := p.accountLocks.LoadOrStore(accountID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// AddFree seeds free addresses; already known addresses are skipped
func (p *memoryPool) AddFree(_ context.Context, addresses []string) (int, error) {
	for _, address := range addresses {
		if !common.IsHexAddress(address) {
			return 0, fmt.Errorf("invalid address: %s", address)
		}
	}

	p.freeMu.Lock()
	defer p.freeMu.Unlock()

	added := 0
	for _, address := range addresses {
		normalized := domain.NormalizeAddress(address)
		if _, ok := p.known[normalized]; ok {
			continue
		}
		p.known[normalized] = struct{}{}
		p.free = append(p.free, normalized)
		added++
	}
	return added, nil
}

// Allocate pops the oldest free address for the account
func (p *memoryPool) Allocate(_ context.Context, accountID string) (string, error) {
	unlock := p.lockAccount(accountID)
	defer unlock()

	if address, ok := p.addressOf(accountID); ok {
		return "", &domain.AlreadyRegisteredError{AccountID: accountID, Address: address}
	}

	p.freeMu.Lock()
	if len(p.free) == 0 {
		p.freeMu.Unlock()
		return "", domain.ErrNoFreeAddress
	}
	address := p.free[0]
	p.free = p.free[1:]
	p.freeMu.Unlock()

	p.allocMu.Lock()
	p.byAccount[accountID] = address
	p.byAddress[address] = accountID
	p.allocMu.Unlock()

	return address, nil
}

func (p *memoryPool) addressOf(accountID string) (string, bool) {
	p.allocMu.RLock()
	defer p.allocMu.RUnlock()
	address, ok := p.byAccount[accountID]
	return address, ok
}

// AddressOf returns the address allocated to the account
func (p *memoryPool) AddressOf(_ context.Context, accountID string) (string, bool, error) {
	address, ok := p.addressOf(accountID)
	return address, ok, nil
}

// AllocatedCount returns the number of allocated addresses
func (p *memoryPool) AllocatedCount(_ context.Context) (int, error) {
	p.allocMu.RLock()
	defer p.allocMu.RUnlock()
	return len(p.byAccount), nil
}

// FreeCount returns the number of free addresses
func (p *memoryPool) FreeCount(_ context.Context) (int, error) {
	p.freeMu.Lock()
	defer p.freeMu.Unlock()
	return len(p.free), nil
}

// Allocations returns a copy of the address to account mapping
func (p *memoryPool) Allocations(_ context.Context) (map[string]string, error) {
	p.allocMu.RLock()
	defer p.allocMu.RUnlock()
	allocations := make(map[string]string, len(p.byAddress))
	for address, account := range p.byAddress {
		allocations[address] = account
	}
	return allocations, nil
}
