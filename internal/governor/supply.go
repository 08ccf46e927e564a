package governor

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BalanceReader reads ERC-20 balances
type BalanceReader interface {
	BalanceOf(ctx context.Context, token common.Address, owner common.Address, blockNumber *big.Int) (*big.Int, error)
}

type balanceSupplyReader struct {
	client BalanceReader
	token  common.Address
	pool   common.Address
}

// NewBalanceSupplyReader reads the supply as the token balance of the pool
func NewBalanceSupplyReader(client BalanceReader, token common.Address, pool common.Address) SupplyReader {
	return &balanceSupplyReader{client: client, token: token, pool: pool}
}

func (r *balanceSupplyReader) Supply(ctx context.Context, blockNumber *big.Int) (*big.Int, error) {
	return r.client.BalanceOf(ctx, r.token, r.pool, blockNumber)
}
