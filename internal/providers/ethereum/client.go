package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
)

const (
	masterABIJSON = `[{"constant":true,"inputs":[{"name":"","type":"address"}],"name":"registeredClients","outputs":[{"name":"","type":"bytes"}],"payable":false,"stateMutability":"view","type":"function"}]`
	erc20ABIJSON  = `[{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`
)

var (
	masterABI = mustParseABI(masterABIJSON)
	erc20ABI  = mustParseABI(erc20ABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid abi: %v", err))
	}
	return parsed
}

// EthereumClient is the primary chain client used by the extractor, the governor and the watcher
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=EthereumClient=MockEthereumClient
type EthereumClient interface {
	// BlockByNumber returns a block by number
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)

	// HeaderByNumber returns a header by number
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)

	// TransactionReceipt returns the receipt of a mined transaction
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// TransactionSender returns the sender of a transaction included in the block
	TransactionSender(ctx context.Context, tx *types.Transaction, blockHash common.Hash, index uint) (common.Address, error)

	// RegisteredAccount reads the ledger account id the master contract holds for a client address
	RegisteredAccount(ctx context.Context, master common.Address, client common.Address) (string, error)

	// BalanceOf reads an ERC20 balance at the given block (nil for latest)
	BalanceOf(ctx context.Context, token common.Address, owner common.Address, blockNumber *big.Int) (*big.Int, error)

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	chainID domain.Chain
	client  adapter.EthClient
	signer  types.Signer
	logger  *zap.Logger
}

// NewClient creates an Ethereum client bound to a chain.
// chainID is the numeric EIP-155 id used to derive transaction senders locally.
func NewClient(chain domain.Chain, chainID *big.Int, client adapter.EthClient, logger *zap.Logger) EthereumClient {
	return &ethereumClient{
		chainID: chain,
		client:  client,
		signer:  types.LatestSignerForChainID(chainID),
		logger:  logger.With(zap.String("chain", string(chain))),
	}
}

// BlockByNumber returns a block by number
func (c *ethereumClient) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	return c.client.BlockByNumber(ctx, number)
}

// HeaderByNumber returns a header by number
func (c *ethereumClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return c.client.HeaderByNumber(ctx, number)
}

// TransactionReceipt returns the receipt of a mined transaction
func (c *ethereumClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

// TransactionSender recovers the sender locally and falls back to the node
func (c *ethereumClient) TransactionSender(ctx context.Context, tx *types.Transaction, blockHash common.Hash, index uint) (common.Address, error) {
	sender, err := types.Sender(c.signer, tx)
	if err == nil {
		return sender, nil
	}

	c.logger.Debug("Local sender recovery failed, asking node",
		zap.String("txHash", tx.Hash().Hex()),
		zap.Error(err))

	sender, err = c.client.TransactionSender(ctx, tx, blockHash, index)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get sender of %s: %w", tx.Hash().Hex(), err)
	}
	return sender, nil
}

// RegisteredAccount calls registeredClients(address) on the master contract
func (c *ethereumClient) RegisteredAccount(ctx context.Context, master common.Address, client common.Address) (string, error) {
	data, err := masterABI.Pack("registeredClients", client)
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &master,
		Data: data,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call contract: %w", err)
	}

	var accountID []byte
	if err := masterABI.UnpackIntoInterface(&accountID, "registeredClients", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return string(accountID), nil
}

// BalanceOf calls balanceOf(owner) on an ERC20 contract
func (c *ethereumClient) BalanceOf(ctx context.Context, token common.Address, owner common.Address, blockNumber *big.Int) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &token,
		Data: data,
	}, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}

	var balance *big.Int
	if err := erc20ABI.UnpackIntoInterface(&balance, "balanceOf", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	return balance, nil
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}
