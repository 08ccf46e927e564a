package extractor_test

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
	"github.com/feral-file/notary-bridge/internal/extractor"
	"github.com/feral-file/notary-bridge/internal/mocks"
)

var (
	masterAddr    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	walletAddr    = common.HexToAddress("0x2000000000000000000000000000000000000002")
	otherWallet   = common.HexToAddress("0x2000000000000000000000000000000000000003")
	primaryToken  = common.HexToAddress("0x3000000000000000000000000000000000000003")
	ledgerToken   = common.HexToAddress("0x3000000000000000000000000000000000000004")
	senderAddr    = common.HexToAddress("0x4000000000000000000000000000000000000004")
	unwatchedAddr = common.HexToAddress("0x5000000000000000000000000000000000000005")
	blockTime     = uint64(1700000000)
)

type testExtractorMocks struct {
	ctrl      *gomock.Controller
	reader    *mocks.MockChainReader
	extractor extractor.Extractor
	watch     *extractor.WatchSet
}

func setupTestExtractor(t *testing.T) *testExtractorMocks {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockChainReader(ctrl)

	watch := extractor.NewWatchSet(masterAddr, map[string]string{
		walletAddr.Hex():  "alice@d3",
		otherWallet.Hex(): "bob@d3",
	}, []domain.TokenInfo{
		{Address: primaryToken.Hex(), AssetID: "dai#ethereum", Precision: 18, Anchor: domain.AnchorPrimary},
		{Address: ledgerToken.Hex(), AssetID: "xor#sora", Precision: 2, Anchor: domain.AnchorSecondary},
	})

	return &testExtractorMocks{
		ctrl:      ctrl,
		reader:    reader,
		extractor: extractor.NewExtractor(reader, extractor.Config{ReceiptConcurrency: 4}, zap.NewNop()),
		watch:     watch,
	}
}

func newTx(nonce uint64, to common.Address, value int64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(value),
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})
}

func newBlock(txs ...*types.Transaction) *types.Block {
	header := &types.Header{Number: big.NewInt(100), Time: blockTime}
	return types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: txs})
}

func receipt(status uint64, logs ...*types.Log) *types.Receipt {
	return &types.Receipt{Status: status, Logs: logs}
}

func transferLog(token, from, to common.Address, value int64, index uint) *types.Log {
	return &types.Log{
		Address: token,
		Topics: []common.Hash{
			extractor.TRANSFER_EVENT_SIGNATURE,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data:  common.LeftPadBytes(big.NewInt(value).Bytes(), 32),
		Index: index,
	}
}

func TestParseBlock_NativeDeposit(t *testing.T) {
	tm := setupTestExtractor(t)
	ctx := context.Background()

	tx := newTx(1, walletAddr, 1234000000000)
	block := newBlock(tx)

	tm.reader.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(receipt(types.ReceiptStatusSuccessful), nil)
	tm.reader.EXPECT().TransactionSender(gomock.Any(), tx, block.Hash(), uint(0)).Return(senderAddr, nil)

	events, err := tm.extractor.ParseBlock(ctx, block, tm.watch)
	require.NoError(t, err)
	require.Len(t, events, 1)

	deposit, ok := events[0].(domain.NativeDeposit)
	require.True(t, ok)
	assert.Equal(t, tx.Hash().Hex(), deposit.TxHash)
	assert.Equal(t, "alice@d3", deposit.AccountID)
	assert.Equal(t, domain.ETHER_ASSET_ID, deposit.Asset)
	assert.Equal(t, "0.000001234", deposit.Amount)
	assert.Equal(t, domain.NormalizeAddress(senderAddr.Hex()), deposit.FromAddress)
	assert.Equal(t, time.Unix(int64(blockTime), 0).UTC(), deposit.Time)
}

func TestParseBlock_NativeDeposit_FailedReceipt(t *testing.T) {
	tm := setupTestExtractor(t)

	tx := newTx(1, walletAddr, 1000)
	tm.reader.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(receipt(types.ReceiptStatusFailed), nil)

	events, err := tm.extractor.ParseBlock(context.Background(), newBlock(tx), tm.watch)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseBlock_NativeDeposit_ZeroValue(t *testing.T) {
	tm := setupTestExtractor(t)

	events, err := tm.extractor.ParseBlock(context.Background(), newBlock(newTx(1, walletAddr, 0)), tm.watch)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseBlock_TokenDeposits(t *testing.T) {
	tm := setupTestExtractor(t)

	tx := newTx(1, primaryToken, 0)
	logs := []*types.Log{
		transferLog(primaryToken, senderAddr, walletAddr, 500, 0),
		transferLog(primaryToken, senderAddr, unwatchedAddr, 700, 1),
		transferLog(primaryToken, senderAddr, otherWallet, 0, 2),
		transferLog(ledgerToken, senderAddr, walletAddr, 900, 3),
		transferLog(primaryToken, senderAddr, otherWallet, 1500000000000000000, 4),
	}
	tm.reader.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(receipt(types.ReceiptStatusSuccessful, logs...), nil)

	events, err := tm.extractor.ParseBlock(context.Background(), newBlock(tx), tm.watch)
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0].(domain.TokenDeposit)
	assert.Equal(t, "alice@d3", first.AccountID)
	assert.Equal(t, "dai#ethereum", first.Asset)
	assert.Equal(t, "0.0000000000000005", first.Amount)
	assert.Equal(t, uint(0), first.LogIndex)
	assert.Equal(t, domain.AnchorPrimary, first.Anchor)
	assert.Equal(t, domain.NormalizeAddress(senderAddr.Hex()), first.FromAddress)

	second := events[1].(domain.TokenDeposit)
	assert.Equal(t, "bob@d3", second.AccountID)
	assert.Equal(t, "1.5", second.Amount)
	assert.Equal(t, uint(4), second.LogIndex)
}

func TestParseBlock_SecondaryAnchoredToken(t *testing.T) {
	tm := setupTestExtractor(t)

	tx := newTx(1, ledgerToken, 0)
	tm.reader.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).
		Return(receipt(types.ReceiptStatusSuccessful, transferLog(ledgerToken, senderAddr, walletAddr, 1250, 0)), nil)

	events, err := tm.extractor.ParseBlock(context.Background(), newBlock(tx), tm.watch)
	require.NoError(t, err)
	require.Len(t, events, 1)

	deposit := events[0].(domain.TokenDeposit)
	assert.Equal(t, domain.AnchorSecondary, deposit.Anchor)
	assert.Equal(t, "xor#sora", deposit.Asset)
	assert.Equal(t, "12.5", deposit.Amount)
}

func TestParseBlock_Registration(t *testing.T) {
	tm := setupTestExtractor(t)

	tx := newTx(1, masterAddr, 0)
	block := newBlock(tx)
	registrationLog := &types.Log{
		Address: masterAddr,
		Topics:  []common.Hash{extractor.REGISTRATION_EVENT_SIGNATURE},
	}
	unrelatedLog := &types.Log{
		Address: masterAddr,
		Topics:  []common.Hash{extractor.TRANSFER_EVENT_SIGNATURE},
	}

	tm.reader.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).
		Return(receipt(types.ReceiptStatusSuccessful, unrelatedLog, registrationLog), nil)
	tm.reader.EXPECT().TransactionSender(gomock.Any(), tx, block.Hash(), uint(0)).Return(senderAddr, nil)
	tm.reader.EXPECT().RegisteredAccount(gomock.Any(), masterAddr, senderAddr).Return("carol@d3", nil)

	events, err := tm.extractor.ParseBlock(context.Background(), block, tm.watch)
	require.NoError(t, err)
	require.Len(t, events, 1)

	registration := events[0].(domain.Registration)
	assert.Equal(t, "carol@d3", registration.AccountID)
	assert.Equal(t, domain.NormalizeAddress(senderAddr.Hex()), registration.ChainAddress)
	assert.Equal(t, domain.EventTypeRegistration, registration.Type())
}

func TestParseBlock_MasterTakesPriority(t *testing.T) {
	tm := setupTestExtractor(t)

	// master is also listed as a wallet; the tx must be handled as a master call only
	tm.watch.Wallets[masterAddr] = "shadow@d3"

	tx := newTx(1, masterAddr, 1000)
	tm.reader.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(receipt(types.ReceiptStatusSuccessful), nil)

	events, err := tm.extractor.ParseBlock(context.Background(), newBlock(tx), tm.watch)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseBlock_PreservesTransactionOrder(t *testing.T) {
	tm := setupTestExtractor(t)

	txs := []*types.Transaction{
		newTx(1, walletAddr, 1),
		newTx(2, unwatchedAddr, 5),
		newTx(3, otherWallet, 2),
		newTx(4, walletAddr, 3),
	}
	block := newBlock(txs...)

	for i, tx := range txs {
		if i == 1 {
			continue
		}
		tm.reader.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(receipt(types.ReceiptStatusSuccessful), nil)
		tm.reader.EXPECT().TransactionSender(gomock.Any(), tx, block.Hash(), uint(i)).Return(senderAddr, nil)
	}

	events, err := tm.extractor.ParseBlock(context.Background(), block, tm.watch)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, txs[0].Hash().Hex(), events[0].Hash())
	assert.Equal(t, txs[2].Hash().Hex(), events[1].Hash())
	assert.Equal(t, txs[3].Hash().Hex(), events[2].Hash())
}

func TestParseBlock_ReceiptErrorFailsBlock(t *testing.T) {
	tm := setupTestExtractor(t)

	tx := newTx(1, walletAddr, 1000)
	tm.reader.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(nil, errors.New("rpc timeout"))

	events, err := tm.extractor.ParseBlock(context.Background(), newBlock(tx), tm.watch)
	require.Error(t, err)
	assert.Nil(t, events)
	assert.Contains(t, err.Error(), "rpc timeout")
}

func TestParseBlock_IgnoresUnwatched(t *testing.T) {
	tm := setupTestExtractor(t)

	events, err := tm.extractor.ParseBlock(context.Background(), newBlock(newTx(1, unwatchedAddr, 1000)), tm.watch)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLoadWatchSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockWatchSource(ctrl)
	ctx := context.Background()

	source.EXPECT().Allocations(ctx).Return(map[string]string{walletAddr.Hex(): "alice@d3"}, nil)
	source.EXPECT().ListTokens(ctx).Return([]domain.TokenInfo{{Address: primaryToken.Hex(), AssetID: "dai#ethereum"}}, nil)

	ws, err := extractor.LoadWatchSet(ctx, masterAddr, source)
	require.NoError(t, err)
	assert.Equal(t, "alice@d3", ws.Wallets[walletAddr])
	assert.Equal(t, "dai#ethereum", ws.Tokens[primaryToken].AssetID)

	source.EXPECT().Allocations(ctx).Return(nil, errors.New("db down"))
	_, err = extractor.LoadWatchSet(ctx, masterAddr, source)
	assert.Error(t, err)
}
