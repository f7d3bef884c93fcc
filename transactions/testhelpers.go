package transactions

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

// MockChainClient is a testify mock for the ChainClient interface.
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, msg, blockNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChainClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) BlockNumber(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gethtypes.Receipt), args.Error(1)
}

func (m *MockChainClient) SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// SignerFunc adapts a function to the Signer interface, which keeps wallet
// behavior in tests down to a closure.
type SignerFunc func(ctx context.Context, chainID uint64, tx *gethtypes.Transaction) (*gethtypes.Transaction, error)

func (f SignerFunc) SignTransaction(ctx context.Context, chainID uint64, tx *gethtypes.Transaction) (*gethtypes.Transaction, error) {
	return f(ctx, chainID, tx)
}

// PassthroughSigner stands in for a wallet that always approves: it returns
// the transaction unchanged.
var PassthroughSigner = SignerFunc(func(_ context.Context, _ uint64, tx *gethtypes.Transaction) (*gethtypes.Transaction, error) {
	return tx, nil
})

// RejectingSigner stands in for a user declining every wallet prompt.
var RejectingSigner = SignerFunc(func(_ context.Context, _ uint64, _ *gethtypes.Transaction) (*gethtypes.Transaction, error) {
	return nil, ErrUserRejected
})
