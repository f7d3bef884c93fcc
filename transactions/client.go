package transactions

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ChainCaller is the read-only slice of an Ethereum RPC client the swap
// pipeline needs. *ethclient.Client satisfies it.
type ChainCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// ReceiptProvider looks up mined transactions. TransactionReceipt returns
// ethereum.NotFound while the transaction is still pending.
type ReceiptProvider interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
}

// TransactionSender injects signed transactions into the pending pool.
type TransactionSender interface {
	SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error
}

// ChainClient is the full RPC surface used to prepare, send and track
// transactions on a single chain.
type ChainClient interface {
	ChainCaller
	ReceiptProvider
	TransactionSender
}

// Signer obtains a signature for a prepared transaction, typically by
// prompting the user's wallet. Implementations return ErrUserRejected
// (possibly wrapped) when the user declines.
type Signer interface {
	SignTransaction(ctx context.Context, chainID uint64, tx *gethtypes.Transaction) (*gethtypes.Transaction, error)
}
