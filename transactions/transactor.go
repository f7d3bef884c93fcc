package transactions

import (
	"context"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const (
	// rpcCallTimeout bounds every single RPC roundtrip made while building
	// and sending a transaction.
	rpcCallTimeout = 10 * time.Second

	defaultGas = 90000
)

// Transactor assembles and propagates transactions. Signing happens
// elsewhere: callers take the unsigned transaction to a Signer and hand the
// signed result back to SendTransaction.
type Transactor struct {
	chainID uint64
	client  ChainClient
	nonce   *Nonce
	timeout time.Duration
	logger  *zap.Logger
}

func NewTransactor(chainID uint64, client ChainClient, logger *zap.Logger) *Transactor {
	return &Transactor{
		chainID: chainID,
		client:  client,
		nonce:   NewNonce(),
		timeout: rpcCallTimeout,
		logger:  logger.Named("transactor"),
	}
}

func (t *Transactor) ChainID() uint64 {
	return t.chainID
}

// BuildTransaction fills in nonce, fee and gas fields and assembles an
// unsigned transaction. The returned unlock must be called once the caller is
// done sending (or has given up): unlock(true, nonce) records the nonce as
// consumed, unlock(false, 0) releases the address without consuming it.
func (t *Transactor) BuildTransaction(ctx context.Context, args SendTxArgs) (tx *gethtypes.Transaction, unlock UnlockNonceFunc, err error) {
	if !args.Valid() || args.To == nil {
		return nil, nil, ErrInvalidSendTxArgs
	}

	nonce, unlock, err := t.nonce.Next(ctx, t.client, args.From)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			unlock(false, 0)
			unlock = nil
		}
	}()
	if args.Nonce != nil {
		nonce = uint64(*args.Nonce)
	}

	gasPrice := (*big.Int)(args.GasPrice)
	if !args.IsDynamicFeeTx() && args.GasPrice == nil {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()
		gasPrice, err = t.client.SuggestGasPrice(callCtx)
		if err != nil {
			return nil, nil, err
		}
	}

	value := (*big.Int)(args.Value)
	var gas uint64
	if args.Gas != nil {
		gas = uint64(*args.Gas)
	} else {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		to := *args.To
		msg := ethereum.CallMsg{
			From:  args.From,
			To:    &to,
			Value: value,
			Data:  args.GetInput(),
		}
		if args.IsDynamicFeeTx() {
			msg.GasFeeCap = (*big.Int)(args.MaxFeePerGas)
			msg.GasTipCap = (*big.Int)(args.MaxPriorityFeePerGas)
		} else {
			msg.GasPrice = gasPrice
		}
		gas, err = t.client.EstimateGas(callCtx, msg)
		if err != nil {
			return nil, nil, err
		}
		if gas < defaultGas {
			t.logger.Info("default gas will be used because estimated is lower",
				zap.Uint64("estimated", gas), zap.Uint64("default", defaultGas))
			gas = defaultGas
		}
	}

	tx = t.buildTransaction(nonce, value, gas, gasPrice, args)
	return tx, unlock, nil
}

// SendTransaction propagates a signed transaction and returns its hash.
func (t *Transactor) SendTransaction(ctx context.Context, signedTx *gethtypes.Transaction) (common.Hash, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.client.SendTransaction(callCtx, signedTx); err != nil {
		return common.Hash{}, err
	}

	t.logger.Info("transaction sent",
		zap.Stringer("hash", signedTx.Hash()),
		zap.Uint64("nonce", signedTx.Nonce()),
		zap.Uint64("gas", signedTx.Gas()))
	return signedTx.Hash(), nil
}

func (t *Transactor) buildTransaction(nonce uint64, value *big.Int, gas uint64, gasPrice *big.Int, args SendTxArgs) *gethtypes.Transaction {
	to := common.Address(*args.To)
	var txData gethtypes.TxData

	if args.IsDynamicFeeTx() {
		gasTipCap := (*big.Int)(args.MaxPriorityFeePerGas)
		gasFeeCap := (*big.Int)(args.MaxFeePerGas)

		txData = &gethtypes.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(t.chainID),
			Nonce:     nonce,
			Gas:       gas,
			GasTipCap: gasTipCap,
			GasFeeCap: gasFeeCap,
			To:        &to,
			Value:     value,
			Data:      args.GetInput(),
		}
	} else {
		txData = &gethtypes.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     args.GetInput(),
		}
	}

	t.logger.Debug("new transaction",
		zap.Stringer("from", args.From),
		zap.Stringer("to", to),
		zap.Uint64("gas", gas),
		zap.Uint64("nonce", nonce))
	return gethtypes.NewTx(txData)
}
