package transactions

import (
	"context"
	"errors"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/async"
)

// DefaultPollInterval is how often WaitMined asks the node for a receipt.
const DefaultPollInterval = 2 * time.Second

var errStillPending = errors.New("transaction is pending")

// Watcher polls for a transaction receipt until the transaction is mined or
// the context expires.
type Watcher struct {
	client       ReceiptProvider
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewWatcher(client ReceiptProvider, pollInterval time.Duration, logger *zap.Logger) *Watcher {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Watcher{
		client:       client,
		pollInterval: pollInterval,
		logger:       logger.Named("txwatcher"),
	}
}

// WaitMined blocks until the transaction is mined and returns its receipt.
// The caller's context bounds the wait; on expiry the context error is
// returned and the transaction may still confirm later.
func (w *Watcher) WaitMined(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	cmd := &watchTransactionCommand{
		client: w.client,
		hash:   hash,
		logger: w.logger,
	}

	err := async.FiniteCommand{
		Interval: w.pollInterval,
		Runable:  cmd.Run,
	}.Run(ctx)
	if err != nil {
		return nil, err
	}
	return cmd.receipt, nil
}

type watchTransactionCommand struct {
	client  ReceiptProvider
	hash    common.Hash
	logger  *zap.Logger
	receipt *gethtypes.Receipt
}

func (c *watchTransactionCommand) Run(ctx context.Context) error {
	requestCtx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(requestCtx, c.hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return errStillPending
		}
		c.logger.Debug("receipt lookup failed", zap.Stringer("hash", c.hash), zap.Error(err))
		return err
	}

	c.receipt = receipt
	return nil
}
