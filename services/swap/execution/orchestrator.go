package execution

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/contracts/ierc20"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/contracts/swaprouter"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/params"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/fees"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/requests"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/routes"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/swaperrors"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/transactions"
)

const (
	// ConfirmationTimeout bounds how long a submitted transaction is
	// tracked. Expiry means tracking stopped, not that the transaction
	// failed; the hash stays in the status for later reconciliation.
	ConfirmationTimeout = 120 * time.Second

	// rpcCallTimeout bounds the read-only calls made while preparing.
	rpcCallTimeout = 10 * time.Second

	// staleQuoteBlocks mirrors the quote freshness window. Executing
	// against an older quote is allowed, only logged.
	staleQuoteBlocks = 3
)

var (
	// ErrExecutionInProgress is returned by Execute while the machine is
	// away from idle, including terminal states awaiting a reset.
	ErrExecutionInProgress = errors.New("an execution is already in progress")

	// ErrResetDuringExecution is returned by Reset while a run is live. A
	// broadcast transaction cannot be unsent, so a live run must finish.
	ErrResetDuringExecution = errors.New("cannot reset while an execution is in progress")
)

// Invalidator is called once after a successful execution so dependent
// caches (quotes, balances, allowances) can be flushed for the account.
type Invalidator func(chainID uint64, account common.Address)

// Orchestrator drives one swap execution at a time through approval,
// simulation, gas estimation, signing, submission and confirmation. It is
// single-flight: a second Execute is rejected until the current run reaches
// a terminal state and Reset is called.
type Orchestrator struct {
	network    params.Network
	client     transactions.ChainClient
	signer     transactions.Signer
	transactor *transactions.Transactor
	estimator  *fees.Estimator
	invalidate Invalidator
	logger     *zap.Logger

	pollInterval        time.Duration
	confirmationTimeout time.Duration

	mu        sync.Mutex
	status    Status
	observers []Observer
}

func NewOrchestrator(network params.Network, client transactions.ChainClient, signer transactions.Signer, estimator *fees.Estimator, invalidate Invalidator, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		network:             network,
		client:              client,
		signer:              signer,
		transactor:          transactions.NewTransactor(network.ChainID, client, logger),
		estimator:           estimator,
		invalidate:          invalidate,
		logger:              logger.Named("execution"),
		pollInterval:        transactions.DefaultPollInterval,
		confirmationTimeout: ConfirmationTimeout,
		status:              Status{State: StateIdle},
	}
}

// AddObserver registers a callback for every state change. Observers added
// mid-run see only subsequent transitions.
func (o *Orchestrator) AddObserver(observer Observer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, observer)
}

// Status returns a snapshot of the current execution.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Reset returns the machine to idle so a new Execute can start. Valid only
// from idle or a terminal state.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	if o.status.State != StateIdle && !o.status.State.Terminal() {
		o.mu.Unlock()
		return ErrResetDuringExecution
	}
	o.status = Status{State: StateIdle}
	snapshot := o.status
	observers := make([]Observer, len(o.observers))
	copy(observers, o.observers)
	o.mu.Unlock()

	for _, observer := range observers {
		observer(snapshot)
	}
	return nil
}

// Execute runs the request end to end and blocks until a terminal state.
// Pre-flight failures surface synchronously and leave the machine idle;
// anything past that point lands in the status as failed or rejected, with
// the classified error both recorded and returned.
func (o *Orchestrator) Execute(ctx context.Context, request *requests.ExecuteSwapRequest) error {
	if request == nil {
		return errors.New("nil request")
	}

	result, err := request.Validate(time.Now().Unix())
	if err != nil {
		return err
	}

	if err := o.begin(request); err != nil {
		return err
	}

	o.logger.Info("executing swap",
		zap.String("uuid", request.Uuid),
		zap.Uint64("chainID", request.ChainID),
		zap.String("tokenIn", request.TokenIn.Symbol),
		zap.String("tokenOut", request.TokenOut.Symbol),
		zap.String("amountIn", request.AmountIn.ToInt().String()))

	return o.run(ctx, request, result.Route)
}

// begin claims the machine for one run. The request keeps its uuid when the
// caller set one, so retries can correlate across attempts.
func (o *Orchestrator) begin(request *requests.ExecuteSwapRequest) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.State != StateIdle {
		return ErrExecutionInProgress
	}
	if request.Uuid == "" {
		request.Uuid = uuid.NewString()
	}
	o.status = Status{Uuid: request.Uuid, State: StateIdle}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, request *requests.ExecuteSwapRequest, route *routes.DecodedRoute) error {
	o.transition(StatePreparing)
	o.logStaleQuote(ctx, request)

	amountIn := request.AmountIn.ToInt()
	calldata, err := swaprouter.PackExecute(request.RouteBytes, amountIn, request.MinAmountOut.ToInt(), big.NewInt(request.Deadline))
	if err != nil {
		return o.fail(err)
	}

	value := big.NewInt(0)
	if request.TokenIn.IsNative() {
		value = amountIn
	} else if err := o.ensureAllowance(ctx, request, amountIn); err != nil {
		return err
	}

	o.transition(StatePreparingExecution)

	msg := ethereum.CallMsg{
		From:  request.AddrFrom,
		To:    &o.network.RouterAddress,
		Value: value,
		Data:  calldata,
	}
	if _, err := o.callContract(ctx, msg); err != nil {
		// A failing simulation never reaches the wallet.
		return o.fail(err)
	}

	gasLimit, err := o.estimator.EstimateGas(ctx, msg, route)
	if err != nil {
		return o.fail(err)
	}

	if ctx.Err() != nil {
		// Cancelled before any signature was requested.
		return o.fail(swaperrors.ErrUserRejected)
	}

	o.transition(StateAwaitingSignature)

	gas := hexutil.Uint64(gasLimit)
	hash, err := o.signAndSend(ctx, transactions.SendTxArgs{
		From:  request.AddrFrom,
		To:    &o.network.RouterAddress,
		Gas:   &gas,
		Value: (*hexutil.Big)(value),
		Input: calldata,
	})
	if err != nil {
		return o.fail(err)
	}

	o.setTransactionHash(hash)
	o.transition(StatePending)
	o.transition(StateConfirming)

	receipt, err := o.waitConfirmed(ctx, hash)
	if err != nil {
		// The transaction may still land; the hash stays visible.
		return o.fail(swaperrors.ErrTxTimeout)
	}
	if receipt.Status == gethtypes.ReceiptStatusFailed {
		return o.fail(RevertErrorForRoute(route))
	}

	if o.invalidate != nil {
		o.invalidate(request.ChainID, request.AddrFrom)
	}
	o.transition(StateSuccess)

	o.logger.Info("swap confirmed",
		zap.String("uuid", request.Uuid),
		zap.Stringer("hash", hash),
		zap.Uint64("gasUsed", receipt.GasUsed))
	return nil
}

// ensureAllowance checks the router's spending allowance for the input token
// and, when short, drives an exact-amount approval through the same
// sign-submit-confirm steps as the swap itself.
func (o *Orchestrator) ensureAllowance(ctx context.Context, request *requests.ExecuteSwapRequest, amountIn *big.Int) error {
	allowance, err := o.readAllowance(ctx, request.AddrFrom, request.TokenIn.Address)
	if err != nil {
		return o.fail(err)
	}
	if allowance.Cmp(amountIn) >= 0 {
		o.logger.Debug("allowance is sufficient",
			zap.String("allowance", allowance.String()),
			zap.String("amountIn", amountIn.String()))
		return nil
	}

	o.transition(StateAwaitingApproval)

	if ctx.Err() != nil {
		return o.fail(swaperrors.ErrUserRejected)
	}

	calldata, err := ierc20.PackApprove(o.network.RouterAddress, amountIn)
	if err != nil {
		return o.fail(err)
	}

	hash, err := o.signAndSend(ctx, transactions.SendTxArgs{
		From:  request.AddrFrom,
		To:    &request.TokenIn.Address,
		Input: calldata,
	})
	if err != nil {
		return o.fail(err)
	}

	o.setApprovalHash(hash)
	o.transition(StateApproving)

	receipt, err := o.waitConfirmed(ctx, hash)
	if err != nil {
		return o.fail(swaperrors.ErrTxTimeout)
	}
	if receipt.Status == gethtypes.ReceiptStatusFailed {
		return o.fail(swaperrors.ErrApprovalReverted)
	}
	return nil
}

func (o *Orchestrator) readAllowance(ctx context.Context, owner, tokenAddress common.Address) (*big.Int, error) {
	calldata, err := ierc20.PackAllowance(owner, o.network.RouterAddress)
	if err != nil {
		return nil, err
	}
	output, err := o.callContract(ctx, ethereum.CallMsg{
		From: owner,
		To:   &tokenAddress,
		Data: calldata,
	})
	if err != nil {
		return nil, err
	}
	return ierc20.UnpackAllowance(output)
}

// signAndSend builds, signs and propagates one transaction, holding the
// sender's nonce lock for the duration. The nonce is consumed only when the
// whole chain of steps succeeds.
func (o *Orchestrator) signAndSend(ctx context.Context, args transactions.SendTxArgs) (hash common.Hash, err error) {
	tx, unlock, err := o.transactor.BuildTransaction(ctx, args)
	if err != nil {
		return common.Hash{}, err
	}
	defer func() {
		unlock(err == nil, tx.Nonce())
	}()

	signedTx, err := o.signer.SignTransaction(ctx, o.network.ChainID, tx)
	if err != nil {
		return common.Hash{}, err
	}
	return o.transactor.SendTransaction(ctx, signedTx)
}

func (o *Orchestrator) waitConfirmed(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, o.confirmationTimeout)
	defer cancel()

	watcher := transactions.NewWatcher(o.client, o.pollInterval, o.logger)
	return watcher.WaitMined(waitCtx, hash)
}

func (o *Orchestrator) callContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()
	return o.client.CallContract(callCtx, msg, nil)
}

func (o *Orchestrator) logStaleQuote(ctx context.Context, request *requests.ExecuteSwapRequest) {
	if request.QuotedAtBlock == 0 {
		return
	}
	head, err := o.client.BlockNumber(ctx)
	if err != nil || head <= request.QuotedAtBlock {
		return
	}
	if head-request.QuotedAtBlock > staleQuoteBlocks {
		o.logger.Warn("executing against a stale quote",
			zap.String("uuid", request.Uuid),
			zap.Uint64("quotedAtBlock", request.QuotedAtBlock),
			zap.Uint64("headBlock", head))
	}
}

// RevertErrorForRoute attributes an on-chain revert to what the route was
// doing, judged by its leading action.
func RevertErrorForRoute(route *routes.DecodedRoute) error {
	switch route.FirstAction() {
	case routes.ActionWrap:
		return swaperrors.ErrWrapReverted
	case routes.ActionUnwrap:
		return swaperrors.ErrUnwrapReverted
	default:
		return swaperrors.ErrSwapReverted
	}
}

// fail classifies the cause, records it, and finishes the run. A cause the
// classifier attributes to the user declining ends in rejected, everything
// else in failed. A bare context cancellation can only come from the caller
// abandoning the flow, so it counts as a rejection too.
func (o *Orchestrator) fail(cause error) error {
	if errors.Is(cause, context.Canceled) {
		cause = swaperrors.ErrUserRejected
	}
	domainErr := swaperrors.Classify(cause)

	o.mu.Lock()
	o.status.Error = domainErr
	id := o.status.Uuid
	o.mu.Unlock()

	if domainErr.UserRejection {
		o.logger.Info("execution rejected by the user", zap.String("uuid", id))
		o.transition(StateRejected)
	} else {
		o.logger.Warn("execution failed",
			zap.String("uuid", id),
			zap.String("code", string(domainErr.Code)),
			zap.Error(cause))
		o.transition(StateFailed)
	}
	return domainErr
}

// transition moves the machine and notifies observers synchronously, outside
// the lock, so a callback may read Status without deadlocking.
func (o *Orchestrator) transition(state State) {
	o.mu.Lock()
	o.status.State = state
	snapshot := o.status
	observers := make([]Observer, len(o.observers))
	copy(observers, o.observers)
	o.mu.Unlock()

	o.logger.Debug("state changed",
		zap.String("uuid", snapshot.Uuid),
		zap.String("state", string(state)))

	for _, observer := range observers {
		observer(snapshot)
	}
}

func (o *Orchestrator) setTransactionHash(hash common.Hash) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.TransactionHash = &hash
}

func (o *Orchestrator) setApprovalHash(hash common.Hash) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.ApprovalHash = &hash
}
