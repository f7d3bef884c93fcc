package swap

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/google/uuid"
	"go.uber.org/zap"

	ignisErrors "github.com/0xCicerax/IGNIS-Frontend-sub001/errors"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/logutils"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/params"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/async"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/execution"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/fees"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/history"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/quotes"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/requests"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/routes"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/swapevent"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/swaperrors"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/transactions"
)

const (
	// reconcileInterval spaces the receipt lookups for executions whose
	// outcome is unknown: timed-out tracking or interrupted confirmation.
	reconcileInterval = 30 * time.Second

	// reconcileWindow bounds how far back reconciliation reaches.
	reconcileWindow = 24 * time.Hour

	reconcileBatch = 20

	rpcCallTimeout = 10 * time.Second
)

var (
	ErrChainNotSupported = errors.New("chain is not configured")
	ErrExecutionNotFound = errors.New("execution not found")
	ErrServiceNotStarted = errors.New("swap service is not started")
)

type executionKey struct {
	chainID uint64
	account common.Address
}

// run ties an execution uuid to the machine driving it and the request that
// started it.
type run struct {
	orchestrator *execution.Orchestrator
	request      *requests.ExecuteSwapRequest
}

// Service is the swap pipeline: quoting, validation, execution, history and
// events. One orchestrator exists per account and chain, so an account runs
// at most one execution on a chain at a time.
type Service struct {
	config  *params.ServiceConfig
	store   *history.Store
	feed    *event.Feed
	signer  transactions.Signer
	clients map[uint64]transactions.ChainClient
	quoter  *quotes.Client
	cache   *quotes.Cache
	logger  *zap.Logger

	mu            sync.Mutex
	orchestrators map[executionKey]*execution.Orchestrator
	runs          map[string]*run
	group         *async.Group
	repeater      *transactions.ConditionalRepeater
	started       bool
}

// NewService wires the swap service over an open application database and one
// RPC client per configured chain. A nil logger builds one from the config's
// log settings.
func NewService(config *params.ServiceConfig, db *sql.DB, clients map[uint64]transactions.ChainClient, signer transactions.Signer, feed *event.Feed, logger *zap.Logger) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logutils.ZapLogger(logutils.LoggerSettings{
			Enabled:         config.LogEnabled,
			Level:           config.LogLevel,
			File:            config.LogFile,
			MaxSize:         config.LogMaxSize,
			MaxBackups:      config.LogMaxBackups,
			CompressRotated: config.LogCompressRotated,
		})
	}
	store, err := history.NewStore(db)
	if err != nil {
		return nil, err
	}

	s := &Service{
		config:        config,
		store:         store,
		feed:          feed,
		signer:        signer,
		clients:       clients,
		quoter:        quotes.NewClient(config, logger),
		cache:         quotes.NewCache(time.Duration(config.QuoteTTLOrDefault()) * time.Second),
		logger:        logger.Named("swap"),
		orchestrators: make(map[executionKey]*execution.Orchestrator),
		runs:          make(map[string]*run),
	}
	s.repeater = transactions.NewConditionalRepeater(reconcileInterval, s.reconcileUnresolved)
	return s, nil
}

// Start launches the background workers: the lifecycle group carrying
// execution runs, and the reconciliation sweep picking up transactions left
// unresolved by a previous session.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("swap service already started")
	}
	s.group = async.NewGroup(context.Background())
	s.started = true
	s.repeater.RunUntilDone()
	return nil
}

// Stop cancels in-flight executions and waits for them to settle.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	group := s.group
	s.mu.Unlock()

	s.repeater.Stop()
	group.Stop()
	group.Wait()
	s.cache.Stop()
}

// GetQuote serves from the freshness cache when possible and asks the quoter
// otherwise.
func (s *Service) GetQuote(ctx context.Context, request quotes.Request) (*quotes.Quote, error) {
	if quote := s.cache.Get(request); quote != nil {
		return quote, nil
	}
	quote, err := s.quoter.FetchQuote(ctx, request)
	if err != nil {
		return nil, err
	}
	s.cache.Put(request, quote)
	return quote, nil
}

// DecodeRoute expands packed route calldata into its typed form.
func (s *Service) DecodeRoute(routeBytes hexutil.Bytes) (*routes.DecodedRoute, error) {
	return routes.Decode(routeBytes)
}

// ValidateBeforeExecution runs the execution pre-flight without executing.
func (s *Service) ValidateBeforeExecution(request *requests.ExecuteSwapRequest) (*requests.ValidationResult, error) {
	return request.Validate(time.Now().Unix())
}

// ExecuteSwap validates the request, claims the account's orchestrator on the
// chain and drives the execution in the background. The returned uuid
// identifies the run in status queries, events and history.
func (s *Service) ExecuteSwap(ctx context.Context, request *requests.ExecuteSwapRequest) (string, error) {
	if _, err := request.Validate(time.Now().Unix()); err != nil {
		return "", err
	}
	client, network, err := s.chainFor(request.ChainID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return "", ErrServiceNotStarted
	}
	orch := s.orchestratorLocked(client, network, request.ChainID, request.AddrFrom)
	if orch.Status().State != execution.StateIdle {
		s.mu.Unlock()
		return "", execution.ErrExecutionInProgress
	}
	if request.Uuid == "" {
		request.Uuid = uuid.NewString()
	}
	s.runs[request.Uuid] = &run{orchestrator: orch, request: request}
	group := s.group
	s.mu.Unlock()

	group.Add(func(ctx context.Context) error {
		if err := orch.Execute(ctx, request); err != nil {
			s.logger.Warn("swap execution finished with error",
				zap.String("uuid", request.Uuid), zap.Error(err))
			if errors.Is(err, execution.ErrExecutionInProgress) {
				// Lost the claim to a concurrent request; the machine
				// never adopted this uuid.
				s.mu.Lock()
				delete(s.runs, request.Uuid)
				s.mu.Unlock()
			}
		}
		return nil
	})
	return request.Uuid, nil
}

// ExecutionStatus reports a run's current state. Live runs answer from the
// machine, everything else from history.
func (s *Service) ExecutionStatus(uuid string) (*execution.Status, error) {
	s.mu.Lock()
	current, ok := s.runs[uuid]
	s.mu.Unlock()
	if ok {
		status := current.orchestrator.Status()
		if status.Uuid == uuid {
			return &status, nil
		}
	}

	record, err := s.store.Get(uuid)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrExecutionNotFound
	}
	return statusFromRecord(record), nil
}

// GetExecutionHistory lists an account's past executions on a chain, newest
// first.
func (s *Service) GetExecutionHistory(chainID uint64, account common.Address, limit int) ([]*history.Record, error) {
	return s.store.ListByAccount(chainID, account, limit)
}

// Reset returns a finished run's machine to idle so the account can execute
// again.
func (s *Service) Reset(uuid string) error {
	s.mu.Lock()
	current, ok := s.runs[uuid]
	s.mu.Unlock()
	if !ok {
		return ErrExecutionNotFound
	}
	if err := current.orchestrator.Reset(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.runs, uuid)
	s.mu.Unlock()
	return nil
}

// CheckTransaction is a one-shot reconciliation for a submitted transaction,
// typically after confirmation tracking timed out or the app restarted. Once
// the receipt exists the history record is resolved to its final state; a
// still-pending transaction is reported as-is without touching history.
func (s *Service) CheckTransaction(ctx context.Context, chainID uint64, hash common.Hash) (*history.Record, error) {
	client, _, err := s.chainFor(chainID)
	if err != nil {
		return nil, err
	}

	record, err := s.store.GetByTransactionHash(chainID, hash)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrExecutionNotFound
	}
	if record.State.Terminal() && record.ErrorCode != string(swaperrors.ErrTxTimeout.Code) {
		return record, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()
	receipt, err := client.TransactionReceipt(callCtx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return record, nil
	}
	if err != nil {
		return nil, err
	}

	if receipt.Status == gethtypes.ReceiptStatusFailed {
		record.State = execution.StateFailed
		record.ErrorCode = revertCodeFor(record.RouteBytes)
	} else {
		record.State = execution.StateSuccess
		record.ErrorCode = ""
		s.invalidateAfterSwap(chainID, record.Account)
	}
	record.UpdatedAt = time.Now().Unix()
	if err := s.store.Put(record); err != nil {
		return nil, err
	}

	s.logger.Info("reconciled transaction",
		zap.String("uuid", record.Uuid),
		zap.Stringer("hash", hash),
		zap.String("state", string(record.State)))
	s.notify(swapevent.EventExecutionCompleted, chainID, record.Account, record)
	return record, nil
}

func (s *Service) chainFor(chainID uint64) (transactions.ChainClient, *params.Network, error) {
	network := s.config.NetworkByChainID(chainID)
	client := s.clients[chainID]
	if network == nil || client == nil {
		return nil, nil, ErrChainNotSupported
	}
	return client, network, nil
}

// orchestratorLocked returns the account's orchestrator on a chain, building
// it on first use. Callers hold s.mu.
func (s *Service) orchestratorLocked(client transactions.ChainClient, network *params.Network, chainID uint64, account common.Address) *execution.Orchestrator {
	key := executionKey{chainID: chainID, account: account}
	if orch, ok := s.orchestrators[key]; ok {
		return orch
	}

	orch := execution.NewOrchestrator(*network, client, s.signer,
		fees.NewEstimator(client, s.logger), s.invalidateAfterSwap, s.logger)
	orch.AddObserver(func(status execution.Status) {
		s.onExecutionUpdate(chainID, status)
	})
	s.orchestrators[key] = orch
	return orch
}

// invalidateAfterSwap is the orchestrator's success hook: an executed swap
// moves pool state, so cached quotes are void.
func (s *Service) invalidateAfterSwap(chainID uint64, account common.Address) {
	s.cache.Clear()
	s.logger.Debug("invalidated cached quotes",
		zap.Uint64("chainID", chainID), zap.Stringer("account", account))
}

// onExecutionUpdate bridges orchestrator transitions into history rows and
// feed events.
func (s *Service) onExecutionUpdate(chainID uint64, status execution.Status) {
	s.mu.Lock()
	current, ok := s.runs[status.Uuid]
	s.mu.Unlock()
	if !ok {
		return
	}
	request := current.request

	if err := s.recordStatus(request, status); err != nil {
		s.logger.Warn("recording execution history failed",
			zap.String("uuid", status.Uuid), zap.Error(err))
	}

	s.notify(swapevent.EventExecutionStateChanged, chainID, request.AddrFrom, status)
	if status.State.Terminal() {
		s.notify(swapevent.EventExecutionCompleted, chainID, request.AddrFrom, status)
	}
	if status.Error != nil && status.Error.Code == swaperrors.ErrTxTimeout.Code {
		// The transaction may still land; keep looking for its receipt.
		s.repeater.RunUntilDone()
	}
}

// recordStatus mirrors an execution status into the history store. The
// created timestamp survives updates, everything else follows the machine.
func (s *Service) recordStatus(request *requests.ExecuteSwapRequest, status execution.Status) error {
	now := time.Now().Unix()
	record, err := s.store.Get(status.Uuid)
	if err != nil {
		return err
	}
	if record == nil {
		record = &history.Record{
			Uuid:           status.Uuid,
			ChainID:        request.ChainID,
			Account:        request.AddrFrom,
			TokenIn:        request.TokenIn.Address,
			TokenInSymbol:  request.TokenIn.Symbol,
			TokenOut:       request.TokenOut.Address,
			TokenOutSymbol: request.TokenOut.Symbol,
			AmountIn:       &bigint.BigInt{Int: request.AmountIn.ToInt()},
			MinAmountOut:   &bigint.BigInt{Int: request.MinAmountOut.ToInt()},
			RouteBytes:     request.RouteBytes,
			CreatedAt:      now,
		}
	}
	record.State = status.State
	record.TxHash = status.TransactionHash
	record.ApprovalHash = status.ApprovalHash
	record.ErrorCode = ""
	if status.Error != nil {
		record.ErrorCode = string(status.Error.Code)
	}
	record.UpdatedAt = now
	return s.store.Put(record)
}

func (s *Service) notify(eventType swapevent.EventType, chainID uint64, account common.Address, payload interface{}) {
	if s.feed == nil {
		return
	}
	message, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("marshalling event payload failed", zap.Error(err))
		return
	}
	s.feed.Send(swapevent.Event{
		Type:     eventType,
		ChainID:  chainID,
		Accounts: []common.Address{account},
		Message:  string(message),
		At:       time.Now().Unix(),
	})
}

// reconcileUnresolved sweeps executions whose receipt never arrived. Done
// means nothing is left inside the window; a later timeout restarts the
// sweep.
func (s *Service) reconcileUnresolved(ctx context.Context) bool {
	since := time.Now().Add(-reconcileWindow).Unix()
	records, err := s.store.ListUnresolved(since, reconcileBatch)
	if err != nil {
		s.logger.Warn("listing unresolved executions failed", zap.Error(err))
		return transactions.WorkNotDone
	}
	if len(records) == 0 {
		return transactions.WorkDone
	}

	remaining := len(records)
	for _, record := range records {
		if record.TxHash == nil {
			remaining--
			continue
		}
		resolved, err := s.CheckTransaction(ctx, record.ChainID, *record.TxHash)
		if err != nil {
			s.logger.Warn("reconciling transaction failed",
				zap.String("uuid", record.Uuid), zap.Error(err))
			continue
		}
		if resolved.State.Terminal() && resolved.ErrorCode != string(swaperrors.ErrTxTimeout.Code) {
			remaining--
		}
	}
	if remaining == 0 {
		return transactions.WorkDone
	}
	return transactions.WorkNotDone
}

func revertCodeFor(routeBytes hexutil.Bytes) string {
	route, err := routes.Decode(routeBytes)
	if err != nil {
		return string(swaperrors.ErrSwapReverted.Code)
	}
	return string(swaperrors.Classify(execution.RevertErrorForRoute(route)).Code)
}

func statusFromRecord(record *history.Record) *execution.Status {
	status := &execution.Status{
		Uuid:            record.Uuid,
		State:           record.State,
		TransactionHash: record.TxHash,
		ApprovalHash:    record.ApprovalHash,
	}
	if record.ErrorCode != "" {
		status.Error = &ignisErrors.DomainError{Code: ignisErrors.ErrorCode(record.ErrorCode)}
	}
	return status
}
