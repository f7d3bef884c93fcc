package swap

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/execution"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/history"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/quotes"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/requests"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/routes"
)

func NewAPI(s *Service) *API {
	return &API{s}
}

// API is exposed to the frontend over RPC.
type API struct {
	s *Service
}

// GetQuote returns the current route and pricing for a prospective swap.
func (api *API) GetQuote(ctx context.Context, request quotes.Request) (*quotes.Quote, error) {
	return api.s.GetQuote(ctx, request)
}

// DecodeRoute expands packed route calldata so the frontend can display the
// hops a swap will take.
func (api *API) DecodeRoute(ctx context.Context, routeBytes hexutil.Bytes) (*routes.DecodedRoute, error) {
	return api.s.DecodeRoute(routeBytes)
}

// ValidateBeforeExecution runs the execution pre-flight checks and returns
// the decoded route with any warnings, without executing anything.
func (api *API) ValidateBeforeExecution(ctx context.Context, request *requests.ExecuteSwapRequest) (*requests.ValidationResult, error) {
	return api.s.ValidateBeforeExecution(request)
}

// ExecuteSwap starts a swap execution and returns its uuid. Progress arrives
// through swap execution events; ExecutionStatus answers polls.
func (api *API) ExecuteSwap(ctx context.Context, request *requests.ExecuteSwapRequest) (string, error) {
	return api.s.ExecuteSwap(ctx, request)
}

// ExecutionStatus reports the state of a running or past execution.
func (api *API) ExecutionStatus(ctx context.Context, uuid string) (*execution.Status, error) {
	return api.s.ExecutionStatus(uuid)
}

// GetExecutionHistory lists an account's executions on a chain, newest first.
func (api *API) GetExecutionHistory(ctx context.Context, chainID uint64, account common.Address, limit int) ([]*history.Record, error) {
	return api.s.GetExecutionHistory(chainID, account, limit)
}

// CheckTransaction re-checks a submitted transaction against the chain and
// resolves its history record once a receipt exists.
func (api *API) CheckTransaction(ctx context.Context, chainID uint64, hash common.Hash) (*history.Record, error) {
	return api.s.CheckTransaction(ctx, chainID, hash)
}

// Reset returns a finished execution's machine to idle.
func (api *API) Reset(ctx context.Context, uuid string) error {
	return api.s.Reset(uuid)
}
