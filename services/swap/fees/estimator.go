package fees

import (
	"context"

	ethereum "github.com/ethereum/go-ethereum"
	"go.uber.org/zap"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/routes"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/swaperrors"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/transactions"
)

const (
	// IncreaseEstimatedGasFactor pads every estimate against state drift
	// between estimation and inclusion.
	IncreaseEstimatedGasFactor = 1.2

	// MinGasLimit and MaxGasLimit clamp the final gas limit.
	MinGasLimit = 100000
	MaxGasLimit = 2000000

	// Per-action costs summed when the estimation RPC is unreachable. They
	// overshoot deliberately; an underestimate bricks the swap.
	baseRouteGas   = 100000
	clSwapGas      = 160000
	binSwapGas     = 140000
	wrapGas        = 90000
	unwrapGas      = 90000
	fallbackMargin = 50000

	// defaultRouteGas stands in when no decoded route is at hand.
	defaultRouteGas = 360000
)

// Estimator computes transaction gas limits for swap executions.
type Estimator struct {
	client transactions.ChainCaller
	logger *zap.Logger
}

func NewEstimator(client transactions.ChainCaller, logger *zap.Logger) *Estimator {
	return &Estimator{
		client: client,
		logger: logger.Named("fees"),
	}
}

// EstimateGas returns the gas limit for the given call, padded and clamped.
// When the node cannot serve an estimate the limit falls back to route-derived
// constants. A revert during estimation is not an infra failure and is
// returned to the caller untouched.
func (e *Estimator) EstimateGas(ctx context.Context, msg ethereum.CallMsg, route *routes.DecodedRoute) (uint64, error) {
	estimation, err := e.client.EstimateGas(ctx, msg)
	if err != nil {
		if swaperrors.IsRevert(err) {
			return 0, err
		}
		estimation = FallbackGas(route)
		e.logger.Warn("live gas estimation unavailable, using route fallback",
			zap.Uint64("fallback", estimation), zap.Error(err))
	}

	increasedEstimation := float64(estimation) * IncreaseEstimatedGasFactor
	return ClampGasLimit(uint64(increasedEstimation)), nil
}

// FallbackGas sums fixed per-action costs over the route's hops.
func FallbackGas(route *routes.DecodedRoute) uint64 {
	if route == nil || route.HopCount() == 0 {
		return defaultRouteGas
	}

	gas := uint64(baseRouteGas)
	for _, hop := range route.AllHops() {
		switch hop.Action {
		case routes.ActionSwapCL:
			gas += clSwapGas
		case routes.ActionSwapBin:
			gas += binSwapGas
		case routes.ActionWrap:
			gas += wrapGas
		case routes.ActionUnwrap:
			gas += unwrapGas
		}
	}
	return gas + fallbackMargin
}

func ClampGasLimit(gas uint64) uint64 {
	if gas < MinGasLimit {
		return MinGasLimit
	}
	if gas > MaxGasLimit {
		return MaxGasLimit
	}
	return gas
}
