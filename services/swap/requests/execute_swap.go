package requests

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/params"
	swapCommon "github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/common"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/routes"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/token"
)

const (
	// MinDeadlineWindow and MaxDeadlineWindow bound how far ahead a swap
	// deadline may sit, in seconds.
	MinDeadlineWindow = 30
	MaxDeadlineWindow = 3600

	// MaxSlippageBps rejects the request, WarnSlippageBps only flags it.
	MaxSlippageBps  = 5000
	WarnSlippageBps = 1000

	// lowOutputRatioBps flags quotes whose guaranteed output is below half
	// of the input, after normalizing decimals.
	lowOutputRatioBps = 5000

	// normalizedDecimals is the common scale amounts are compared at.
	normalizedDecimals = 18
)

// Warning flags a suspicious but still executable request.
type Warning struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// ValidationResult carries the non-fatal findings of a pre-flight check.
type ValidationResult struct {
	Route    *routes.DecodedRoute `json:"route"`
	Warnings []Warning            `json:"warnings"`
}

// ExecuteSwapRequest is the full input of a swap execution.
type ExecuteSwapRequest struct {
	Uuid          string         `json:"uuid"`
	ChainID       uint64         `json:"chainId" validate:"required"`
	AddrFrom      common.Address `json:"addrFrom" validate:"required"`
	TokenIn       *token.Token   `json:"tokenIn" validate:"required"`
	TokenOut      *token.Token   `json:"tokenOut" validate:"required"`
	AmountIn      *hexutil.Big   `json:"amountIn" validate:"required"`
	MinAmountOut  *hexutil.Big   `json:"minAmountOut" validate:"required"`
	SlippageBps   int64          `json:"slippageBps"`
	Deadline      int64          `json:"deadline" validate:"required"`
	RouteBytes    hexutil.Bytes  `json:"routeBytes" validate:"required"`
	QuotedAtBlock uint64         `json:"quotedAtBlock"`
}

// AssertPositiveAmount rejects nil, zero, and negative amounts.
func AssertPositiveAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	return nil
}

// AssertValidDeadline checks that deadline sits inside the execution window
// relative to now. Both are unix seconds.
func AssertValidDeadline(deadline, now int64) error {
	if deadline <= now {
		return ErrDeadlineExpired.WithDetails(fmt.Sprintf(ErrDeadlineExpired.Details, deadline, now))
	}
	if deadline-now < MinDeadlineWindow {
		return ErrDeadlineTooSoon.WithDetails(fmt.Sprintf(ErrDeadlineTooSoon.Details, deadline, MinDeadlineWindow, now))
	}
	if deadline-now > MaxDeadlineWindow {
		return ErrDeadlineTooFar.WithDetails(fmt.Sprintf(ErrDeadlineTooFar.Details, deadline, MaxDeadlineWindow, now))
	}
	return nil
}

// ValidateMinAmountOut checks the guaranteed output against the input. Amounts
// of differently denominated tokens are first normalized to a common scale;
// a guaranteed output below half the input is flagged, not rejected.
func ValidateMinAmountOut(amountIn, minAmountOut *big.Int, inDecimals, outDecimals uint) (*Warning, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrZeroAmountIn
	}
	if minAmountOut == nil || minAmountOut.Sign() <= 0 {
		return nil, ErrZeroMinAmountOut
	}
	normalizedIn := swapCommon.ScaleToDecimals(amountIn, inDecimals, normalizedDecimals)
	normalizedOut := swapCommon.ScaleToDecimals(minAmountOut, outDecimals, normalizedDecimals)
	if normalizedOut.Cmp(swapCommon.BpsShare(normalizedIn, lowOutputRatioBps)) < 0 {
		return &Warning{
			Code:    WarningLowMinimumOutput,
			Details: fmt.Sprintf("minimum output is below %d%% of the input", lowOutputRatioBps/100),
		}, nil
	}
	return nil, nil
}

// ValidateSlippage bounds the slippage tolerance in basis points.
func ValidateSlippage(bps int64) (*Warning, error) {
	if bps < 0 {
		return nil, ErrInvalidSlippage.WithDetails(fmt.Sprintf(ErrInvalidSlippage.Details, bps))
	}
	if bps > MaxSlippageBps {
		return nil, ErrSlippageTooHigh.WithDetails(fmt.Sprintf(ErrSlippageTooHigh.Details, bps, MaxSlippageBps))
	}
	if bps >= WarnSlippageBps {
		return &Warning{
			Code:    WarningHighSlippage,
			Details: fmt.Sprintf("slippage of %d bps risks a poor execution price", bps),
		}, nil
	}
	return nil, nil
}

// Validate runs the whole pre-flight: struct shape, amounts, deadline,
// slippage, and the decoded route's structural invariants. It returns the
// decoded route and the collected warnings on success, the first fatal error
// otherwise.
func (i *ExecuteSwapRequest) Validate(now int64) (*ValidationResult, error) {
	validate := params.NewValidator()
	if err := validate.Struct(i); err != nil {
		return nil, ErrInvalidRequest.WithDetails(err.Error())
	}

	if err := AssertPositiveAmount(i.AmountIn.ToInt()); err != nil {
		return nil, err
	}
	if err := AssertValidDeadline(i.Deadline, now); err != nil {
		return nil, err
	}

	result := &ValidationResult{}
	warning, err := ValidateMinAmountOut(i.AmountIn.ToInt(), i.MinAmountOut.ToInt(), i.TokenIn.Decimals, i.TokenOut.Decimals)
	if err != nil {
		return nil, err
	}
	if warning != nil {
		result.Warnings = append(result.Warnings, *warning)
	}

	warning, err = ValidateSlippage(i.SlippageBps)
	if err != nil {
		return nil, err
	}
	if warning != nil {
		result.Warnings = append(result.Warnings, *warning)
	}

	route, err := routes.Decode(i.RouteBytes)
	if err != nil {
		return nil, err
	}
	var expectedTotal *big.Int
	if route.Split {
		expectedTotal = i.AmountIn.ToInt()
	}
	if err := route.Validate(expectedTotal); err != nil {
		return nil, err
	}
	if err := i.checkRouteEndpoints(route); err != nil {
		return nil, err
	}
	result.Route = route
	return result, nil
}

// checkRouteEndpoints ties the route to the request tokens. Native assets
// enter routes through their wrapped form, so the check applies to ERC-20
// endpoints only.
func (i *ExecuteSwapRequest) checkRouteEndpoints(route *routes.DecodedRoute) error {
	if !i.TokenIn.IsNative() && !token.SameAddress(route.InputToken(), i.TokenIn.Address) {
		return ErrRouteTokenMismatch.WithDetails(
			fmt.Sprintf(ErrRouteTokenMismatch.Details, "input", route.InputToken().Hex(), i.TokenIn.Address.Hex()))
	}
	if !i.TokenOut.IsNative() && !token.SameAddress(route.OutputToken(), i.TokenOut.Address) {
		return ErrRouteTokenMismatch.WithDetails(
			fmt.Sprintf(ErrRouteTokenMismatch.Details, "output", route.OutputToken().Hex(), i.TokenOut.Address.Hex()))
	}
	return nil
}
