package requests

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/routes"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/token"
)

var (
	accountAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	usdcAddr    = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	wethAddr    = common.HexToAddress("0x00000000000000000000000000000000000000e5")
)

func TestAssertPositiveAmount(t *testing.T) {
	require.ErrorIs(t, AssertPositiveAmount(nil), ErrZeroAmount)
	require.ErrorIs(t, AssertPositiveAmount(big.NewInt(0)), ErrZeroAmount)
	require.ErrorIs(t, AssertPositiveAmount(big.NewInt(-5)), ErrZeroAmount)
	require.NoError(t, AssertPositiveAmount(big.NewInt(1)))
}

func TestAssertValidDeadline(t *testing.T) {
	now := int64(1_700_000_000)

	tests := []struct {
		name     string
		deadline int64
		wantErr  error
	}{
		{"in the past", now - 1, ErrDeadlineExpired},
		{"exactly now", now, ErrDeadlineExpired},
		{"one second under the minimum window", now + MinDeadlineWindow - 1, ErrDeadlineTooSoon},
		{"exactly the minimum window", now + MinDeadlineWindow, nil},
		{"exactly the maximum window", now + MaxDeadlineWindow, nil},
		{"one second over the maximum window", now + MaxDeadlineWindow + 1, ErrDeadlineTooFar},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := AssertValidDeadline(tc.deadline, now)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateMinAmountOut(t *testing.T) {
	// 50 USDC in (6 decimals) normalizes to 50e18; the warning threshold
	// sits at half of that.
	amountIn := big.NewInt(50_000_000)
	half := new(big.Int).Mul(big.NewInt(25), big.NewInt(1e18))

	warning, err := ValidateMinAmountOut(big.NewInt(0), big.NewInt(100), 6, 18)
	require.ErrorIs(t, err, ErrZeroAmountIn)
	require.Nil(t, warning)

	warning, err = ValidateMinAmountOut(amountIn, big.NewInt(0), 6, 18)
	require.ErrorIs(t, err, ErrZeroMinAmountOut)
	require.Nil(t, warning)

	// At the threshold exactly there is nothing to flag.
	warning, err = ValidateMinAmountOut(amountIn, half, 6, 18)
	require.NoError(t, err)
	require.Nil(t, warning)

	warning, err = ValidateMinAmountOut(amountIn, new(big.Int).Sub(half, big.NewInt(1)), 6, 18)
	require.NoError(t, err)
	require.NotNil(t, warning)
	require.Equal(t, WarningLowMinimumOutput, warning.Code)

	// Same-decimal pair, comfortably above the threshold.
	warning, err = ValidateMinAmountOut(big.NewInt(100), big.NewInt(95), 18, 18)
	require.NoError(t, err)
	require.Nil(t, warning)
}

func TestValidateSlippage(t *testing.T) {
	tests := []struct {
		name        string
		bps         int64
		wantErr     error
		wantWarning bool
	}{
		{"negative", -1, ErrInvalidSlippage, false},
		{"zero", 0, nil, false},
		{"typical", 50, nil, false},
		{"under warning tier", WarnSlippageBps - 1, nil, false},
		{"warning tier", WarnSlippageBps, nil, true},
		{"maximum", MaxSlippageBps, nil, true},
		{"over maximum", MaxSlippageBps + 1, ErrSlippageTooHigh, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			warning, err := ValidateSlippage(tc.bps)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			if tc.wantWarning {
				require.NotNil(t, warning)
				require.Equal(t, WarningHighSlippage, warning.Code)
			} else {
				require.Nil(t, warning)
			}
		})
	}
}

func encodeRoute(t *testing.T, route *routes.DecodedRoute) hexutil.Bytes {
	t.Helper()
	encoded, err := routes.Encode(route)
	require.NoError(t, err)
	return encoded
}

func singleHopRoute() *routes.DecodedRoute {
	return &routes.DecodedRoute{
		SubRoutes: []routes.SubRoute{{
			Hops: []routes.Hop{{
				Action:   routes.ActionSwapCL,
				TokenIn:  usdcAddr,
				TokenOut: wethAddr,
				CL: &routes.CLPoolParams{
					Token0:      usdcAddr,
					Token1:      wethAddr,
					FeeTier:     500,
					TickSpacing: 10,
					ZeroForOne:  true,
				},
			}},
		}},
	}
}

func validRequest(t *testing.T) *ExecuteSwapRequest {
	return &ExecuteSwapRequest{
		ChainID:      1,
		AddrFrom:     accountAddr,
		TokenIn:      &token.Token{Address: usdcAddr, Symbol: "USDC", Decimals: 6, ChainID: 1},
		TokenOut:     &token.Token{Address: wethAddr, Symbol: "WETH", Decimals: 18, ChainID: 1},
		AmountIn:     (*hexutil.Big)(big.NewInt(50_000_000)),
		MinAmountOut: (*hexutil.Big)(new(big.Int).Mul(big.NewInt(26), big.NewInt(1e18))),
		SlippageBps:  50,
		Deadline:     time.Now().Unix() + 600,
		RouteBytes:   encodeRoute(t, singleHopRoute()),
	}
}

func TestValidateHappyPath(t *testing.T) {
	result, err := validRequest(t).Validate(time.Now().Unix())
	require.NoError(t, err)
	require.NotNil(t, result.Route)
	require.Equal(t, 1, result.Route.HopCount())
	require.Empty(t, result.Warnings)
}

func TestValidateCollectsWarnings(t *testing.T) {
	request := validRequest(t)
	request.SlippageBps = 1500
	request.MinAmountOut = (*hexutil.Big)(big.NewInt(1_000_000_000_000_000_000))

	result, err := request.Validate(time.Now().Unix())
	require.NoError(t, err)

	codes := make([]string, 0, len(result.Warnings))
	for _, warning := range result.Warnings {
		codes = append(codes, warning.Code)
	}
	require.ElementsMatch(t, []string{WarningLowMinimumOutput, WarningHighSlippage}, codes)
}

func TestValidateRejectsMissingFields(t *testing.T) {
	request := validRequest(t)
	request.TokenIn = nil

	_, err := request.Validate(time.Now().Unix())
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestValidateRejectsExpiredDeadline(t *testing.T) {
	request := validRequest(t)
	request.Deadline = time.Now().Unix() - 10

	_, err := request.Validate(time.Now().Unix())
	require.ErrorIs(t, err, ErrDeadlineExpired)
}

func TestValidateRejectsRouteTokenMismatch(t *testing.T) {
	other := common.HexToAddress("0x00000000000000000000000000000000000000f9")

	request := validRequest(t)
	request.TokenIn = &token.Token{Address: other, Symbol: "DAI", Decimals: 18, ChainID: 1}
	_, err := request.Validate(time.Now().Unix())
	require.ErrorIs(t, err, ErrRouteTokenMismatch)

	request = validRequest(t)
	request.TokenOut = &token.Token{Address: other, Symbol: "DAI", Decimals: 18, ChainID: 1}
	_, err = request.Validate(time.Now().Unix())
	require.ErrorIs(t, err, ErrRouteTokenMismatch)
}

func TestValidateNativeInputSkipsEndpointCheck(t *testing.T) {
	// Native assets enter the route through their wrapped form, so the
	// input endpoint is not compared against the request token.
	request := validRequest(t)
	request.TokenIn = &token.Token{Symbol: "ETH", Decimals: 18, ChainID: 1}
	request.TokenOut = &token.Token{Address: usdcAddr, Symbol: "USDC", Decimals: 6, ChainID: 1}
	request.RouteBytes = encodeRoute(t, &routes.DecodedRoute{
		SubRoutes: []routes.SubRoute{{
			Hops: []routes.Hop{{
				Action:   routes.ActionSwapCL,
				TokenIn:  wethAddr,
				TokenOut: usdcAddr,
				CL: &routes.CLPoolParams{
					Token0:      usdcAddr,
					Token1:      wethAddr,
					FeeTier:     500,
					TickSpacing: 10,
					ZeroForOne:  false,
				},
			}},
		}},
	})

	result, err := request.Validate(time.Now().Unix())
	require.NoError(t, err)
	require.NotNil(t, result.Route)
}

func TestValidateRejectsSplitAllocationMismatch(t *testing.T) {
	subRoute := func(feeTier uint32, amount int64) routes.SubRoute {
		return routes.SubRoute{
			Hops: []routes.Hop{{
				Action:   routes.ActionSwapCL,
				TokenIn:  usdcAddr,
				TokenOut: wethAddr,
				CL: &routes.CLPoolParams{
					Token0:      usdcAddr,
					Token1:      wethAddr,
					FeeTier:     feeTier,
					TickSpacing: 10,
					ZeroForOne:  true,
				},
			}},
			AmountIn: &bigint.BigInt{Int: big.NewInt(amount)},
		}
	}

	request := validRequest(t)
	// Allocations sum to 45e6 against a 50e6 input.
	request.RouteBytes = encodeRoute(t, &routes.DecodedRoute{
		Split:     true,
		SubRoutes: []routes.SubRoute{subRoute(500, 30_000_000), subRoute(3000, 15_000_000)},
	})

	_, err := request.Validate(time.Now().Unix())
	require.ErrorIs(t, err, routes.ErrMalformedRoute)
}
