package routes

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
)

var (
	testWETH  = common.HexToAddress("0x4200000000000000000000000000000000000006")
	testUSDC  = common.HexToAddress("0x833589fCB6a461FC4608e53D9FA8A93bf37fB2cf")
	testVault = common.HexToAddress("0xC768c589647798a6EE01A91FdE98EF2ed046DBD6")
)

func clHop(in, out common.Address, zeroForOne bool) Hop {
	token0, token1 := in, out
	if !zeroForOne {
		token0, token1 = out, in
	}
	return Hop{
		Action:   ActionSwapCL,
		TokenIn:  in,
		TokenOut: out,
		CL: &CLPoolParams{
			Token0:      token0,
			Token1:      token1,
			FeeTier:     3000,
			TickSpacing: 60,
			ZeroForOne:  zeroForOne,
		},
	}
}

func binHop(in, out common.Address, zeroForOne bool) Hop {
	token0, token1 := in, out
	if !zeroForOne {
		token0, token1 = out, in
	}
	return Hop{
		Action:   ActionSwapBin,
		TokenIn:  in,
		TokenOut: out,
		Bin: &BinPoolParams{
			Token0:     token0,
			Token1:     token1,
			BinStep:    25,
			ZeroForOne: zeroForOne,
		},
	}
}

func wrapHop(in, out, vault common.Address, useBuffer bool) Hop {
	return Hop{
		Action:   ActionWrap,
		TokenIn:  in,
		TokenOut: out,
		Vault:    &VaultParams{Vault: vault, UseBuffer: useBuffer},
	}
}

func TestDecodeWrapHopLayout(t *testing.T) {
	blob := []byte{0x01, 0x02}
	blob = append(blob, testUSDC.Bytes()...)
	blob = append(blob, testVault.Bytes()...)
	blob = append(blob, 0x00, 0x40)
	blob = append(blob, make([]byte, 12)...)
	blob = append(blob, testVault.Bytes()...)
	blob = append(blob, make([]byte, 32)...)

	route, err := Decode(blob)
	require.NoError(t, err)
	require.False(t, route.Split)
	require.Len(t, route.SubRoutes, 1)
	require.Len(t, route.SubRoutes[0].Hops, 1)

	hop := route.SubRoutes[0].Hops[0]
	require.Equal(t, ActionWrap, hop.Action)
	require.Equal(t, testUSDC, hop.TokenIn)
	require.Equal(t, testVault, hop.TokenOut)
	require.NotNil(t, hop.Vault)
	require.Equal(t, testVault, hop.Vault.Vault)
	require.False(t, hop.Vault.UseBuffer)

	encoded, err := Encode(route)
	require.NoError(t, err)
	require.Equal(t, blob, encoded)
}

func TestSingleRouteRoundTrip(t *testing.T) {
	route := &DecodedRoute{
		SubRoutes: []SubRoute{{
			Hops: []Hop{
				clHop(testWETH, testUSDC, true),
				wrapHop(testUSDC, testVault, testVault, true),
			},
		}},
	}
	require.NoError(t, route.Validate(nil))

	encoded, err := Encode(route)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, route, decoded)
}

func TestSplitRouteRoundTrip(t *testing.T) {
	route := &DecodedRoute{
		Split: true,
		SubRoutes: []SubRoute{
			{
				Hops:     []Hop{clHop(testWETH, testUSDC, true)},
				AmountIn: &bigint.BigInt{Int: big.NewInt(600)},
			},
			{
				Hops:     []Hop{binHop(testWETH, testUSDC, true)},
				AmountIn: &bigint.BigInt{Int: big.NewInt(400)},
			},
		},
	}
	require.NoError(t, route.Validate(big.NewInt(1000)))

	encoded, err := Encode(route)
	require.NoError(t, err)
	require.Equal(t, byte(0xFF), encoded[0])
	require.Equal(t, byte(0xFF), encoded[1])
	require.Equal(t, byte(2), encoded[2])

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, route, decoded)
	require.Equal(t, big.NewInt(1000), decoded.TotalAllocation())
}

func TestNegativeTickSpacingRoundTrip(t *testing.T) {
	hop := clHop(testWETH, testUSDC, true)
	hop.CL.TickSpacing = -887272 / 4
	route := &DecodedRoute{SubRoutes: []SubRoute{{Hops: []Hop{hop}}}}

	encoded, err := Encode(route)
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, hop.CL.TickSpacing, decoded.SubRoutes[0].Hops[0].CL.TickSpacing)
}

func TestDecodeMalformed(t *testing.T) {
	valid, err := Encode(&DecodedRoute{
		SubRoutes: []SubRoute{{Hops: []Hop{clHop(testWETH, testUSDC, true)}}},
	})
	require.NoError(t, err)

	dirtyAddress := append([]byte(nil), valid...)
	dirtyAddress[hopHeaderLen+1] = 0xAB // first byte of the token0 word padding

	badBool := append([]byte(nil), valid...)
	badBool[len(badBool)-1] = 0x02

	unknownAction := make([]byte, 1+hopHeaderLen)
	unknownAction[0] = 0x01
	unknownAction[1] = 0x04

	tests := []struct {
		name   string
		data   []byte
		detail string
	}{
		{"empty", nil, "empty route"},
		{"zero hop count", []byte{0x00}, "zero hop count"},
		{"unknown action", unknownAction, "unknown action"},
		{"truncated header", []byte{0x01, 0x00, 0xAA}, "truncated header"},
		{"truncated payload", valid[:len(valid)-1], "truncated payload"},
		{"trailing bytes", append(append([]byte(nil), valid...), 0x00), "trailing bytes"},
		{"dirty address word", dirtyAddress, "dirty upper bytes"},
		{"bad bool word", badBool, "bool word"},
		{"split zero count", []byte{0xFF, 0xFF, 0x00}, "zero sub-route count"},
		{"split truncated header", []byte{0xFF, 0xFF}, "truncated split header"},
		{"split truncated body", []byte{0xFF, 0xFF, 0x01, 0x00, 0x05, 0x01}, "truncated body"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformedRoute)
			require.Contains(t, err.Error(), tc.detail)
		})
	}
}

func TestDecodePayloadLengthMismatch(t *testing.T) {
	blob := []byte{0x01, 0x00}
	blob = append(blob, testWETH.Bytes()...)
	blob = append(blob, testUSDC.Bytes()...)
	blob = append(blob, 0x00, 0x40) // cl params need 192 bytes
	blob = append(blob, make([]byte, 0x40)...)

	_, err := Decode(blob)
	require.ErrorIs(t, err, ErrMalformedRoute)
	require.Contains(t, err.Error(), "cl params need 192 bytes")
}

func TestValidate(t *testing.T) {
	brokenChain := &DecodedRoute{SubRoutes: []SubRoute{{
		Hops: []Hop{
			clHop(testWETH, testUSDC, true),
			wrapHop(testWETH, testVault, testVault, false), // input does not chain
		},
	}}}

	unsortedPair := clHop(testWETH, testUSDC, true)
	unsortedPair.CL.Token0, unsortedPair.CL.Token1 = unsortedPair.CL.Token1, unsortedPair.CL.Token0

	wrongDirection := clHop(testWETH, testUSDC, true)
	wrongDirection.CL.ZeroForOne = false

	zeroVault := wrapHop(testUSDC, testVault, common.Address{}, false)

	splitNoAllocation := &DecodedRoute{
		Split: true,
		SubRoutes: []SubRoute{
			{Hops: []Hop{clHop(testWETH, testUSDC, true)}, AmountIn: &bigint.BigInt{Int: big.NewInt(100)}},
			{Hops: []Hop{binHop(testWETH, testUSDC, true)}},
		},
	}

	tests := []struct {
		name   string
		route  *DecodedRoute
		total  *big.Int
		detail string
	}{
		{"no sub-routes", &DecodedRoute{}, nil, "no sub-routes"},
		{"broken chain", brokenChain, nil, "does not feed"},
		{"unsorted pool pair", &DecodedRoute{SubRoutes: []SubRoute{{Hops: []Hop{unsortedPair}}}}, nil, "not sorted"},
		{"direction mismatch", &DecodedRoute{SubRoutes: []SubRoute{{Hops: []Hop{wrongDirection}}}}, nil, "disagree with pool pair"},
		{"zero vault", &DecodedRoute{SubRoutes: []SubRoute{{Hops: []Hop{zeroVault}}}}, nil, "zero vault"},
		{"missing allocation", splitNoAllocation, nil, "non-positive allocation"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.route.Validate(tc.total)
			require.ErrorIs(t, err, ErrMalformedRoute)
			require.Contains(t, err.Error(), tc.detail)
		})
	}
}

func TestValidateAllocationSum(t *testing.T) {
	route := &DecodedRoute{
		Split: true,
		SubRoutes: []SubRoute{
			{Hops: []Hop{clHop(testWETH, testUSDC, true)}, AmountIn: &bigint.BigInt{Int: big.NewInt(600)}},
			{Hops: []Hop{binHop(testWETH, testUSDC, true)}, AmountIn: &bigint.BigInt{Int: big.NewInt(400)}},
		},
	}
	require.NoError(t, route.Validate(big.NewInt(1000)))

	err := route.Validate(big.NewInt(1001))
	require.ErrorIs(t, err, ErrMalformedRoute)
	require.Contains(t, err.Error(), "allocations sum")
}

func TestRouteHelpers(t *testing.T) {
	route := &DecodedRoute{
		SubRoutes: []SubRoute{{
			Hops: []Hop{
				clHop(testWETH, testUSDC, true),
				wrapHop(testUSDC, testVault, testVault, true),
			},
		}},
	}
	require.Equal(t, 2, route.HopCount())
	require.True(t, route.ContainsSwap())
	require.Equal(t, ActionSwapCL, route.FirstAction())
	require.Equal(t, testWETH, route.InputToken())
	require.Equal(t, testVault, route.OutputToken())
	require.Nil(t, route.TotalAllocation())

	wrapOnly := &DecodedRoute{SubRoutes: []SubRoute{{
		Hops: []Hop{wrapHop(testUSDC, testVault, testVault, false)},
	}}}
	require.False(t, wrapOnly.ContainsSwap())
	require.Equal(t, ActionWrap, wrapOnly.FirstAction())
}
