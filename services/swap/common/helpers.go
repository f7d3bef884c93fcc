package common

import (
	"math/big"
)

// AmountAfterBps reduces amount by the given basis points, rounding down.
// A nil amount or out-of-range bps yields zero.
func AmountAfterBps(amount *big.Int, bps int64) *big.Int {
	if amount == nil || bps < 0 || bps > BpsDenominator {
		return big.NewInt(0)
	}
	result := new(big.Int).Mul(amount, big.NewInt(BpsDenominator-bps))
	return result.Div(result, big.NewInt(BpsDenominator))
}

// BpsShare returns the bps fraction of amount, rounding down.
func BpsShare(amount *big.Int, bps int64) *big.Int {
	if amount == nil || bps <= 0 {
		return big.NewInt(0)
	}
	result := new(big.Int).Mul(amount, big.NewInt(bps))
	return result.Div(result, big.NewInt(BpsDenominator))
}

// ScaleToDecimals rescales amount from one token's decimals to another's so
// values of differently denominated tokens can be compared.
func ScaleToDecimals(amount *big.Int, fromDecimals, toDecimals uint) *big.Int {
	if amount == nil {
		return big.NewInt(0)
	}
	if fromDecimals == toDecimals {
		return new(big.Int).Set(amount)
	}
	if fromDecimals < toDecimals {
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(toDecimals-fromDecimals)), nil)
		return new(big.Int).Mul(amount, factor)
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(fromDecimals-toDecimals)), nil)
	return new(big.Int).Div(amount, factor)
}
