// Package token describes the two legs of a swap pair. The zero address
// stands in for the chain's native asset.
package token

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token identifies an asset on a specific chain. Amounts attached to it
// elsewhere are integer base units scaled by Decimals.
type Token struct {
	Address common.Address `json:"address"`
	Name    string         `json:"name"`
	Symbol  string         `json:"symbol"`
	// Decimals scales base units to display units; USDC carries 6, most
	// ERC-20s 18.
	Decimals uint   `json:"decimals"`
	ChainID  uint64 `json:"chainId"`
}

// IsNative reports whether the token is the chain's native asset rather
// than an ERC-20 contract.
func (t *Token) IsNative() bool {
	return t.Address == (common.Address{})
}

// SameAddress compares addresses case-insensitively on their hex form.
func SameAddress(a, b common.Address) bool {
	return strings.EqualFold(a.Hex(), b.Hex())
}
