package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type ChainID uint64

const (
	UnknownChainID  uint64 = 0
	EthereumMainnet uint64 = 1
	EthereumSepolia uint64 = 11155111
	BaseMainnet     uint64 = 8453
	ArbitrumMainnet uint64 = 42161
)

// BpsDenominator is the basis-point scale used for slippage and fee math.
const BpsDenominator int64 = 10000

var (
	ZeroAddress     = common.Address{}
	ZeroBigIntValue = big.NewInt(0)
)
