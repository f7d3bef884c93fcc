package quotes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
	swapCommon "github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/common"
)

// staleAfterBlocks is how many blocks a quote may trail the chain head
// before it is reported stale.
const staleAfterBlocks = 3

// Request identifies one priced swap. The same fields key the quote cache,
// so two requests differing in any of them never share a cached quote.
type Request struct {
	ChainID     uint64         `json:"chainId"`
	TokenIn     common.Address `json:"tokenIn"`
	TokenOut    common.Address `json:"tokenOut"`
	AmountIn    *bigint.BigInt `json:"amountIn"`
	SlippageBps int64          `json:"slippageBps"`
}

// Quote is the quoter service's answer for a Request. EncodedRoute carries
// the wire-encoded execution route and is handed to the router unchanged.
type Quote struct {
	AmountOut         *bigint.BigInt `json:"amountOut"`
	PriceImpactBps    int64          `json:"priceImpactBps"`
	GasEstimate       uint64         `json:"gasEstimate"`
	QuotedAtTimestamp int64          `json:"quotedAtTimestamp"`
	QuotedAtBlock     uint64         `json:"quotedAtBlock"`
	EncodedRoute      hexutil.Bytes  `json:"encodedRoute"`
	BufferFeeBps      int64          `json:"bufferFeeBps"`
	IsDirectBuffer    bool           `json:"isDirectBuffer"`
}

// MinAmountOut applies the slippage tolerance to the quoted output, rounding
// down.
func (q *Quote) MinAmountOut(slippageBps int64) *big.Int {
	if q.AmountOut == nil || q.AmountOut.Int == nil {
		return big.NewInt(0)
	}
	return swapCommon.AmountAfterBps(q.AmountOut.Int, slippageBps)
}

// StaleAt reports whether the quote trails currentBlock by more than the
// freshness window. Staleness is advisory: callers surface a warning and
// execute anyway.
func (q *Quote) StaleAt(currentBlock uint64) bool {
	if currentBlock <= q.QuotedAtBlock {
		return false
	}
	return currentBlock-q.QuotedAtBlock > staleAfterBlocks
}
