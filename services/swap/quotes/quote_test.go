package quotes

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
)

func quoteWithAmountOut(amount int64) *Quote {
	return &Quote{
		AmountOut:     &bigint.BigInt{Int: big.NewInt(amount)},
		QuotedAtBlock: 100,
	}
}

func TestMinAmountOut(t *testing.T) {
	quote := quoteWithAmountOut(1000000)

	require.Equal(t, big.NewInt(995000), quote.MinAmountOut(50))
	require.Equal(t, big.NewInt(900000), quote.MinAmountOut(1000))
	require.Equal(t, big.NewInt(1000000), quote.MinAmountOut(0))
	require.Equal(t, big.NewInt(0), quote.MinAmountOut(10000))
}

func TestMinAmountOutRoundsDown(t *testing.T) {
	quote := quoteWithAmountOut(999)

	// 999 * 9950 / 10000 = 994.005
	require.Equal(t, big.NewInt(994), quote.MinAmountOut(50))
}

func TestMinAmountOutWithoutAmount(t *testing.T) {
	quote := &Quote{}
	require.Equal(t, big.NewInt(0), quote.MinAmountOut(50))
}

func TestStaleAt(t *testing.T) {
	quote := quoteWithAmountOut(1)

	require.False(t, quote.StaleAt(100))
	require.False(t, quote.StaleAt(103))
	require.True(t, quote.StaleAt(104))

	// A head behind the quote never counts as stale.
	require.False(t, quote.StaleAt(99))
}
