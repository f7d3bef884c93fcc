package quotes

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
)

func sampleRequest() Request {
	return Request{
		ChainID:     1,
		TokenIn:     common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		TokenOut:    common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		AmountIn:    &bigint.BigInt{Int: big.NewInt(1000000)},
		SlippageBps: 50,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(time.Minute)
	defer cache.Stop()

	request := sampleRequest()
	require.Nil(t, cache.Get(request))

	quote := quoteWithAmountOut(42)
	cache.Put(request, quote)

	require.Same(t, quote, cache.Get(request))
}

func TestCacheKeyCoversEveryField(t *testing.T) {
	cache := NewCache(time.Minute)
	defer cache.Stop()

	cache.Put(sampleRequest(), quoteWithAmountOut(1))

	cases := []struct {
		name   string
		mutate func(r Request) Request
	}{
		{"chainID", func(r Request) Request { r.ChainID = 10; return r }},
		{"tokenIn", func(r Request) Request { r.TokenIn = common.HexToAddress("0x01"); return r }},
		{"tokenOut", func(r Request) Request { r.TokenOut = common.HexToAddress("0x02"); return r }},
		{"amountIn", func(r Request) Request { r.AmountIn = &bigint.BigInt{Int: big.NewInt(7)}; return r }},
		{"slippageBps", func(r Request) Request { r.SlippageBps = 100; return r }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Nil(t, cache.Get(tc.mutate(sampleRequest())))
		})
	}

	// An equal request built from scratch still hits.
	require.NotNil(t, cache.Get(sampleRequest()))
}

func TestCacheExpires(t *testing.T) {
	cache := NewCache(30 * time.Millisecond)
	defer cache.Stop()

	request := sampleRequest()
	cache.Put(request, quoteWithAmountOut(1))
	require.NotNil(t, cache.Get(request))

	time.Sleep(100 * time.Millisecond)
	require.Nil(t, cache.Get(request))
}

func TestCacheReadDoesNotExtendLife(t *testing.T) {
	cache := NewCache(60 * time.Millisecond)
	defer cache.Stop()

	request := sampleRequest()
	cache.Put(request, quoteWithAmountOut(1))

	// Keep reading; the entry must still expire on schedule.
	deadline := time.Now().Add(150 * time.Millisecond)
	for time.Now().Before(deadline) {
		cache.Get(request)
		time.Sleep(10 * time.Millisecond)
	}
	require.Nil(t, cache.Get(request))
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(time.Minute)
	defer cache.Stop()

	cache.Put(sampleRequest(), quoteWithAmountOut(1))
	cache.Clear()
	require.Nil(t, cache.Get(sampleRequest()))
}
