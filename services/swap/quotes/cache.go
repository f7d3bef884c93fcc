package quotes

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jellydator/ttlcache/v3"
)

type cacheKey struct {
	chainID     uint64
	tokenIn     common.Address
	tokenOut    common.Address
	amountIn    string
	slippageBps int64
}

func keyFor(request Request) cacheKey {
	key := cacheKey{
		chainID:     request.ChainID,
		tokenIn:     request.TokenIn,
		tokenOut:    request.TokenOut,
		slippageBps: request.SlippageBps,
	}
	if request.AmountIn != nil && request.AmountIn.Int != nil {
		key.amountIn = request.AmountIn.String()
	}
	return key
}

// Cache holds recently fetched quotes for the freshness window. Reads do not
// extend an entry's life; a quote is only as fresh as its fetch.
type Cache struct {
	entries *ttlcache.Cache[cacheKey, *Quote]
}

func NewCache(ttl time.Duration) *Cache {
	entries := ttlcache.New[cacheKey, *Quote](
		ttlcache.WithTTL[cacheKey, *Quote](ttl),
		ttlcache.WithDisableTouchOnHit[cacheKey, *Quote](),
	)
	go entries.Start()
	return &Cache{entries: entries}
}

func (c *Cache) Get(request Request) *Quote {
	item := c.entries.Get(keyFor(request))
	if item == nil {
		return nil
	}
	return item.Value()
}

func (c *Cache) Put(request Request, quote *Quote) {
	c.entries.Set(keyFor(request), quote, ttlcache.DefaultTTL)
}

// Clear drops every cached quote. Wired as the orchestrator's invalidation
// hook: an executed swap moves pools, so previous prices are void.
func (c *Cache) Clear() {
	c.entries.DeleteAll()
}

func (c *Cache) Stop() {
	c.entries.Stop()
}
