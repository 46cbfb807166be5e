// Package price provides TTL-cached USD price lookups with batched
// upstream fetches. On provider failure stale entries are kept and unknown
// symbols stay at 0: availability is preferred over freshness.
package price

import (
	"context"
	"strings"
	"sync"
	"time"

	logger "log/slog"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/metrics"
)

// DefaultTTL is how long a cached quote stays fresh.
const DefaultTTL = 60 * time.Second

// Cache is an instance-owned TTL price cache. Construct one per engine;
// there is no package-level shared state.
type Cache struct {
	provider Provider
	ttl      time.Duration
	log      *logger.Logger

	mu        sync.RWMutex
	quotes    map[string]domain.PriceQuote
	lastFetch time.Time

	// fetchMu serializes upstream refreshes so concurrent readers share
	// one batched provider call instead of issuing duplicates.
	fetchMu sync.Mutex
}

func NewCache(provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		provider: provider,
		ttl:      ttl,
		quotes:   make(map[string]domain.PriceQuote),
		log:      logger.Default().With("component", "price-cache"),
	}
}

// GetPrice returns the USD price for one symbol, 0 if unresolvable.
func (c *Cache) GetPrice(ctx context.Context, symbol string) float64 {
	return c.GetPrices(ctx, []string{symbol})[strings.ToUpper(symbol)]
}

// GetNativeTokenPrice returns the USD price of a chain's native asset.
func (c *Cache) GetNativeTokenPrice(ctx context.Context, chain domain.Chain) float64 {
	return c.GetPrice(ctx, chain.NativeSymbol())
}

// GetPrices resolves USD prices for many symbols at once. Symbols needing
// refresh are batched into a single provider call; the whole batch shares
// one fetch timestamp. Provider failures never propagate: stale entries
// are served and unknown symbols resolve to 0.
func (c *Cache) GetPrices(ctx context.Context, symbols []string) map[string]float64 {
	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}

	if stale := c.staleSymbols(upper); len(stale) > 0 {
		metrics.PriceCacheMisses.Inc()
		c.refresh(ctx, stale)
	} else {
		metrics.PriceCacheHits.Inc()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]float64, len(upper))
	for _, sym := range upper {
		out[sym] = c.quotes[sym].PriceUSD
	}
	return out
}

// Quote returns the full cached quote for a symbol, if present.
func (c *Cache) Quote(symbol string) (domain.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[strings.ToUpper(symbol)]
	return q, ok
}

// ClearCache drops every entry and resets the fetch timestamp to the zero
// sentinel, forcing a full refresh on the next read.
func (c *Cache) ClearCache() {
	c.mu.Lock()
	c.quotes = make(map[string]domain.PriceQuote)
	c.lastFetch = time.Time{}
	c.mu.Unlock()
}

// staleSymbols returns the subset with a known provider id whose cache
// entry is missing or older than the TTL.
func (c *Cache) staleSymbols(symbols []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	var stale []string
	for _, sym := range symbols {
		if _, known := providerIDs[sym]; !known {
			continue
		}
		q, ok := c.quotes[sym]
		if !ok || now.Sub(q.FetchedAt) >= c.ttl {
			stale = append(stale, sym)
		}
	}
	return stale
}

func (c *Cache) refresh(ctx context.Context, symbols []string) {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	// another caller may have refreshed while we waited
	symbols = c.staleSymbols(symbols)
	if len(symbols) == 0 {
		return
	}

	idToSymbol := make(map[string]string, len(symbols))
	ids := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		id := providerIDs[sym]
		idToSymbol[id] = sym
		ids = append(ids, id)
	}

	quotes, err := c.provider.FetchQuotes(ctx, ids)
	if err != nil {
		// keep whatever is cached, even if stale
		c.log.Warn("price refresh failed, serving stale entries", "symbols", symbols, "error", err)
		return
	}

	fetchedAt := time.Now()
	c.mu.Lock()
	for id, q := range quotes {
		sym := idToSymbol[id]
		if sym == "" {
			continue
		}
		c.quotes[sym] = domain.PriceQuote{
			Symbol:    sym,
			PriceUSD:  q.PriceUSD,
			Change24h: q.Change24h,
			FetchedAt: fetchedAt,
		}
	}
	c.lastFetch = fetchedAt
	c.mu.Unlock()
}
