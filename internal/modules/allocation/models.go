package allocation

import "strings"

// Request is the allocation request body: an exchange identifier and an
// ordered list of symbols. Symbol order is significant — it defines both
// the cache key and the column order of the returned weights.
type Request struct {
	Exchange string   `json:"exchange"`
	Symbols  []string `json:"symbols"`
}

// Response carries the allocation weights plus whether they were served
// from cache.
type Response struct {
	OptimalWeights []float64 `json:"optimal_weights"`
	Cached         bool      `json:"cached"`
}

// CacheKey canonicalizes an (exchange, symbols) pair into the cache key.
// The join is order-sensitive: callers must pass a stable symbol ordering
// for cache hits to be meaningful.
func CacheKey(exchange string, symbols []string) string {
	return exchange + "|" + strings.Join(symbols, ",")
}
