package observability

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

// Counters tallies conversion, cache, and request events. It implements
// [PipelineHooks], [CacheHooks], and [HTTPHooks]; register it with [Use].
type Counters struct {
	NoopPipelineHooks

	conversions  atomic.Int64
	failures     atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	cachedBytes  atomic.Int64
	requests     atomic.Int64
	serverErrors atomic.Int64
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Conversions  int64 `json:"conversions"`
	Failures     int64 `json:"failures"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	CachedBytes  int64 `json:"cached_bytes"`
	Requests     int64 `json:"requests"`
	ServerErrors int64 `json:"server_errors"`
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters { return &Counters{} }

// Use registers c for all three hook kinds.
func Use(c *Counters) {
	SetPipelineHooks(c)
	SetCacheHooks(c)
	SetHTTPHooks(c)
}

func (c *Counters) OnParseComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	if err != nil {
		c.failures.Add(1)
	}
}

func (c *Counters) OnLayoutComplete(_ context.Context, _ float64, _ time.Duration, err error) {
	if err != nil {
		c.failures.Add(1)
	}
}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	if err != nil {
		c.failures.Add(1)
		return
	}
	c.conversions.Add(1)
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cachedBytes.Add(int64(size))
}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= http.StatusInternalServerError {
		c.serverErrors.Add(1)
	}
}

// Snapshot reads every counter.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Conversions:  c.conversions.Load(),
		Failures:     c.failures.Load(),
		CacheHits:    c.cacheHits.Load(),
		CacheMisses:  c.cacheMisses.Load(),
		CachedBytes:  c.cachedBytes.Load(),
		Requests:     c.requests.Load(),
		ServerErrors: c.serverErrors.Load(),
	}
}
