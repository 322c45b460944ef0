package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	mu       sync.Mutex
	upstream map[string]*upstreamStats
}

type upstreamStats struct {
	calls      uint64
	failures   uint64
	durationMs uint64
}

func New() *Collector {
	return &Collector{upstream: map[string]*upstreamStats{}}
}

// Record counts one inbound portal request.
func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordUpstream counts one call to the remote API. A zero status means the
// call failed before a response arrived.
func (c *Collector) RecordUpstream(op string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.upstream[op]
	if !ok {
		stats = &upstreamStats{}
		c.upstream[op] = stats
	}
	stats.calls++
	if status == 0 || status >= 400 {
		stats.failures++
	}
	stats.durationMs += uint64(duration.Milliseconds())
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	ops := make([]string, 0, len(c.upstream))
	for op := range c.upstream {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	upstream := make([]map[string]any, 0, len(ops))
	for _, op := range ops {
		stats := c.upstream[op]
		upstream = append(upstream, map[string]any{
			"op":         op,
			"calls":      stats.calls,
			"failures":   stats.failures,
			"durationMs": stats.durationMs,
		})
	}
	c.mu.Unlock()

	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      errs,
		"rateLimitedTotal": limited,
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
		"upstream":         upstream,
	}
}
