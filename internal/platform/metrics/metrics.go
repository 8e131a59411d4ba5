package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Collector counts calls made to the HRMS backend.
type Collector struct {
	totalCalls      uint64
	transportErrors uint64
	unauthorized    uint64
	clientErrors    uint64
	serverErrors    uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

// Record stores one upstream call. A zero status means the call never got a response.
func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalCalls, 1)
	switch {
	case status == 0:
		atomic.AddUint64(&c.transportErrors, 1)
	case status == http.StatusUnauthorized:
		atomic.AddUint64(&c.unauthorized, 1)
		atomic.AddUint64(&c.clientErrors, 1)
	case status >= 500:
		atomic.AddUint64(&c.serverErrors, 1)
	case status >= 400:
		atomic.AddUint64(&c.clientErrors, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalCalls)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"upstreamCallsTotal":     total,
		"upstreamTransportTotal": atomic.LoadUint64(&c.transportErrors),
		"upstreamUnauthorized":   atomic.LoadUint64(&c.unauthorized),
		"upstreamClientErrors":   atomic.LoadUint64(&c.clientErrors),
		"upstreamServerErrors":   atomic.LoadUint64(&c.serverErrors),
		"avgDurationMs":          avg,
		"totalDurationMs":        totalMs,
	}
}
