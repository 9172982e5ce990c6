package api

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Metrics tracks the client's traffic with the server.
// All counters use atomic operations; copies made by WithSessionToken share
// the same Metrics.
type Metrics struct {
	startTime time.Time

	Requests        atomic.Int64 // round trips attempted
	ErrorResponses  atomic.Int64 // non-2xx answers
	TransportErrors atomic.Int64 // requests that got no answer at all
	Logins          atomic.Int64 // successful logins
	FailedLogins    atomic.Int64 // rejected logins

	latencyNanos atomic.Int64 // summed over answered requests
	maxNanos     atomic.Int64
}

// NewMetrics creates a Metrics with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Uptime          string `json:"uptime" yaml:"uptime"`
	Requests        int64  `json:"requests" yaml:"requests"`
	ErrorResponses  int64  `json:"error_responses" yaml:"error_responses"`
	TransportErrors int64  `json:"transport_errors" yaml:"transport_errors"`
	Logins          int64  `json:"logins" yaml:"logins"`
	FailedLogins    int64  `json:"failed_logins" yaml:"failed_logins"`
	AvgLatency      string `json:"avg_latency" yaml:"avg_latency"`
	MaxLatency      string `json:"max_latency" yaml:"max_latency"`
}

func (m *Metrics) observe(d time.Duration) {
	m.latencyNanos.Add(int64(d))
	for {
		cur := m.maxNanos.Load()
		if int64(d) <= cur || m.maxNanos.CompareAndSwap(cur, int64(d)) {
			return
		}
	}
}

// Snapshot returns a read-consistent snapshot of all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	answered := m.Requests.Load() - m.TransportErrors.Load()
	var avg time.Duration
	if answered > 0 {
		avg = time.Duration(m.latencyNanos.Load() / answered)
	}
	return MetricsSnapshot{
		Uptime:          time.Since(m.startTime).Truncate(time.Second).String(),
		Requests:        m.Requests.Load(),
		ErrorResponses:  m.ErrorResponses.Load(),
		TransportErrors: m.TransportErrors.Load(),
		Logins:          m.Logins.Load(),
		FailedLogins:    m.FailedLogins.Load(),
		AvgLatency:      avg.Round(time.Microsecond).String(),
		MaxLatency:      time.Duration(m.maxNanos.Load()).Round(time.Microsecond).String(),
	}
}

// LogSummary writes the counters to the logger at debug level.
func (m *Metrics) LogSummary() {
	s := m.Snapshot()
	slog.Debug("api metrics",
		"uptime", s.Uptime,
		"requests", s.Requests,
		"error_responses", s.ErrorResponses,
		"transport_errors", s.TransportErrors,
		"logins", s.Logins,
		"failed_logins", s.FailedLogins,
		"avg_latency", s.AvgLatency,
		"max_latency", s.MaxLatency,
	)
}

// StartPeriodicLog starts a goroutine that logs metrics every interval.
// It stops when the done channel is closed.
func (m *Metrics) StartPeriodicLog(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.LogSummary()
			}
		}
	}()
}
