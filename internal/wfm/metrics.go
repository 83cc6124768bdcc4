package wfm

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wfm",
			Subsystem: "client",
			Name:      "fetch_total",
			Help:      "Upstream API fetches by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wfm",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by cache name and outcome",
		},
		[]string{"cache", "outcome"},
	)
)

// RegisterMetrics registers the client's prometheus collectors. Safe to call
// more than once.
func RegisterMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(fetchTotal, cacheRequests)
	})
}
