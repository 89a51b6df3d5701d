package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallsTotal counts scoring service calls per endpoint and outcome. The
	// outcome is "ok" or the failure kind.
	CallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonix_client_calls_total",
			Help: "Total number of scoring service calls made by the trainer",
		},
		[]string{"endpoint", "outcome"},
	)

	// CallLatency tracks scoring service call latency per endpoint.
	CallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phonix_client_call_seconds",
			Help:    "Scoring service call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)
