package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests per route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonix_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	// RequestLatency tracks handler latency per route.
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phonix_http_request_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// AnswersTotal counts scored answers per test kind and verdict.
	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonix_answers_total",
			Help: "Total number of scored answers",
		},
		[]string{"kind", "answered"},
	)

	// IdempotentReplays counts check requests answered from the cache.
	IdempotentReplays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonix_idempotent_replays_total",
			Help: "Total number of check requests replayed from the idempotency cache",
		},
		[]string{"kind"},
	)

	// RateLimited counts rejected requests.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "phonix_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)
