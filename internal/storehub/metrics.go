package storehub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storehub",
		Name:      "requests_total",
		Help:      "Total number of StoreHub API requests by outcome category",
	}, []string{"resource", "method", "category"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storehub",
		Name:      "request_duration_seconds",
		Help:      "StoreHub API request latency, including rate limiter wait",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource", "method"})

	rateLimitWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storehub",
		Name:      "rate_limit_wait_seconds",
		Help:      "Time spent waiting for a rate limiter slot",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2},
	})
)
