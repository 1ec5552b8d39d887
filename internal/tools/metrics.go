package tools

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storehub_mcp",
		Name:      "tool_calls_total",
		Help:      "Tool invocations by outcome category",
	}, []string{"tool", "category"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storehub_mcp",
		Name:      "tool_duration_seconds",
		Help:      "Tool invocation latency including upstream calls and formatting",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})
)
