package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "creative_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// MCP tool invocations labelled by tool name and outcome
	ToolCallCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_tool_calls_total",
			Help: "Total MCP tool invocations",
		},
		[]string{"tool", "outcome"},
	)

	// previews rendered, labelled by format type
	PreviewCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_previews_total",
			Help: "Total preview variants rendered",
		},
		[]string{"format_type"},
	)

	// manifests that failed validation, labelled by format type
	ValidationFailureCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_validation_failures_total",
			Help: "Total manifests rejected by validation",
		},
		[]string{"format_type"},
	)

	// generation requests labelled by outcome
	GenerationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_generation_total",
			Help: "Total AI generation requests",
		},
		[]string{"outcome"},
	)

	// latency of generation service calls
	GenerationLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "creative_generation_duration_seconds",
			Help:    "Duration of AI generation requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)

func init() {
	// register all metrics
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		ToolCallCount,
		PreviewCount,
		ValidationFailureCount,
		GenerationRequests,
		GenerationLatency,
	)
}
