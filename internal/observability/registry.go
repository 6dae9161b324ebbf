package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics
// This replaces direct access to global Prometheus metrics with dependency injection
type MetricsRegistry interface {
	// HTTP Request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Tool metrics
	IncrementToolCalls(tool, outcome string)

	// Preview and validation metrics
	IncrementPreviews(formatType string)
	IncrementValidationFailures(formatType string)

	// Generation metrics
	IncrementGenerationRequests(outcome string)
	RecordGenerationLatency(duration time.Duration)
}

// PrometheusRegistry implements MetricsRegistry using the existing global Prometheus metrics
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

// HTTP Request metrics
func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Tool metrics
func (r *PrometheusRegistry) IncrementToolCalls(tool, outcome string) {
	ToolCallCount.WithLabelValues(tool, outcome).Inc()
}

// Preview and validation metrics
func (r *PrometheusRegistry) IncrementPreviews(formatType string) {
	PreviewCount.WithLabelValues(formatType).Inc()
}

func (r *PrometheusRegistry) IncrementValidationFailures(formatType string) {
	ValidationFailureCount.WithLabelValues(formatType).Inc()
}

// Generation metrics
func (r *PrometheusRegistry) IncrementGenerationRequests(outcome string) {
	GenerationRequests.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRegistry) RecordGenerationLatency(duration time.Duration) {
	GenerationLatency.Observe(duration.Seconds())
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementToolCalls(tool, outcome string)                              {}
func (r *NoOpRegistry) IncrementPreviews(formatType string)                                  {}
func (r *NoOpRegistry) IncrementValidationFailures(formatType string)                        {}
func (r *NoOpRegistry) IncrementGenerationRequests(outcome string)                           {}
func (r *NoOpRegistry) RecordGenerationLatency(duration time.Duration)                       {}
