// Package metrics records service metrics. The Prometheus collector is
// exposed on /metrics; NoopMetricsCollector is used in tests and tools.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector receives the measurements taken by services.
type MetricsCollector interface {
	RecordOperationDuration(operation string, d time.Duration)
	RecordOperationResult(operation, result string)
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
	RecordError(operation, kind string)
	RecordPrediction(decision string, probability float64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                         {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                        {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordPrediction(string, float64)              {}

// PrometheusCollector implements MetricsCollector with client_golang vectors.
type PrometheusCollector struct {
	operationDuration *prometheus.HistogramVec
	operationResults  *prometheus.CounterVec
	cacheRequests     *prometheus.CounterVec
	errors            *prometheus.CounterVec
	predictions       *prometheus.CounterVec
	probability       prometheus.Histogram
}

// NewPrometheusCollector creates the fraudgen metrics and registers them on reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fraudgen",
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		operationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fraudgen",
			Name:      "operation_results_total",
			Help:      "Service operation outcomes.",
		}, []string{"operation", "result"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fraudgen",
			Name:      "cache_requests_total",
			Help:      "Cache lookups by outcome.",
		}, []string{"cache", "outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fraudgen",
			Name:      "errors_total",
			Help:      "Errors by operation and kind.",
		}, []string{"operation", "kind"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fraudgen",
			Name:      "predictions_total",
			Help:      "Scored transactions by decision.",
		}, []string{"decision"}),
		probability: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fraudgen",
			Name:      "prediction_probability",
			Help:      "Distribution of scored fraud probabilities.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95},
		}),
	}

	reg.MustRegister(
		c.operationDuration,
		c.operationResults,
		c.cacheRequests,
		c.errors,
		c.predictions,
		c.probability,
	)
	return c
}

func (c *PrometheusCollector) RecordOperationDuration(operation string, d time.Duration) {
	c.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *PrometheusCollector) RecordOperationResult(operation, result string) {
	c.operationResults.WithLabelValues(operation, result).Inc()
}

func (c *PrometheusCollector) RecordCacheHit(cache string) {
	c.cacheRequests.WithLabelValues(cache, "hit").Inc()
}

func (c *PrometheusCollector) RecordCacheMiss(cache string) {
	c.cacheRequests.WithLabelValues(cache, "miss").Inc()
}

func (c *PrometheusCollector) RecordError(operation, kind string) {
	c.errors.WithLabelValues(operation, kind).Inc()
}

func (c *PrometheusCollector) RecordPrediction(decision string, probability float64) {
	c.predictions.WithLabelValues(decision).Inc()
	c.probability.Observe(probability)
}
