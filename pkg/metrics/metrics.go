// Package metrics collects Prometheus metrics for the inventory service.
//
// # Metric types in use
//
//   - Counter: monotonically increasing totals (requests, rolls created, meters sold)
//   - Gauge: instantaneous values (requests in progress)
//   - Histogram: distributions (request latency, sale registration latency)
//
// # Usage
//
//	// 1. Register once at startup
//	metrics.InitMetrics()
//
//	// 2. Expose the registry
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. Record from business code
//	start := time.Now()
//	...
//	metrics.IncCounter(metrics.SalesRegisteredTotal)
//	metrics.ObserveHistogram(metrics.SaleRegistrationDuration, time.Since(start).Seconds())
//
// # Naming
//
//  1. Counters end in _total (sales_registered_total)
//  2. Histograms end in their unit (sale_registration_duration_seconds)
//  3. Labels must have low cardinality: reason, method and route template are
//     fine, roll ids are not
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initOnce guards against registering twice in the default registry
	initOnce sync.Once

	// HTTP request metrics

	// HTTPRequestsTotal counts HTTP requests.
	// Labels: method (GET/POST), path (route template), status (200/400)
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency.
	// Buckets: 1ms, 10ms, 100ms, 500ms, 1s, 5s, 10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress is the number of requests being served.
	HTTPRequestsInProgress prometheus.Gauge

	// Inventory metrics

	// RollsCreatedTotal counts rolls added to the inventory.
	RollsCreatedTotal prometheus.Counter

	// SalesRegisteredTotal counts committed sales.
	SalesRegisteredTotal prometheus.Counter

	// SalesRejectedTotal counts sales that were not applied.
	// Labels: reason (invalid_request/roll_not_found/insufficient_stock/internal)
	SalesRejectedTotal *prometheus.CounterVec

	// MetersSoldTotal accumulates meters sold across all rolls.
	MetersSoldTotal prometheus.Counter

	// SaleRegistrationDuration observes the full register-sale transaction.
	SaleRegistrationDuration prometheus.Histogram

	// IdempotentReplaysTotal counts POST retries answered from the stored response.
	IdempotentReplaysTotal prometheus.Counter

	// Messaging metrics

	// MessagesPublishedTotal counts domain events handed to the broker.
	// Labels: exchange, routing_key
	MessagesPublishedTotal *prometheus.CounterVec

	// CircuitBreakerState reports breaker state (0 closed, 1 open, 2 half-open).
	// Labels: name
	CircuitBreakerState *prometheus.GaugeVec
)

// InitMetrics registers every metric in the default registry.
//
// Safe to call more than once; only the first call registers.
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "Number of HTTP requests being served",
			},
		)

		RollsCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rolls_created_total",
				Help: "Total number of fabric rolls added",
			},
		)

		SalesRegisteredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sales_registered_total",
				Help: "Total number of committed sales",
			},
		)

		SalesRejectedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_rejected_total",
				Help: "Total number of sales that were not applied",
			},
			[]string{"reason"},
		)

		MetersSoldTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "meters_sold_total",
				Help: "Total meters of fabric sold",
			},
		)

		// One row lock plus three statements; anything above 1s means lock contention.
		SaleRegistrationDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sale_registration_duration_seconds",
				Help:    "Register-sale transaction latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		)

		IdempotentReplaysTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "idempotent_replays_total",
				Help: "Total number of requests answered from a stored idempotent response",
			},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "Total number of domain events published",
			},
			[]string{"exchange", "routing_key"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open",
			},
			[]string{"name"},
		)
	})
}

// IncCounter increments a Counter.
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// AddCounter adds a non-negative value to a Counter.
func AddCounter(counter prometheus.Counter, value float64) {
	counter.Add(value)
}

// IncCounterVec increments a labelled Counter.
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge increments a Gauge.
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge decrements a Gauge.
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec sets a labelled Gauge.
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram records one observation.
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec records one labelled observation.
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
