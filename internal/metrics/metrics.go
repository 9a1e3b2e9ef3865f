// Package metrics provides Prometheus metrics for bucketsift.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for bucketsift.
type Metrics struct {
	// Listing metrics
	ObjectsListed  prometheus.Counter
	ObjectsMatched prometheus.Counter

	// Transfer metrics
	TransfersSucceeded *prometheus.CounterVec
	TransfersFailed    *prometheus.CounterVec
	TransfersSkipped   *prometheus.CounterVec
	BytesTransferred   prometheus.Counter

	// Timing metrics
	TransferDuration *prometheus.HistogramVec

	// Pool metrics
	InFlightTransfers prometheus.Gauge
}

// Config holds metrics configuration.
type Config struct {
	Address string // Address for metrics HTTP server (e.g., ":9090"); empty disables it
}

var defaultMetrics *Metrics

// Init initializes the metrics package with global metrics.
// Call this once at startup.
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "bucketsift"
	}

	m := &Metrics{
		ObjectsListed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "objects_listed_total",
				Help:      "Total number of objects seen while listing the source bucket",
			},
		),
		ObjectsMatched: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "objects_matched_total",
				Help:      "Total number of objects that passed the time window and key pattern",
			},
		),
		TransfersSucceeded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_succeeded_total",
				Help:      "Total number of successful transfers",
			},
			[]string{"kind"},
		),
		TransfersFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_failed_total",
				Help:      "Total number of failed transfers",
			},
			[]string{"kind"},
		),
		TransfersSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_skipped_total",
				Help:      "Total number of transfers skipped due to cancellation",
			},
			[]string{"kind"},
		),
		BytesTransferred: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_transferred_total",
				Help:      "Total bytes moved by successful transfers",
			},
		),
		TransferDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transfer_duration_seconds",
				Help:      "Time to complete a single transfer",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"kind"},
		),
		InFlightTransfers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "in_flight_transfers",
				Help:      "Number of transfers currently in flight",
			},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics instance.
// Returns nil if Init has not been called.
func Get() *Metrics {
	return defaultMetrics
}

// StartServer starts an HTTP server for Prometheus metrics scraping.
// Blocks until the server exits.
func StartServer(address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return http.ListenAndServe(address, mux)
}

// AddObjectsListed adds to the listed objects counter.
func (m *Metrics) AddObjectsListed(n int) {
	m.ObjectsListed.Add(float64(n))
}

// AddObjectsMatched adds to the matched objects counter.
func (m *Metrics) AddObjectsMatched(n int) {
	m.ObjectsMatched.Add(float64(n))
}

// IncTransfersSucceeded increments the succeeded counter for a kind.
func (m *Metrics) IncTransfersSucceeded(kind string) {
	m.TransfersSucceeded.WithLabelValues(kind).Inc()
}

// IncTransfersFailed increments the failed counter for a kind.
func (m *Metrics) IncTransfersFailed(kind string) {
	m.TransfersFailed.WithLabelValues(kind).Inc()
}

// IncTransfersSkipped increments the skipped counter for a kind.
func (m *Metrics) IncTransfersSkipped(kind string) {
	m.TransfersSkipped.WithLabelValues(kind).Inc()
}

// AddBytesTransferred adds to the bytes moved counter.
func (m *Metrics) AddBytesTransferred(n int64) {
	m.BytesTransferred.Add(float64(n))
}

// ObserveTransferDuration records the duration of one transfer.
func (m *Metrics) ObserveTransferDuration(kind string, seconds float64) {
	m.TransferDuration.WithLabelValues(kind).Observe(seconds)
}

// IncInFlight increments the in-flight gauge.
func (m *Metrics) IncInFlight() {
	m.InFlightTransfers.Inc()
}

// DecInFlight decrements the in-flight gauge.
func (m *Metrics) DecInFlight() {
	m.InFlightTransfers.Dec()
}
