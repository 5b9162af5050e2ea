// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Normalization metrics
	TradesNormalized prometheus.Counter
	RecordsDropped   prometheus.Counter
	AnomalousPrices  prometheus.Counter

	// Feed metrics
	FeedTradesReceived prometheus.Counter
	FeedErrors         *prometheus.CounterVec
	FeedReconnects     prometheus.Counter

	// Detector metrics
	PumpCandidates       prometheus.Counter
	CoordinatedIntervals prometheus.Counter
	WhaleEntries         prometheus.Counter

	// Pipeline metrics
	AnalysisRuns     prometheus.Counter
	AnalysisDuration prometheus.Histogram

	// Storage metrics
	DBQueryErrors *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all metrics registered on a
// private registry, so repeated construction in tests never collides.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_forensics"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		TradesNormalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "trades_normalized_total",
			Help:      "Total number of trade records accepted by the normalizer",
		}),
		RecordsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "records_dropped_total",
			Help:      "Total number of malformed rows dropped",
		}),
		AnomalousPrices: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "anomalous_prices_total",
			Help:      "Total number of records flagged outside price sanity bounds",
		}),

		FeedTradesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "trades_received_total",
			Help:      "Total number of raw trade rows received from the live feed",
		}),
		FeedErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "errors_total",
			Help:      "Total number of feed errors by type",
		}, []string{"error_type"}),
		FeedReconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of websocket reconnect attempts",
		}),

		PumpCandidates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detectors",
			Name:      "pump_candidates_total",
			Help:      "Total number of confirmed pump-and-dump candidates",
		}),
		CoordinatedIntervals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detectors",
			Name:      "coordinated_intervals_total",
			Help:      "Total number of coordinated-activity intervals detected",
		}),
		WhaleEntries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detectors",
			Name:      "whale_entries_total",
			Help:      "Total number of whale entry windows detected",
		}),

		AnalysisRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analysis_runs_total",
			Help:      "Total number of completed analysis runs",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "db_query_errors_total",
			Help:      "Total number of database errors by backend and operation",
		}, []string{"backend", "operation"}),
	}
}

// Handler returns the HTTP handler serving this instance's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
