// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the radar.
type Metrics struct {
	CyclesTotal      prometheus.Counter
	CycleDuration    prometheus.Histogram
	FetchErrors      *prometheus.CounterVec
	PairsClassified  *prometheus.CounterVec
	AlertsSent       prometheus.Counter
	DispatchFailures prometheus.Counter
	SeenPairs        prometheus.Gauge
	LastCycleAt      prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "liquidity_radar"
	}

	return &Metrics{
		CyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "cycles_total",
			Help:      "Total number of poll cycles run",
		}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "cycle_duration_seconds",
			Help:      "Poll cycle duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		FetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "fetch_errors_total",
			Help:      "Total number of transient feed fetch failures by stage",
		}, []string{"stage"}),
		PairsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "pairs_classified_total",
			Help:      "Total number of pairs classified by verdict",
		}, []string{"verdict"}),
		AlertsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "alerts_sent_total",
			Help:      "Total number of alerts delivered to the outbound channel",
		}),
		DispatchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "failures_total",
			Help:      "Total number of failed alert deliveries",
		}),
		SeenPairs: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "seen_pairs",
			Help:      "Number of distinct pairs recorded since process start",
		}),
		LastCycleAt: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "last_cycle_timestamp",
			Help:      "Unix timestamp of the last completed poll cycle",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCycle records a completed poll cycle.
func RecordCycle(durationSeconds float64, completedAtUnix int64) {
	DefaultMetrics.CyclesTotal.Inc()
	DefaultMetrics.CycleDuration.Observe(durationSeconds)
	DefaultMetrics.LastCycleAt.Set(float64(completedAtUnix))
}

// RecordFetchError records a transient feed failure for a pipeline stage.
func RecordFetchError(stage string) {
	DefaultMetrics.FetchErrors.WithLabelValues(stage).Inc()
}

// RecordClassification records one classifier verdict.
func RecordClassification(verdict string) {
	DefaultMetrics.PairsClassified.WithLabelValues(verdict).Inc()
}

// RecordAlertSent increments the delivered alerts counter.
func RecordAlertSent() {
	DefaultMetrics.AlertsSent.Inc()
}

// RecordDispatchFailure increments the failed deliveries counter.
func RecordDispatchFailure() {
	DefaultMetrics.DispatchFailures.Inc()
}

// UpdateSeenPairs updates the seen set size gauge.
func UpdateSeenPairs(n int) {
	DefaultMetrics.SeenPairs.Set(float64(n))
}
