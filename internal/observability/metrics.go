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
	// Discovery metrics
	CandidatesDiscovered *prometheus.CounterVec
	DiscoveryErrors      *prometheus.CounterVec

	// Validation metrics
	ValidationsTotal   *prometheus.CounterVec
	TierGateFailures   *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	AdapterErrors      *prometheus.CounterVec

	// AI metrics
	AIRequestsTotal  *prometheus.CounterVec
	AIFallbacksTotal prometheus.Counter

	// Alert metrics
	AlertsEmitted     *prometheus.CounterVec
	NotifierFailures  *prometheus.CounterVec
	CompositeScoreObs prometheus.Histogram

	// Scan metrics
	ScanRunsTotal      *prometheus.CounterVec
	ScanDuration       prometheus.Histogram
	LastSuccessfulScan prometheus.Gauge

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_sentinel"
	}

	return &Metrics{
		// Discovery metrics
		CandidatesDiscovered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "candidates_total",
			Help:      "Total number of candidates discovered by source",
		}, []string{"source"}),
		DiscoveryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "errors_total",
			Help:      "Total number of discovery source failures",
		}, []string{"source"}),

		// Validation metrics
		ValidationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "runs_total",
			Help:      "Total number of validations by highest tier reached",
		}, []string{"tier"}),
		TierGateFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "gate_failures_total",
			Help:      "Total number of tier gate rejections",
		}, []string{"tier"}),
		ValidationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "duration_seconds",
			Help:      "Single-token validation duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		AdapterErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "adapter_errors_total",
			Help:      "Total number of adapter failures absorbed as safe defaults",
		}, []string{"adapter"}),

		// AI metrics
		AIRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "Total number of AI completion attempts by provider and status",
		}, []string{"provider", "status"}),
		AIFallbacksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "fallbacks_total",
			Help:      "Total number of times the fallback provider was engaged",
		}),

		// Alert metrics
		AlertsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "emitted_total",
			Help:      "Total number of alerts emitted by setup type",
		}, []string{"setup"}),
		NotifierFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "notifier_failures_total",
			Help:      "Total number of notifier delivery failures",
		}, []string{"notifier"}),
		CompositeScoreObs: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "composite_score",
			Help:      "Composite scores of completed validations",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		// Scan metrics
		ScanRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total number of scan cycles by status",
		}, []string{"status"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Scan cycle duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		LastSuccessfulScan: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "last_successful_timestamp",
			Help:      "Unix timestamp of the last completed scan cycle",
		}),

		// RPC metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordDiscovery records the result of one discovery source run.
func RecordDiscovery(source string, count int, err error) {
	if err != nil {
		DefaultMetrics.DiscoveryErrors.WithLabelValues(source).Inc()
		return
	}
	DefaultMetrics.CandidatesDiscovered.WithLabelValues(source).Add(float64(count))
}

// RecordValidation records a completed validation.
func RecordValidation(tierReached int, durationSeconds float64) {
	DefaultMetrics.ValidationsTotal.WithLabelValues(tierLabel(tierReached)).Inc()
	DefaultMetrics.ValidationDuration.Observe(durationSeconds)
}

// RecordGateFailure records a tier gate rejection.
func RecordGateFailure(tier int) {
	DefaultMetrics.TierGateFailures.WithLabelValues(tierLabel(tier)).Inc()
}

// RecordAdapterError records an adapter failure absorbed as a default.
func RecordAdapterError(adapter string) {
	DefaultMetrics.AdapterErrors.WithLabelValues(adapter).Inc()
}

// RecordAIRequest records an AI completion attempt.
func RecordAIRequest(provider, status string) {
	DefaultMetrics.AIRequestsTotal.WithLabelValues(provider, status).Inc()
}

// RecordAIFallback records an engagement of the fallback provider.
func RecordAIFallback() {
	DefaultMetrics.AIFallbacksTotal.Inc()
}

// RecordAlert records an emitted alert.
func RecordAlert(setup string, compositeScore int) {
	DefaultMetrics.AlertsEmitted.WithLabelValues(setup).Inc()
	DefaultMetrics.CompositeScoreObs.Observe(float64(compositeScore))
}

// RecordNotifierFailure records a delivery failure.
func RecordNotifierFailure(notifier string) {
	DefaultMetrics.NotifierFailures.WithLabelValues(notifier).Inc()
}

// RecordScan records a completed scan cycle.
func RecordScan(status string, durationSeconds float64) {
	DefaultMetrics.ScanRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.ScanDuration.Observe(durationSeconds)
	if status == "ok" {
		DefaultMetrics.LastSuccessfulScan.SetToCurrentTime()
	}
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

func tierLabel(tier int) string {
	switch tier {
	case 1:
		return "1"
	case 2:
		return "2"
	case 3:
		return "3"
	default:
		return "0"
	}
}
