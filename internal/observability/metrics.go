package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis service.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec // labels: outcome={success,fetch_error,parse_error,validation_error,analysis_error}
	AnalysisDuration prometheus.Histogram

	// Analysis delegate metrics.
	DelegateRequests *prometheus.CounterVec // labels: outcome={success,error,unavailable}
	DelegateDuration prometheus.Histogram
	DelegateUp       prometheus.Gauge

	// Weather API metrics.
	ConditionsRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	ConditionsCache    *prometheus.CounterVec // labels: result={hit,miss}

	ReportsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.DelegateRequests,
		m.DelegateDuration,
		m.DelegateUp,
		m.ConditionsRequests,
		m.ConditionsCache,
		m.ReportsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering the collectors, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sounding",
			Name:      "analyses_total",
			Help:      "Completed analysis requests by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sounding",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-analyze-present cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DelegateRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sounding",
			Name:      "delegate_requests_total",
			Help:      "Analysis delegate requests by outcome.",
		}, []string{"outcome"}),
		DelegateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sounding",
			Name:      "delegate_duration_seconds",
			Help:      "Analysis delegate request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		DelegateUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sounding",
			Name:      "delegate_up",
			Help:      "1 when the last delegate health check succeeded, 0 otherwise.",
		}),
		ConditionsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sounding",
			Name:      "conditions_requests_total",
			Help:      "Weather API requests by outcome.",
		}, []string{"outcome"}),
		ConditionsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sounding",
			Name:      "conditions_cache_total",
			Help:      "Weather API cache lookups by result.",
		}, []string{"result"}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sounding",
			Name:      "reports_published_total",
			Help:      "Reports published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sounding",
			Name:      "publish_errors_total",
			Help:      "Report publish failures.",
		}),
	}
}
