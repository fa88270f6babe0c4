package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the analysis service. Each
// Metrics owns its registry so tests can build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AnalysisFailures       prometheus.Counter
	AnalysisFailuresByCode *prometheus.CounterVec
	AnalysisSegments       prometheus.Histogram
}

// New creates and registers all instruments.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "diarize_http_requests_total",
			Help: "Total HTTP requests by path, method and status",
		}, []string{"path", "method", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diarize_http_request_duration_seconds",
			Help:    "HTTP request latency by path",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~2.7 minutes
		}, []string{"path"}),

		AnalysisFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "diarize_analysis_failures_total",
			Help: "Total failed analysis requests",
		}),
		AnalysisFailuresByCode: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "diarize_analysis_failures_by_code_total",
			Help: "Failed analysis requests by failure code",
		}, []string{"code"}),
		AnalysisSegments: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "diarize_analysis_segments",
			Help:    "Number of speaker segments per successful analysis",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// Handler serves this instance's registry, mounted at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
