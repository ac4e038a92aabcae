// Package metrics provides centralized Prometheus metrics registry for the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MatchesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "matchedge",
		Name:      "matches_evaluated_total",
		Help:      "Total number of matches run through the pipeline",
	})
	RequestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchedge",
		Name:      "request_errors_total",
		Help:      "Total number of rejected prediction requests by reason",
	}, []string{"reason"})
	StreamUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchedge",
		Name:      "stream_updates_total",
		Help:      "Total number of live context updates received over the stream by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	ProfileCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "matchedge",
		Name:      "profile_cache_hit_ratio",
		Help:      "Hit ratio of the team profile cache",
	})
	ActiveStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "matchedge",
		Name:      "active_streams",
		Help:      "Number of open live update streams",
	})
)

// Histogram metrics
var (
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "matchedge",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of a full match evaluation in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(MatchesEvaluatedTotal)
		registry.MustRegister(RequestErrorsTotal)
		registry.MustRegister(StreamUpdatesTotal)

		// Register gauge metrics
		registry.MustRegister(ProfileCacheHitRatio)
		registry.MustRegister(ActiveStreams)

		// Register histogram metrics
		registry.MustRegister(PipelineDuration)

		// Register prediction metrics
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(OverridesFiredTotal)
		registry.MustRegister(ConfidenceScore)
		registry.MustRegister(CalibrationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMatchEvaluated records a completed match evaluation.
func RecordMatchEvaluated(durationSeconds float64) {
	MatchesEvaluatedTotal.Inc()
	PipelineDuration.Observe(durationSeconds)
}

// RecordRequestError records a rejected request.
func RecordRequestError(reason string) {
	RequestErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordStreamUpdate records a live update received over a stream.
func RecordStreamUpdate(outcome string) {
	StreamUpdatesTotal.WithLabelValues(outcome).Inc()
}

// UpdateProfileCacheHitRatio updates the profile cache hit ratio gauge.
func UpdateProfileCacheHitRatio(ratio float64) {
	ProfileCacheHitRatio.Set(ratio)
}
