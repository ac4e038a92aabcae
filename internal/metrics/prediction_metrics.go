package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction counter vectors
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchedge",
		Name:      "predictions_total",
		Help:      "Total number of classified predictions by market and recommendation tier",
	}, []string{"market", "tier"})

	OverridesFiredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchedge",
		Name:      "overrides_fired_total",
		Help:      "Total number of near-certain overrides applied by rule",
	}, []string{"rule"})
)

// Prediction histogram vectors
var (
	ConfidenceScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "matchedge",
		Name:      "confidence_score",
		Help:      "Calibrated confidence of classified predictions",
		Buckets:   []float64{50, 60, 70, 75, 80, 85, 90, 95, 98, 99},
	}, []string{"market"})

	CalibrationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "matchedge",
		Name:      "calibration_duration_seconds",
		Help:      "Duration of a single market evaluation in seconds",
		Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
	}, []string{"market"})
)

// RecordPrediction records a classified prediction.
func RecordPrediction(market, tier string, confidence float64) {
	PredictionsTotal.WithLabelValues(market, tier).Inc()
	ConfidenceScore.WithLabelValues(market).Observe(confidence)
}

// RecordOverride records a fired override rule.
func RecordOverride(rule string) {
	OverridesFiredTotal.WithLabelValues(rule).Inc()
}

// RecordCalibrationDuration records how long a market evaluation took.
func RecordCalibrationDuration(market string, durationSeconds float64) {
	CalibrationDuration.WithLabelValues(market).Observe(durationSeconds)
}
