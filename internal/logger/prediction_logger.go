package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for pipeline operations.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "predictor"),
	}
}

// LogMatchEvaluation logs a completed match evaluation.
func (pl *PredictionLogger) LogMatchEvaluation(matchID, home, away, catalogVersion string, marketsEvaluated, predictions int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"match_id":               matchID,
		"home":                   home,
		"away":                   away,
		"catalog_version":        catalogVersion,
		"markets_evaluated":      marketsEvaluated,
		"predictions":            predictions,
		"evaluation_duration_ms": durationMs,
	}).Info("Match evaluation completed")
}

// LogPrediction logs a classified prediction.
func (pl *PredictionLogger) LogPrediction(matchID, market, direction string, threshold, confidence, securityLevel float64, tier string) {
	pl.WithFields(logrus.Fields{
		"match_id":       matchID,
		"market":         market,
		"direction":      direction,
		"threshold":      threshold,
		"confidence":     confidence,
		"security_level": securityLevel,
		"tier":           tier,
	}).Debug("Prediction classified")
}

// LogOverride logs a near-certain rule raising a confidence.
func (pl *PredictionLogger) LogOverride(matchID, market, rule string, confidence float64) {
	pl.WithFields(logrus.Fields{
		"match_id":   matchID,
		"market":     market,
		"rule":       rule,
		"confidence": confidence,
	}).Info("Confidence override applied")
}

// LogMarketSkipped logs a market that produced no actionable call.
func (pl *PredictionLogger) LogMarketSkipped(matchID, market, reason string) {
	pl.WithFields(logrus.Fields{
		"match_id": matchID,
		"market":   market,
		"reason":   reason,
	}).Debug("Market skipped")
}

// LogInputWarnings logs advisory input warnings.
func (pl *PredictionLogger) LogInputWarnings(matchID string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	pl.WithFields(logrus.Fields{
		"match_id": matchID,
		"warnings": warnings,
	}).Warn("Input data warnings")
}
