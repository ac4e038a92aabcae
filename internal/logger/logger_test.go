package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		environment string
		wantLevel   logrus.Level
		wantJSON    bool
	}{
		{name: "production json", level: "warn", environment: "production", wantLevel: logrus.WarnLevel, wantJSON: true},
		{name: "development text", level: "debug", environment: "development", wantLevel: logrus.DebugLevel},
		{name: "invalid level falls back", level: "loud", environment: "test", wantLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newLogger(&bytes.Buffer{}, tt.level, tt.environment)

			assert.Equal(t, tt.wantLevel, log.GetLevel())
			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestPredictionLoggerMatchEvaluation(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogMatchEvaluation("match_1", "Home FC", "Away FC", "2024.2", 5, 3, 1.25)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "match_1", logEntry["match_id"])
	assert.Equal(t, "predictor", logEntry["component"])
	assert.Equal(t, float64(3), logEntry["predictions"])
}

func TestPredictionLoggerPrediction(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogPrediction("match_1", "corners", "OVER", 9.5, 96.4, 100, "STRONG_BET")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "STRONG_BET", logEntry["tier"])
	assert.Equal(t, 9.5, logEntry["threshold"])
}

func TestPredictionLoggerOverride(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogOverride("match_1", "fouls", "late-match-wide-margin", 99)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "late-match-wide-margin", logEntry["rule"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestPredictionLoggerSkippedAtInfoLevel(t *testing.T) {
	log, buf := setupTestLogger()
	log.SetLevel(logrus.InfoLevel)
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogMarketSkipped("match_1", "fouls", "insufficient data")

	assert.Empty(t, buf.String())
}

func TestPredictionLoggerInputWarnings(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogInputWarnings("match_1", nil)
	assert.Empty(t, buf.String())

	predictionLogger.LogInputWarnings("match_1", []string{"possession sums to 120%"})
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
}

func BenchmarkPredictionLoggerPrediction(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	predictionLogger := NewPredictionLogger(log)

	for i := 0; i < b.N; i++ {
		predictionLogger.LogPrediction("match_1", "goals", "OVER", 2.5, 88, 90, "STRONG_BET")
	}
}
