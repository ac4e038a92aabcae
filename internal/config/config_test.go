package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/models"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	assert.Equal(t, "matchedge", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.ServerAddress())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL())
	assert.Equal(t, "@every 10m", cfg.Cache.SweepSchedule)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Len(t, cfg.Predictor.Markets, 5)
	assert.Equal(t, []float64{9.5, 8.5, 10.5}, cfg.Calibration.Markets["corners"].Thresholds)
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("MATCHEDGE_APP_NAME", "edge-test")
	t.Setenv("MATCHEDGE_SERVER_PORT", "9191")

	cfg := loadValid(t)

	assert.Equal(t, "edge-test", cfg.App.Name)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv("TEST_APP_NAME", "expanded-app")
	t.Setenv("TEST_SERVER_PORT", "7070")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "expanded-app", cfg.App.Name)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadWithDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "matchedge", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"goals", "corners", "fouls", "cards", "btts"}, cfg.Predictor.Markets)
	assert.NoError(t, Validate(cfg))
}

func TestValidateSuccess(t *testing.T) {
	assert.NoError(t, Validate(loadValid(t)))
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *Config)
		contains string
	}{
		{
			name:     "invalid environment",
			mutate:   func(cfg *Config) { cfg.App.Environment = "invalid" },
			contains: "Environment",
		},
		{
			name:     "invalid log level",
			mutate:   func(cfg *Config) { cfg.App.LogLevel = "verbose" },
			contains: "LogLevel",
		},
		{
			name:     "unknown market",
			mutate:   func(cfg *Config) { cfg.Predictor.Markets = []string{"goals", "offsides"} },
			contains: "Markets",
		},
		{
			name:     "empty markets",
			mutate:   func(cfg *Config) { cfg.Predictor.Markets = []string{} },
			contains: "Markets",
		},
		{
			name:     "port out of range",
			mutate:   func(cfg *Config) { cfg.Server.Port = 70000 },
			contains: "Port",
		},
		{
			name:     "cache without ttl",
			mutate:   func(cfg *Config) { cfg.Cache.TTLSeconds = 0 },
			contains: "ttl_seconds",
		},
		{
			name:     "malformed sweep schedule",
			mutate:   func(cfg *Config) { cfg.Cache.SweepSchedule = "every so often" },
			contains: "sweep_schedule",
		},
		{
			name:     "write timeout shorter than request timeout",
			mutate:   func(cfg *Config) { cfg.Server.WriteTimeoutSeconds = 1 },
			contains: "write_timeout_seconds",
		},
		{
			name: "override for unknown market",
			mutate: func(cfg *Config) {
				cfg.Calibration.Markets = map[string]MarketOverride{"throw_ins": {BetConfidence: 80}}
			},
			contains: "unknown market",
		},
		{
			name: "override with inverted tiers",
			mutate: func(cfg *Config) {
				cfg.Calibration.Markets = map[string]MarketOverride{"goals": {BetConfidence: 90, StrongBetConfidence: 85}}
			},
			contains: "bet_confidence",
		},
		{
			name: "debug logging in production",
			mutate: func(cfg *Config) {
				cfg.App.Environment = "production"
				cfg.App.LogLevel = "debug"
			},
			contains: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsStaging())

	cfg.App.Environment = "staging"
	assert.True(t, cfg.IsStaging())
}

func TestEnabledMarkets(t *testing.T) {
	cfg := &Config{Predictor: PredictorConfig{Markets: []string{"BTTS", "goals"}}}

	kinds, err := cfg.EnabledMarkets()
	require.NoError(t, err)
	assert.Equal(t, []models.MarketKind{models.MarketBTTS, models.MarketGoals}, kinds)

	cfg.Predictor.Markets = []string{"offsides"}
	_, err = cfg.EnabledMarkets()
	assert.ErrorIs(t, err, models.ErrUnknownMarket)
}

func TestBuildCatalogAppliesOverrides(t *testing.T) {
	cfg := loadValid(t)

	catalog, err := BuildCatalog(cfg)
	require.NoError(t, err)

	assert.Equal(t, "2024.2-local", catalog.Version())
	corners := catalog.Settings(models.MarketCorners)
	assert.Equal(t, []float64{8.5, 9.5, 10.5}, corners.Thresholds)
	assert.Equal(t, 80.0, corners.BetConfidence)

	defaults := market.DefaultCatalog()
	assert.Equal(t, defaults.Settings(models.MarketGoals), catalog.Settings(models.MarketGoals))
	assert.Equal(t, defaults.Weights(), catalog.Weights())
}

func TestBuildCatalogWeights(t *testing.T) {
	cfg := loadValid(t)
	cfg.Calibration.Weights = EnsembleConfig{Trend: 0.25, Prior: 0.25, Pattern: 0.25, Curve: 0.25}

	catalog, err := BuildCatalog(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1.0, catalog.Weights().Sum())
}

func TestBuildCatalogRejectsIncoherentOverride(t *testing.T) {
	cfg := loadValid(t)
	cfg.Calibration.Markets = map[string]MarketOverride{"fouls": {BetConfidence: 90}}

	_, err := BuildCatalog(cfg)
	assert.ErrorIs(t, err, models.ErrInvalidCatalog)
}
