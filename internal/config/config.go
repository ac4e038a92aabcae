// Package config provides configuration management for the MatchEdge service.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/matchedge/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Predictor   PredictorConfig   `mapstructure:"predictor" validate:"required"`
	Calibration CalibrationConfig `mapstructure:"calibration"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP and stream server configuration
type ServerConfig struct {
	Host                   string  `mapstructure:"host"`
	Port                   int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int     `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int     `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int     `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
	MaxBodyBytes           int64   `mapstructure:"max_body_bytes" validate:"required,gt=0"`
	StreamRatePerSecond    float64 `mapstructure:"stream_rate_per_second" validate:"required,gt=0"`
	StreamBurst            int     `mapstructure:"stream_burst" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// CacheConfig represents the team profile cache
type CacheConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	TTLSeconds    int    `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize       int    `mapstructure:"max_size" validate:"gte=0"`
	SweepSchedule string `mapstructure:"sweep_schedule"`
}

// PredictorConfig represents pipeline execution settings
type PredictorConfig struct {
	WorkerLimit           int      `mapstructure:"worker_limit" validate:"required,gt=0"`
	Markets               []string `mapstructure:"markets" validate:"required,min=1,markets"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// CalibrationConfig layers overrides on top of the shipped catalog
type CalibrationConfig struct {
	Version string                    `mapstructure:"version"`
	Weights EnsembleConfig            `mapstructure:"weights"`
	Markets map[string]MarketOverride `mapstructure:"markets"`
}

// EnsembleConfig overrides the signal weights when any is non-zero
type EnsembleConfig struct {
	Trend   float64 `mapstructure:"trend" validate:"gte=0"`
	Prior   float64 `mapstructure:"prior" validate:"gte=0"`
	Pattern float64 `mapstructure:"pattern" validate:"gte=0"`
	Curve   float64 `mapstructure:"curve" validate:"gte=0"`
}

// MarketOverride replaces individual market constants. Zero values keep the default.
type MarketOverride struct {
	Thresholds          []float64 `mapstructure:"thresholds"`
	HomeWeight          float64   `mapstructure:"home_weight" validate:"gte=0"`
	AwayWeight          float64   `mapstructure:"away_weight" validate:"gte=0"`
	MinConfidence       float64   `mapstructure:"min_confidence" validate:"gte=0,lte=99"`
	StrongBetConfidence float64   `mapstructure:"strong_bet_confidence" validate:"gte=0,lte=99"`
	BetConfidence       float64   `mapstructure:"bet_confidence" validate:"gte=0,lte=99"`
}

// IsSet reports whether any weight was configured
func (e EnsembleConfig) IsSet() bool {
	return e.Trend != 0 || e.Prior != 0 || e.Pattern != 0 || e.Curve != 0
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ServerAddress returns the listen address for the HTTP server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CacheTTL returns the profile cache expiry
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// RequestTimeout returns the per-request pipeline deadline
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Predictor.RequestTimeoutSeconds) * time.Second
}

// EnabledMarkets resolves the configured market names
func (c *Config) EnabledMarkets() ([]models.MarketKind, error) {
	kinds := make([]models.MarketKind, 0, len(c.Predictor.Markets))
	for _, name := range c.Predictor.Markets {
		kind, err := models.ParseMarketKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
