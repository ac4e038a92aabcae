// Package main provides the matchedge command line.
package main

import (
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/matchedge/internal/config"
	"github.com/yourusername/matchedge/internal/logger"
	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/profile"
	"github.com/yourusername/matchedge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
	catalog    market.Catalog
	profiles   *profile.CachedBuilder
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.AddCommand(predictCmd, marketsCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "matchedge",
	Short: "Confidence-scored football market recommendations",
	Long: `Builds team profiles from season statistics, selects defensible market lines,
calibrates their confidence and classifies them into STRONG_BET, BET or SKIP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "matchedge %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	catalog, err = config.BuildCatalog(cfg)
	if err != nil {
		return fmt.Errorf("failed to build calibration catalog: %w", err)
	}
	return nil
}

func newPredictor() (*service.Predictor, error) {
	markets, err := cfg.EnabledMarkets()
	if err != nil {
		return nil, err
	}

	opts := []service.PredictorOption{
		service.WithEnabledMarkets(markets),
		service.WithWorkerLimit(cfg.Predictor.WorkerLimit),
	}
	if cfg.Cache.Enabled {
		profiles = profile.NewCachedBuilder(profile.NewBuilder(), cfg.CacheTTL(), cfg.Cache.MaxSize)
		opts = append(opts, service.WithProfileSource(profiles))
	}
	return service.NewPredictor(catalog, appLog, opts...), nil
}
