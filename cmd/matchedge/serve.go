package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/matchedge/internal/metrics"
	"github.com/yourusername/matchedge/internal/scheduler"
	"github.com/yourusername/matchedge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP and WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		predictor, err := newPredictor()
		if err != nil {
			return err
		}

		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
		}

		srv := server.NewServer(server.Config{
			ServiceName:     cfg.App.Name,
			Version:         Version,
			Addr:            cfg.ServerAddress(),
			Logger:          appLog,
			Predictor:       predictor,
			Catalog:         catalog,
			MetricsEnabled:  cfg.Metrics.Enabled,
			MetricsPath:     cfg.Metrics.Path,
			MaxBodyBytes:    cfg.Server.MaxBodyBytes,
			RequestTimeout:  cfg.RequestTimeout(),
			ReadTimeout:     time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout:    time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
			ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second,
			StreamRate:      cfg.Server.StreamRatePerSecond,
			StreamBurst:     cfg.Server.StreamBurst,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Start(ctx); err != nil {
			return err
		}

		var jobs *scheduler.Scheduler
		if profiles != nil && cfg.Cache.SweepSchedule != "" {
			jobs = scheduler.NewScheduler(appLog)
			if err := jobs.ScheduleCacheSweep(cfg.Cache.SweepSchedule, profiles); err != nil {
				return err
			}
			if err := jobs.Start(); err != nil {
				return err
			}
		}

		appLog.WithFields(logrus.Fields{
			"environment": cfg.App.Environment,
			"catalog":     catalog.Version(),
			"version":     Version,
		}).Info("MatchEdge server running")

		<-ctx.Done()
		appLog.Info("Shutdown signal received")
		if jobs != nil {
			if err := jobs.Stop(); err != nil {
				appLog.WithError(err).Warn("Scheduler stop failed")
			}
		}
		return srv.Shutdown()
	},
}
