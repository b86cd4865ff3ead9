package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joeaphiboon/faculty-comparison/internal/api"
	"github.com/joeaphiboon/faculty-comparison/internal/events"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard and JSON API.",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := setup(os.Stdout)
		if err != nil {
			return err
		}
		defer a.close()
		return serve(a)
	},
}

func serve(a *app) error {
	cfg, logger := a.cfg, a.logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Events (optional)
	if cfg.Events.NATSURL != "" {
		nc, err := events.NewNATSClient(ctx, cfg.Events.NATSURL, cfg.Events.LoadedSubject, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			defer nc.Close()
			if err := events.Bridge(nc, a.cache, cfg.Events.ReloadSubject, cfg.Events.LoadedSubject, logger); err != nil {
				logger.Warn("failed to subscribe to reload requests", "error", err)
			} else {
				logger.Info("connected to nats", "reload_subject", cfg.Events.ReloadSubject)
			}
		}
	}

	// Warm the cache after bridging so the startup load is announced. A
	// failure here is served as 503 until a source recovers.
	if ds, err := a.cache.Get(ctx); err != nil {
		logger.Warn("dataset unavailable at startup", "error", err)
	} else {
		logger.Info("dataset loaded", "source", ds.Source, "entities", ds.Len(), "version", ds.Version)
	}

	router := api.NewRouter(a.cache, a.catalog, api.Options{
		AdminToken: cfg.Server.AdminToken,
		Baseline:   cfg.Render.Baseline,
		PNGWidth:   cfg.Render.PNGWidth,
		PNGHeight:  cfg.Render.PNGHeight,
		Version:    version,
		RateLimit:  cfg.Server.RateLimit,
	}, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return nil
}
