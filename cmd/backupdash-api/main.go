package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edvin/backupdash/internal/api"
	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/config"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/db"
	"github.com/edvin/backupdash/internal/logging"
	"github.com/edvin/backupdash/internal/metrics"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := db.NewBackend(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to backend")
	}
	defer b.Close()

	if b.Pool != nil {
		if err := metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, b.Pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to register pool metrics")
		}
	}

	client := metrics.InstrumentBackend(b.Client)
	if !client.Configured() {
		logger.Warn().Msg("no backend configured, serving empty data")
	} else if !client.AuthConfigured() {
		logger.Warn().Msg("backend cannot verify tokens, /api/v1 is open")
	}

	services := core.NewServices(client, core.Options{
		ResetRedirectURL:    cfg.ResetRedirectURL,
		ActivityGranularity: backend.Granularity(cfg.ActivityGranularity),
		ActivityDays:        cfg.ActivityDays,
	})

	srv := api.NewServer(logger, client, services, cfg)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting dashboard API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
