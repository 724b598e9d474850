package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/config"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/db"
	"github.com/edvin/backupdash/internal/logging"
	"github.com/edvin/backupdash/internal/mcpserver"
)

// backupdash-mcp serves the dashboard tools over stdio for local MCP clients.
// stdout carries the protocol, so logs go to stderr.
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

	logger := logging.NewLoggerTo(os.Stderr, cfg)

	b, err := db.NewBackend(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to backend")
	}
	defer b.Close()

	granularity := backend.Granularity(cfg.ActivityGranularity)
	services := core.NewServices(b.Client, core.Options{
		ActivityGranularity: granularity,
		ActivityDays:        cfg.ActivityDays,
	})

	logger.Info().Str("backend", b.Client.Name).Msg("serving MCP over stdio")
	if err := server.ServeStdio(mcpserver.NewMCPServer(services, granularity, cfg.ActivityDays)); err != nil {
		logger.Error().Err(err).Msg("stdio server stopped")
	}
}
