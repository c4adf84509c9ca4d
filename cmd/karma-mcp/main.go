package main

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/qiniu/karma-mcp/internal/alerts"
	"github.com/qiniu/karma-mcp/internal/api"
	"github.com/qiniu/karma-mcp/internal/config"
	"github.com/qiniu/karma-mcp/internal/karma"
	"github.com/qiniu/karma-mcp/internal/mcpserver"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configFile := flag.String("f", "", "Path to configuration file")
	flag.Parse()

	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	timeout, err := time.ParseDuration(cfg.Karma.Timeout)
	if err != nil {
		log.Warn().Str("timeout", cfg.Karma.Timeout).Msg("invalid karma timeout, using 15s")
		timeout = 15 * time.Second
	}

	client := karma.NewClient(&karma.Config{
		BaseURL: cfg.Karma.URL,
		Timeout: timeout,
	})
	svc := alerts.NewService(client)

	log.Info().Str("karma_url", cfg.Karma.URL).Msg("starting Karma MCP adapter")

	if cfg.MCP.Transport == "stdio" {
		// stdio transport owns the process; no HTTP API alongside it.
		if err := mcpserver.Serve(svc, &cfg.MCP); err != nil {
			log.Fatal().Err(err).Msg("MCP server exited")
		}
		return
	}

	go func() {
		if err := mcpserver.Serve(svc, &cfg.MCP); err != nil {
			log.Fatal().Err(err).Msg("MCP server exited")
		}
	}()

	httpServer := api.NewServer(svc)
	log.Info().Str("addr", cfg.Server.BindAddr).Msg("starting HTTP API")
	if err := httpServer.Run(cfg.Server.BindAddr); err != nil {
		log.Fatal().Err(err).Msg("HTTP API exited")
	}
}
