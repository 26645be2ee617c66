package main

import (
	"flag"
	"log/slog"
	"os"

	"bukken.rehub.jp/internal/appconf"
)

func main() {
	var cfg appconf.Config
	var apiKeysFlag string
	var envFlag string

	// Parse command-line flags
	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second per API key for rate limiting")
	flag.StringVar(&cfg.DBPath, "data-path", "./bukken.db", "Path to the SQLite database")
	flag.Parse()

	cfg.Verbose = true

	// Parse API keys
	cfg.ApiKeys = ParseAPIKeys(apiKeysFlag)

	// Convert environment flag to enum
	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)

	// Build application with dependencies
	coreApp, err := BuildApplication(cfg)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	srv, api := CreateServer(coreApp, cfg)

	// Run server with graceful shutdown
	if err := Run(srv, coreApp, api); err != nil {
		coreApp.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
