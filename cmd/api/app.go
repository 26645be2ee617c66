package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/app"
	"bukken.rehub.jp/internal/appconf"
	"bukken.rehub.jp/internal/clock"
	"bukken.rehub.jp/internal/logging"
	"bukken.rehub.jp/internal/metrics"
	"bukken.rehub.jp/internal/restapi"
)

// ParseAPIKeys splits a comma-separated string of API keys and trims whitespace from each key.
// Returns an empty slice if the input is empty.
func ParseAPIKeys(apiKeysFlag string) []string {
	if apiKeysFlag == "" {
		return []string{}
	}

	keys := strings.Split(apiKeysFlag, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	return keys
}

// BuildApplication creates and initializes the Application with all dependencies.
// This includes creating the logger, opening the database, and wiring the
// detection and merge components. Returns an error if the database cannot be
// opened.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	dbClient, err := coredb.NewClient(coredb.NewConfig(cfg.DBPath, cfg.Env, cfg.Verbose), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	coreApp := app.NewApplication(cfg, dbClient, logger, clock.SystemClock{}, metrics.New())

	return coreApp, nil
}

// CreateServer creates and configures the HTTP server with routes and middleware.
// Applies security headers and request logging around the REST API routes.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)

	mux := http.NewServeMux()

	api.SetRoutes(mux)

	// Wrap with security middleware
	secureHandler := api.WithSecurityHeaders(restapi.RequestIDMiddleware(mux))

	// Add request logging middleware (outermost)
	requestLogger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)
	requestLogMiddleware := restapi.NewRequestLoggingMiddleware(requestLogger)
	handler := requestLogMiddleware(secureHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}

	return srv, api
}

// Run manages the server lifecycle with graceful shutdown.
// Starts the server in a goroutine, waits for shutdown signals (SIGINT, SIGTERM),
// and performs graceful shutdown with a 30-second timeout.
// Returns an error if the server fails to start or shutdown fails.
func Run(srv *http.Server, coreApp *app.Application, api *restapi.RestAPI) error {
	logger := coreApp.Logger
	logger.Info("starting server", "addr", srv.Addr)

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Channel to capture server errors
	serverErrors := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Wait for either shutdown signal or server error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server...")
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Stop the API layer and close the database
	api.Shutdown()
	logging.SafeCloseWithLogging(coreApp.DB, logger, "database")

	logger.Info("server exited")
	return nil
}
