package main

//
//  @title           daypeak API
//  @version         1.0
//  @description     Daily min/max tracking service for numeric entity states.
//  @termsOfService  https://github.com/hmeyer/daypeak
//  @contact.name    API Support
//  @contact.url     https://github.com/hmeyer/daypeak
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        tracker
//  @tag.description Tracker state, state-change ingestion and manual reset
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hmeyer/daypeak/config"
	_ "github.com/hmeyer/daypeak/docs" // swagger docs
	"github.com/hmeyer/daypeak/internal/app"
	"github.com/hmeyer/daypeak/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown terminates the HTTP server and background workers when an
// OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): Parent context for the shutdown timeout.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - stopWorkers (context.CancelFunc): Cancels the event bus and scheduler.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, stopWorkers context.CancelFunc, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the daypeak application.
//
// It loads configuration, wires the tracker, event bus, reset scheduler and
// HTTP surface, then serves until interrupted.
//
// Flags:
//   - --port: Port for the HTTP server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	port := flag.String("port", config.AppConfig.Server.Port, "Port for the HTTP server")
	flag.Parse()

	a, cleanup, err := app.InitializeApp()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("app init error")
	}

	// Event bus, daily reset trigger and snapshot save worker run until
	// shutdown cancels them.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(workerCtx)
	g.Go(func() error { return a.Bus.Run(gctx) })
	g.Go(func() error { return a.Scheduler.Run(gctx) })
	g.Go(func() error { return a.Saver.Run(gctx) })

	server := startServer(a.Router, *port)
	gracefulShutdown(ctx, server, stopWorkers, cleanup)

	if err := g.Wait(); err != nil {
		logger.L().Error().Err(err).Msg("background workers exited with error")
	}
}
