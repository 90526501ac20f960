package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/swasthyasathi/internal/api/router"
	"github.com/wolfman30/swasthyasathi/internal/app/bootstrap"
	appconfig "github.com/wolfman30/swasthyasathi/internal/config"
	"github.com/wolfman30/swasthyasathi/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/swasthyasathi/internal/http/middleware"
	"github.com/wolfman30/swasthyasathi/internal/observability/metrics"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithWriter(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	logger.Info("starting swasthyasathi API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
		"llm_provider", cfg.LLMProvider,
	)

	metricsHandler, assistantMetrics := setupMetrics()

	svc, closeDeps, err := bootstrap.BuildAssistant(context.Background(), cfg, logger, assistantMetrics)
	if err != nil {
		logger.Error("failed to build assistant", "error", err)
		os.Exit(1)
	}
	defer closeDeps()

	srv := newServer(cfg, logger, svc, metricsHandler)

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers the assistant collectors on a private registry
// alongside the Go runtime and process collectors.
func setupMetrics() (http.Handler, *metrics.AssistantMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewAssistantMetrics(reg)
}

func newServer(cfg *appconfig.Config, logger *logging.Logger, svc handlers.Responder, metricsHandler http.Handler) *http.Server {
	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        handlers.NewChatHandler(svc, int64(cfg.MaxBodyBytes), logger.Component("http")),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	// WriteTimeout leaves room for the LLM call on top of table I/O.
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
