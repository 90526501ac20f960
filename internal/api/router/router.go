package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/swasthyasathi/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/swasthyasathi/internal/http/middleware"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *handlers.ChatHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimiter guards the chat endpoints when set.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	if cfg.ChatHandler == nil {
		return r
	}

	r.Route("/v1", func(v1 chi.Router) {
		if cfg.RateLimiter != nil {
			v1.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		}
		v1.Group(func(rest chi.Router) {
			rest.Use(middleware.Compress(5))
			rest.Get("/welcome", cfg.ChatHandler.Welcome)
			rest.Post("/chat", cfg.ChatHandler.Chat)
		})
		// Websocket upgrades need the raw connection, so no compression here.
		v1.Get("/chat/ws", cfg.ChatHandler.ChatWebSocket)
	})

	return r
}
