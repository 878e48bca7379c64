package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/agrilink/messaging/internal/api/middleware"
	"github.com/agrilink/messaging/internal/catalog"
	"github.com/agrilink/messaging/internal/chat"
	"github.com/agrilink/messaging/internal/handlers"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	RateLimitRPS       float64
	RateLimitWhitelist []string
}

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, svc *chat.Service, src catalog.Source, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting
	limiter := middleware.NewRateLimiter(logger, middleware.RateLimiterConfig{
		RPS:       cfg.RateLimitRPS,
		Whitelist: cfg.RateLimitWhitelist,
	})
	r.Use(limiter.Middleware)

	// CORS - the UI prototype is served from a separate dev server
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(svc, src)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	// Messaging core
	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", h.ListConversations)
		r.Post("/deselect", h.DeselectConversation)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTranscript)
			r.Post("/messages", h.SendMessage)
			r.Post("/select", h.SelectConversation)
		})
	})

	// Assistant session
	r.Get("/assistant/permission", h.GetPermission)
	r.Post("/assistant/permission", h.RequestPermission)
	r.Get("/assistant/quick-replies", h.QuickReplies)

	// Catalog collaborator views
	r.Get("/catalog/nearby", h.CatalogNearby)
	r.Get("/catalog/recent", h.CatalogRecent)

	return r
}
