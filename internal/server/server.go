package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/rl-allocator/internal/modules/allocation"
	"github.com/aristath/rl-allocator/internal/modules/assets"
)

// Config holds server configuration
type Config struct {
	Port              int
	Log               zerolog.Logger
	DevMode           bool
	AllocationHandler *allocation.Handler
	AssetsHandler     *assets.Handler
	RequestRepo       *allocation.RequestRepository
	Cache             *allocation.Cache
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	allocationHandler *allocation.Handler
	assetsHandler     *assets.Handler
	requestRepo       *allocation.RequestRepository
	cache             *allocation.Cache
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:            chi.NewRouter(),
		log:               cfg.Log.With().Str("component", "server").Logger(),
		allocationHandler: cfg.AllocationHandler,
		assetsHandler:     cfg.AssetsHandler,
		requestRepo:       cfg.RequestRepo,
		cache:             cfg.Cache,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // training a universe can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/optimal-weights", s.allocationHandler.HandleOptimalWeights)

		r.Route("/assets", func(r chi.Router) {
			r.Get("/{exchange}/{symbol}/stats", s.assetsHandler.HandleStats)
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
