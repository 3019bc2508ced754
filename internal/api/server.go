package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/opensource-trade/skipjack/internal/calc"
	"github.com/opensource-trade/skipjack/internal/catalog"
	"github.com/opensource-trade/skipjack/internal/compare"
	"github.com/opensource-trade/skipjack/internal/currency"
	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/history"
	"github.com/opensource-trade/skipjack/internal/store"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server.
func NewServer(cfg domain.ServerConfig, repo domain.Repository, cache domain.Cache, bus domain.EventBus, st *store.Store, cat *catalog.Catalog, calculator *calc.Calculator, comparer *compare.Engine, cur *currency.Service, hist *history.Service, version string) *Server {
	handler := NewHandler(repo, cache, bus, st, cat, calculator, comparer, cur, hist, version)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for browser clients
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression

	// Health endpoints (no identity required)
	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	// Catalog lookups (no identity required)
	router.Get("/countries", handler.ListCountries)
	router.Get("/products", handler.ListProducts)
	router.Get("/products/{product}/brands", handler.ListBrands)
	router.Get("/currencies", handler.ListCurrencies)

	// API routes (identity required)
	router.Route("/", func(r chi.Router) {
		r.Use(IdentityMiddleware)

		// Cost estimation
		r.Post("/calculate", handler.Calculate)

		// Cross-country comparison
		r.Post("/compare", handler.Compare)

		// Definition management
		r.Get("/definitions/{layer}", handler.ListDefinitions)
		r.Post("/definitions/{layer}", handler.UpsertDefinition)
		r.Delete("/definitions/{id}", handler.DeleteDefinition)

		// Calculation history
		r.Get("/calculations/{id}", handler.GetCalculation)
		r.Get("/history", handler.History)
	})

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the handler for testing.
func (s *Server) Handler() *Handler {
	return s.handler
}
