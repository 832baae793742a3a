package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/solemate/solemate/internal/handler"
	"github.com/solemate/solemate/internal/server/middleware"
	"github.com/solemate/solemate/internal/service"
	"github.com/solemate/solemate/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host                 string
	Port                 int
	ShutdownTimeout      time.Duration
	CORSOrigins          []string
	LoginRatePerMinute   int
	RequestRatePerMinute int
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:                 "0.0.0.0",
		Port:                 8080,
		ShutdownTimeout:      30 * time.Second,
		CORSOrigins:          []string{"*"},
		LoginRatePerMinute:   10,
		RequestRatePerMinute: 600,
	}
}

// Server is the top-level HTTP server. It owns the Chi router, the store,
// and the authentication service.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	authSvc    *service.AuthService
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st *store.Store, authSvc *service.AuthService, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		authSvc: authSvc,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.RateLimit(s.cfg.RequestRatePerMinute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))

	authHandler := handler.NewAuthHandler(s.store, s.authSvc)
	productHandler := handler.NewProductHandler(s.store)
	cartHandler := handler.NewCartHandler(s.store)
	orderHandler := handler.NewOrderHandler(s.store)
	userHandler := handler.NewUserHandler(s.store)

	// --- Health checks (no auth required) ---
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	// --- Public routes ---
	r.Post("/auth/register", authHandler.Register)
	r.With(middleware.LoginRateLimit(s.cfg.LoginRatePerMinute)).
		Post("/auth/login", authHandler.Login)
	r.Get("/products", productHandler.List)
	r.Get("/products/{productID}", productHandler.Get)

	// --- Authenticated routes ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(s.authSvc))

		r.Get("/auth/me", authHandler.Me)

		r.Get("/cart", cartHandler.List)
		r.Post("/cart", cartHandler.Add)
		r.Delete("/cart", cartHandler.Clear)
		r.Delete("/cart/{itemID}", cartHandler.Remove)

		r.Post("/orders", orderHandler.Create)
		r.Get("/orders", orderHandler.ListMine)
		r.Get("/orders/{orderID}", orderHandler.GetMine)
		r.Delete("/orders/{orderID}", orderHandler.Cancel)
	})

	// --- Admin routes ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(s.authSvc))
		r.Use(middleware.RequireAdmin())

		r.Get("/users", userHandler.List)
		r.Get("/users/{userID}", userHandler.Get)
		r.Put("/users/{userID}/deactivate", userHandler.Deactivate)

		r.Post("/products", productHandler.Create)
		r.Put("/products/{productID}", productHandler.Update)
		r.Delete("/products/{productID}", productHandler.Delete)

		r.Get("/orders/all", orderHandler.ListAll)
		r.Get("/orders/all/{orderID}", orderHandler.GetAny)
		r.Put("/orders/{orderID}/status", orderHandler.UpdateStatus)
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the database is
// reachable, 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
