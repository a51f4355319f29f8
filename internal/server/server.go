package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
	appmiddleware "github.com/information-sharing-networks/blog-demo/internal/server/middleware"
	"github.com/information-sharing-networks/blog-demo/internal/server/handlers"
	"github.com/information-sharing-networks/blog-demo/internal/store"
	"github.com/information-sharing-networks/blog-demo/internal/version"
)

type Server struct {
	store  store.PostStore
	config *config.ServerEnvironment
	logger *slog.Logger
	router *chi.Mux
}

func NewServer(
	s store.PostStore,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) *Server {
	server := &Server{
		store:  s,
		config: cfg,
		logger: logger,
		router: chi.NewRouter(),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

// Router returns the configured handler. Used by tests that serve the API with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(middleware.Recoverer)
	if s.config.HandlerTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.HandlerTimeout))
	}
	s.router.Use(appmiddleware.SecurityHeaders(s.config.Environment))
	if s.config.MaxRequestBodyBytes > 0 {
		s.router.Use(appmiddleware.RequestSizeLimit(s.config.MaxRequestBodyBytes))
	}
	s.router.Use(appmiddleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
}

func (s *Server) registerRoutes() {
	posts := handlers.NewPostHandler(s.store)

	s.router.Route("/posts", func(r chi.Router) {
		r.Get("/", posts.HandleListPosts)
		r.Post("/", posts.HandleCreatePost)
		r.Get("/{id}", posts.HandleGetPost)
		r.Put("/{id}", posts.HandleUpdatePost)
		r.Delete("/{id}", posts.HandleDeletePost)
	})

	s.router.Get("/health/live", handlers.HandleHealth)
	s.router.Get("/health/ready", handlers.HandleReadiness(s.store))
	s.router.Get("/version", handlers.HandleVersion(version.Get(), s.store.Backend()))
	s.router.Get("/docs/swagger.json", handlers.HandleSwaggerJSON)
}

// Start listens on the configured host and port and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	serverAddr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))

	listener, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on an existing listener until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", listener.Addr().String()),
			slog.String("backend", s.store.Backend()))

		err := httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// DatabaseShutdown closes the store. Call after Start returns.
func (s *Server) DatabaseShutdown() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("failed to close store", slog.String("error", err.Error()))
	}
}
