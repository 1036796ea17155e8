// Package server wires the router, middleware, handlers, and their
// dependencies, and owns the HTTP server lifecycle.
//
// This is the composition root: main.go hands in config and a logger, and
// everything else (database, services, handlers, routes) is assembled here
// in one place.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/handler"
	"github.com/sakif/inkwell/internal/middleware"
	sqliteRepo "github.com/sakif/inkwell/internal/repository/sqlite"
	"github.com/sakif/inkwell/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port          int
	TemplateDir   string
	DBPath        string
	SessionSecret string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer receives only what it needs; handlers never touch the
// database, services never touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// Route table:
//
//	GET      /                 → post listing
//	GET/POST /register         → registration
//	GET/POST /login            → login
//	GET      /logout           → logout
//	GET      /post/{id}        → post + comments
//	POST     /post/{id}        → add comment        (login required)
//	GET      /about            → static page
//	GET/POST /new-post         → create post        (login required)
//	GET/POST /edit-post/{id}   → edit post          (admin required)
//	GET      /delete/{id}      → delete post        (admin required)
func (s *Server) setupRoutes() error {
	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	render, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	users := s.db.Users()
	authSvc := service.NewAuthService(users, auth.NewPasswordService(), s.logger)
	blogSvc := service.NewBlogService(s.db.Posts(), s.db.Comments(), s.logger)

	authHandler := handler.NewAuthHandler(authSvc, sessions, render, s.logger)
	blogHandler := handler.NewBlogHandler(blogSvc, render, s.logger)

	// Global middleware, in order: panics recovered before logging, the
	// current user resolved before any handler runs.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.WithCurrentUser(sessions, users, s.logger))

	// Public routes
	s.router.Get("/", blogHandler.HandleIndex)
	s.router.Get("/about", blogHandler.HandleAbout)
	s.router.Get("/register", authHandler.HandleRegisterPage)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/logout", authHandler.HandleLogout)
	s.router.Get("/post/{id}", blogHandler.HandleShowPost)

	// Login-gated routes
	s.router.With(auth.RequireLogin).Post("/post/{id}", blogHandler.HandleAddComment)
	s.router.With(auth.RequireLogin).Get("/new-post", blogHandler.HandleNewPostPage)
	s.router.With(auth.RequireLogin).Post("/new-post", blogHandler.HandleCreatePost)

	// Admin-gated routes
	s.router.With(auth.RequireAdmin).Get("/edit-post/{id}", blogHandler.HandleEditPostPage)
	s.router.With(auth.RequireAdmin).Post("/edit-post/{id}", blogHandler.HandleEditPost)
	s.router.With(auth.RequireAdmin).Get("/delete/{id}", blogHandler.HandleDeletePost)

	return nil
}

// Handler exposes the router, mainly for tests that drive the full stack
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests (30s budget) and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
