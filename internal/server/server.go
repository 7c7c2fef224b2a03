// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go reads config and creates the logger, then:
//
//	Server.New() creates: sqlite.DB → IntakeService/ScoreService → handlers
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
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

	"github.com/sakif/donation-raffle/internal/auth"
	"github.com/sakif/donation-raffle/internal/handler"
	"github.com/sakif/donation-raffle/internal/middleware"
	sqliteRepo "github.com/sakif/donation-raffle/internal/repository/sqlite"
	"github.com/sakif/donation-raffle/internal/service"
)

// Config holds server configuration.
// Using a struct for config (instead of individual parameters) makes it easy to:
// - Add new config options without changing function signatures
// - Pass config around as a single value
// - Load config from files/env vars in one place
type Config struct {
	Port            int
	TemplateDir     string
	StaticDir       string
	DBPath          string    // path to the SQLite database file
	JWTSecret       string    // signs operator tokens; empty disables the admin API
	OperatorKeyHash string    // bcrypt hash of the operator key; empty disables the admin API
	DrawDeadline    time.Time // when the raffle closes — drives the countdown
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection (db). When the server shuts down,
// we must close it to flush any pending writes and release the file lock.
// This is handled in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// This is where the entire dependency chain is assembled:
//  1. Create the database connection (sqlite.New)
//  2. Create the services with the repository interfaces
//  3. Create the handlers with the services
//  4. Wire handlers to routes
//
// Each layer only receives what it needs:
// - Services get repository interfaces (not the concrete sqlite.DB)
// - Handlers get services (not the repositories or DB)
//
// IMPORT ALIAS:
// We import repository/sqlite as `sqliteRepo` to avoid confusion with
// the sqlite driver package.
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
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                        → leaderboard page (HTML)
//	GET  /static/*                → static files (CSS, JS)
//	GET  /healthz                 → liveness probe
//	POST /register                → register a participant (JSON)
//	POST /donate                  → submit a donation + optional referral
//	GET  /sync-scores             → fold approved rows into the score table
//	GET  /top-donors              → donor leaderboard
//	GET  /top-referrals           → referrer leaderboard
//	GET  /top-scores              → persisted score leaderboard
//	GET  /campaign                → draw deadline for the countdown
//	POST /admin/login             → exchange operator key for a JWT
//	GET  /admin/pending           → review queue           (operator token)
//	POST /admin/donations/status  → approve/reject         (operator token)
//	POST /admin/referrals/status  → approve/reject         (operator token)
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info and the request ID
func (s *Server) setupRoutes() error {
	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500

	// Our custom logging middleware
	s.router.Use(middleware.Logger(s.logger))

	// === Static Files ===
	// GET /static/css/style.css → serves {StaticDir}/css/style.css
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Services ===
	// s.db implements all four repository interfaces — the services each
	// receive only the slices of it they actually use.
	intakeService := service.NewIntakeService(s.db, s.db, s.db, s.logger)
	scoreService := service.NewScoreService(s.db, s.db, s.db, s.logger)

	// === Page Routes ===
	boardHandler, err := handler.NewBoardHandler(s.config.TemplateDir, s.config.DrawDeadline, s.logger)
	if err != nil {
		return fmt.Errorf("creating board handler: %w", err)
	}
	s.router.Get("/", boardHandler.HandleBoard)
	s.router.Get("/campaign", boardHandler.HandleCampaign)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// === Public API Routes ===
	// The route paths are flat (no /api prefix) because the front-end JS
	// and the operator bookmarks predate this rewrite — same wire surface.
	intakeHandler := handler.NewIntakeHandler(intakeService, s.logger)
	scoresHandler := handler.NewScoresHandler(scoreService, s.logger)

	s.router.Post("/register", intakeHandler.HandleRegister)
	s.router.Post("/donate", intakeHandler.HandleDonate)
	s.router.Get("/sync-scores", scoresHandler.HandleSyncScores)
	s.router.Get("/top-donors", scoresHandler.HandleTopDonors)
	s.router.Get("/top-referrals", scoresHandler.HandleTopReferrals)
	s.router.Get("/top-scores", scoresHandler.HandleTopScores)

	// === Admin Routes ===
	// Registered only when both auth secrets are configured — the public
	// raffle works fine without them, you just can't approve anything.
	if s.config.JWTSecret == "" || s.config.OperatorKeyHash == "" {
		s.logger.Warn("JWT_SECRET or OPERATOR_KEY_HASH not set — admin API is disabled")
		return nil
	}

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	adminHandler := handler.NewAdminHandler(intakeService, tokens, s.config.OperatorKeyHash, s.logger)

	s.router.Route("/admin", func(r chi.Router) {
		r.Post("/login", adminHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireOperator(tokens))
			r.Get("/pending", adminHandler.HandlePending)
			r.Post("/donations/status", adminHandler.HandleDonationStatus)
			r.Post("/referrals/status", adminHandler.HandleReferralStatus)
			// Same handler as the public route — here for operators who
			// script the whole approve-then-sync flow against /admin.
			r.Get("/sync-scores", scoresHandler.HandleSyncScores)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// If we skip step 3, the database file might be left in an inconsistent state.
// The `defer s.db.Close()` ensures this happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	// Create the HTTP server with sensible timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine (so it doesn't block)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Time("drawDeadline", s.config.DrawDeadline),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
