// Package main is the entry point for the donation raffle server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main" package.
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars or a .env file)
// 2. Create dependencies (logger, database connections, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
// This separation makes the app testable and its components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/donation-raffle/internal/server"
)

func main() {
	// === 1. LOAD .env (OPTIONAL) ===
	// godotenv reads KEY=VALUE pairs from a local .env file into the
	// process environment. Missing file is fine — production supplies real
	// env vars, .env is a development convenience.
	_ = godotenv.Load()

	// === 2. SET UP LOGGING ===
	// slog.New creates a structured logger. slog.NewTextHandler outputs human-readable logs.
	//
	// Log levels (from least to most severe): Debug → Info → Warn → Error
	// In production, you'd use LevelInfo or LevelWarn to reduce noise.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 3. READ CONFIGURATION ===
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// The "web" directory sits at the project root, so running with
	// `go run ./cmd/server` from the root finds it directly.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// DB_PATH env var allows overriding for production deployments.
	// Example: DB_PATH=/var/lib/raffle/prod.db
	dbPath := "data/raffle.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// Ensure the data directory exists (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 4. DRAW DEADLINE ===
	// DRAW_DEADLINE is RFC3339 (e.g. 2026-10-01T18:00:00Z). If unset, the
	// raffle closes 30 days from startup — the same default the first
	// version of the countdown used, just computed once instead of per visitor.
	deadline := time.Now().Add(30 * 24 * time.Hour)
	if raw := os.Getenv("DRAW_DEADLINE"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			logger.Error("invalid DRAW_DEADLINE value (want RFC3339)",
				slog.String("value", raw),
			)
			os.Exit(1)
		}
		deadline = parsed
	}

	// === 5. OPERATOR AUTH CONFIGURATION ===
	// JWT_SECRET must be a long random string:  JWT_SECRET=$(openssl rand -hex 32)
	// OPERATOR_KEY_HASH is a bcrypt hash of the operator key (see internal/auth/key.go).
	// If either is unset, the server still starts — with the admin API disabled.
	jwtSecret := os.Getenv("JWT_SECRET")
	operatorKeyHash := os.Getenv("OPERATOR_KEY_HASH")

	// === 6. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:            port,
		TemplateDir:     templateDir,
		StaticDir:       staticDir,
		DBPath:          dbPath,
		JWTSecret:       jwtSecret,
		OperatorKeyHash: operatorKeyHash,
		DrawDeadline:    deadline,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
