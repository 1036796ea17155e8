// Package main is the entry point for the blog server. It reads
// configuration from the environment, builds the logger, and hands both to
// internal/server; all actual logic lives in the imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/inkwell/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// SESSION_SECRET signs every session cookie. There is no sane default;
	// a missing secret is a misconfiguration and the process must not start.
	// Generate one with: openssl rand -hex 32
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logger.Error("SESSION_SECRET is not set")
		os.Exit(1)
	}

	// DB_PATH overrides the local-file default, e.g. for deployments that
	// mount a data volume elsewhere.
	dbPath := "data/blog.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	templateDir := "web/templates"
	if envTmpl := os.Getenv("TEMPLATE_DIR"); envTmpl != "" {
		templateDir = envTmpl
	}

	cfg := server.Config{
		Port:          port,
		TemplateDir:   templateDir,
		DBPath:        dbPath,
		SessionSecret: sessionSecret,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
