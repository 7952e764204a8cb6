// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/driftlab/driftwatch/internal/api"
	"github.com/driftlab/driftwatch/internal/mcpserver"
	"github.com/driftlab/driftwatch/internal/oracle"
	"github.com/driftlab/driftwatch/internal/pipeline"
	"github.com/driftlab/driftwatch/internal/sse"
	"github.com/driftlab/driftwatch/internal/store"
)

func buildApp(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.oracle == nil {
		client, err := oracle.NewClient(oracle.Config{
			APIKey:  app.config.Oracle.APIKey,
			Model:   app.config.Oracle.Model,
			BaseURL: app.config.Oracle.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init oracle: %w", err)
		}
		app.oracle = client
	}
	return app, nil
}

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := buildApp(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("oracle_model", cfg.Oracle.Model),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize snapshot store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Analysis pipeline over store + oracle.
	pipe := pipeline.New(db, app.oracle)

	// SSE broker for analysis events.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build API router.
	apiRouter := api.NewRouter(pipe, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the analysis tools over MCP stdio transport instead of HTTP.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := buildApp(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Logs go to stderr: stdout is the MCP transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	pipe := pipeline.New(db, app.oracle)
	srv := mcpserver.New(pipe, db)

	logger.Info("Serving MCP over stdio", slog.String("sqlite_path", cfg.SQLite.Path))
	return srv.ServeStdio()
}
