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

	"github.com/quillon/fontgrove/internal/api"
	"github.com/quillon/fontgrove/internal/catalog"
	"github.com/quillon/fontgrove/internal/fonts"
	"github.com/quillon/fontgrove/internal/fontservice"
	"github.com/quillon/fontgrove/internal/mcpserver"
	"github.com/quillon/fontgrove/internal/sse"
	"github.com/quillon/fontgrove/internal/vcs"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("engine_datadir", cfg.Engine.Datadir),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Load the installed font registry from the engine's font tree.
	installed, err := fonts.NewInstalled(cfg.Engine.Datadir)
	if err != nil {
		return fmt.Errorf("load installed fonts: %w", err)
	}

	// Open the SQLite catalog.
	db, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build the font service; registry changes go out over SSE.
	svc := fontservice.NewService(installed, db, logger, broker.PublishFontEvent)

	// Initial catalog sync.
	if err := catalog.Sync(db, installed, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// VCS document tracker.
	tracker := vcs.NewTracker(vcs.DefaultResolvers())
	if !vcs.GitAvailable() {
		logger.Warn("git not found on host, git tracking disabled")
	}

	if app.mcpStdio {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc, vcs.DefaultResolvers()).ServeStdio()
	}

	// Build API router.
	apiRouter := api.NewRouter(svc, tracker, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, broker.PublishVCSEvent)

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

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the installed font tree for out-of-band changes.
	g.Go(func() error {
		err := catalog.Watch(gCtx, installed.FontRoot(), logger, func() {
			if rescanErr := svc.Rescan(gCtx); rescanErr != nil {
				logger.Warn("rescan failed", slog.String("error", rescanErr.Error()))
			}
		})
		if err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

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

		broker.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
