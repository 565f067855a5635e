// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
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

	"github.com/nordveil/tblog/internal/api"
	"github.com/nordveil/tblog/internal/auth"
	"github.com/nordveil/tblog/internal/content"
	"github.com/nordveil/tblog/internal/i18n"
	"github.com/nordveil/tblog/internal/prefs"
	"github.com/nordveil/tblog/internal/resolver"
	"github.com/nordveil/tblog/internal/sse"
	"github.com/nordveil/tblog/internal/store"
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
	if app.catalog == nil {
		app.catalog = i18n.Default()
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure the posts directory exists.
	if err := os.MkdirAll(cfg.Content.Path, 0o755); err != nil {
		return fmt.Errorf("create posts dir: %w", err)
	}

	// Initialize content store.
	cs, err := content.NewStore(cfg.Content.Path, logger)
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}

	// Initialize SQLite metadata store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build resolver and API router.
	res := resolver.New(db, cs, resolver.Config{
		DefaultPageSize: cfg.Blog.PostsPerPage,
		MaxPageSize:     cfg.Blog.MaxPageSize,
		ListingTTL:      cfg.Blog.ListingTTL,
	}, logger)

	var signer *auth.Signer
	if cfg.Auth.AuthEnabled() {
		signer = auth.NewSigner(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	}
	apiRouter := api.NewRouter(res, cfg.Auth.AuthEnabled(), signer, broker)

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

	// Site bootstrap config for clients: theme defaults and locales.
	r.Get("/api/site", siteHandler(cfg, app.catalog))

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start content watcher: invalidate listings and notify SSE clients.
	g.Go(func() error {
		err := content.Watch(gCtx, cs, logger, func(kind, slug string) {
			res.InvalidateListings()
			broker.PublishContentEvent(kind, slug)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("content watcher stopped", slog.String("error", err.Error()))
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

type siteLocale struct {
	Code string `json:"code"`
	RTL  bool   `json:"rtl"`
}

type siteConfig struct {
	DefaultTheme  string       `json:"default_theme"`
	EnableSystem  bool         `json:"enable_system_theme"`
	DefaultLocale string       `json:"default_locale"`
	Locales       []siteLocale `json:"locales"`
}

func siteHandler(cfg *Config, catalog *i18n.Catalog) http.HandlerFunc {
	// The configured locale list selects which catalog tables are offered.
	locales := make([]siteLocale, 0, len(cfg.I18n.Locales))
	for _, code := range cfg.I18n.Locales {
		l := prefs.Locale(code)
		if !catalog.Supported(l) {
			slog.Warn("i18n: configured locale has no translation table", slog.String("locale", code))
			continue
		}
		locales = append(locales, siteLocale{Code: code, RTL: prefs.IsRTL(l)})
	}
	site := siteConfig{
		DefaultTheme:  cfg.Theme.Default,
		EnableSystem:  cfg.Theme.EnableSystem,
		DefaultLocale: cfg.I18n.DefaultLocale,
		Locales:       locales,
	}

	payload, _ := json.Marshal(site)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}
}
