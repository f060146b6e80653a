package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gpascual/shotbypascual/internal/config"
	"github.com/gpascual/shotbypascual/internal/database"
	"github.com/gpascual/shotbypascual/internal/handlers"
	"github.com/gpascual/shotbypascual/internal/mailer"
	"github.com/gpascual/shotbypascual/internal/metrics"
	"github.com/gpascual/shotbypascual/internal/middleware"
	"github.com/gpascual/shotbypascual/internal/ratelimit"
	"github.com/gpascual/shotbypascual/internal/repository"
	"github.com/gpascual/shotbypascual/internal/repository/postgres"
	"github.com/gpascual/shotbypascual/internal/repository/sqlite"
	"github.com/gpascual/shotbypascual/internal/static"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting shotbypascual",
		"port", cfg.Port,
		"database_type", cfg.DatabaseType,
		"mail_provider", cfg.MailProvider,
		"rate_limit_messages", cfg.RateLimitMessages,
		"rate_limit_window_days", cfg.RateLimitWindowDays,
		"rate_limit_fail_mode", cfg.RateLimitFailMode,
	)

	// Initialize the rate-limit store
	repos, cleanup, err := setupRepositories(cfg)
	if err != nil {
		slog.Error("failed to initialize rate limit store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	slog.Info("rate limit store initialized", "type", repos.DatabaseType)

	// Rate limiter with background cleanup of expired records
	limiter := ratelimit.New(repos.RateLimits, cfg.RateLimitMessages, cfg.RateLimitWindow(), cfg.FailOpen())
	limiter.StartCleanup(time.Duration(cfg.CleanupIntervalMinutes) * time.Minute)
	defer limiter.Stop()

	// Email dispatch
	dispatcher := setupDispatcher(cfg)
	composer := &mailer.Composer{
		From:         cfg.MailFrom,
		OwnerEmail:   cfg.OwnerEmail,
		SiteURL:      cfg.SiteURL,
		PortfolioURL: cfg.PortfolioURL,
		InstagramURL: cfg.InstagramURL,
	}

	// Record start time for health checks
	startTime := time.Now()

	// Setup HTTP router
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contact", handlers.ContactHandler(cfg, repos.Health, limiter, composer, dispatcher))
	mux.HandleFunc("/health", handlers.HealthHandler(repos, startTime))
	mux.Handle("/metrics", handlers.MetricsHandler())
	mux.Handle("/assets/", static.Handler())

	// SPA shell: every other path serves index.html so client-side routes work
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fs := static.FileSystem()
		file, err := fs.Open("index.html")
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		http.ServeContent(w, r, "index.html", stat.ModTime(), file.(io.ReadSeeker))
	})

	// Wrap with middleware (order: Recovery -> Logging -> Security -> Metrics -> handlers)
	handler := middleware.RecoveryMiddleware(
		middleware.LoggingMiddleware(
			middleware.SecurityHeadersMiddleware(
				metrics.Middleware(mux),
			),
		),
	)

	// Setup HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Setup graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		slog.Error("server error", "error", err)
		os.Exit(1)

	case sig := <-shutdown:
		slog.Info("shutdown signal received", "signal", sig)

		// Give outstanding requests 10 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			if err := server.Close(); err != nil {
				slog.Error("server close failed", "error", err)
			}
			os.Exit(1)
		}

		slog.Info("server shutdown complete")
	}
}

// setupRepositories selects the configured storage backend. The returned
// cleanup function closes the underlying connections.
func setupRepositories(cfg *config.Config) (*repository.Repositories, func(), error) {
	switch cfg.DatabaseType {
	case repository.DatabaseTypePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, int32(cfg.MaxDBConns))
		if err != nil {
			return nil, nil, err
		}
		repos, err := postgres.NewRepositories(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repos, pool.Close, nil

	default: // sqlite
		db, err := database.Initialize(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		repos, err := sqlite.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repos, func() { db.Close() }, nil
	}
}

// setupDispatcher selects the configured email provider.
func setupDispatcher(cfg *config.Config) mailer.Dispatcher {
	if cfg.MailProvider == "smtp" {
		return mailer.NewSMTPDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPSSL)
	}
	return mailer.NewResendDispatcher(cfg.ResendAPIKey)
}
