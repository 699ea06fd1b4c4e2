package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/raunak-choudhary/portfolio-admin/internal/config"
	apisignal "github.com/raunak-choudhary/portfolio-admin/internal/signal"
	"github.com/raunak-choudhary/portfolio-admin/internal/storage"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
	"github.com/raunak-choudhary/portfolio-admin/internal/store/postgres"
)

// Application holds the server's shared dependencies.
type Application struct {
	config  *config.Config
	db      *sql.DB
	records store.Store
	objects storage.System
	signals apisignal.Invalidator
	logger  *slog.Logger
}

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logging.Logger()

	db, err := postgres.Open(&cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(&cfg.Database); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	objects, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	var signals apisignal.Invalidator = apisignal.Noop{}
	if cfg.Cache.Enabled {
		bus := apisignal.New(&cfg.Cache, logger)
		defer bus.Close()
		signals = bus
	}

	app := &Application{
		config:  cfg,
		db:      db,
		records: postgres.New(db, logger),
		objects: objects,
		signals: signals,
		logger:  logger,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.routes(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	if err := <-shutdownError; err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
