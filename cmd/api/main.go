package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mandalnilabja/clickworker/internal/app"
	"github.com/mandalnilabja/clickworker/internal/config"
	"github.com/mandalnilabja/clickworker/internal/storage"
	"github.com/mandalnilabja/clickworker/internal/transport/http/handler"
	"github.com/mandalnilabja/clickworker/internal/ui"
	"github.com/mandalnilabja/clickworker/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("clickworker stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.EnsureConfigFile(); err != nil {
		slog.Warn("could not write default config file", "error", err)
	}
	cfg := config.Load()
	logger := setupLogger(cfg, os.Stdout)

	if err := config.EnsureDataDir(); err != nil {
		return err
	}

	// 1. Round trip history
	db, err := storage.Open(config.DBPath())
	if err != nil {
		return err
	}
	cache, err := storage.NewRoundTripCache()
	if err != nil {
		db.Close()
		return err
	}
	store := storage.NewCached(db, cache)
	defer store.Close()

	// 2. Worker endpoint in its own goroutine
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipe := worker.NewPipe(cfg.WorkerQueueSize)
	endpoint := worker.NewEndpoint(pipe, worker.Echo(logger), logger)
	client := worker.NewClient(pipe, logger)

	workerDone := make(chan error, 1)
	go func() { workerDone <- endpoint.Run(context.Background()) }()

	// 3. UI controller and HTTP surface
	ctrl := ui.New(client, store, logger)
	repo := handler.NewRepo(ctrl, store, logger)
	router := app.NewRouter(repo, &app.RouterOptions{
		EnableWebUI: cfg.EnableWebUI,
		Logger:      logger,
	})
	server := app.NewServer(cfg, router, logger)

	printStartupBanner(cfg)

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Start() }()

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Order matters: stop new clicks, let round trips finish, then close the
	// worker boundary.
	shutdownErr := server.Shutdown(shutdownCtx)
	if cerr := ctrl.Shutdown(shutdownCtx); cerr != nil {
		shutdownErr = errors.Join(shutdownErr, fmt.Errorf("controller shutdown: %w", cerr))
	}
	client.Close()
	if werr := <-workerDone; werr != nil {
		shutdownErr = errors.Join(shutdownErr, werr)
	}

	return errors.Join(err, shutdownErr)
}
