// Package main is the entry point for the brochure-service HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/asset"
	"github.com/franchisehub/brochure-service/internal/brochure"
	"github.com/franchisehub/brochure-service/internal/config"
	"github.com/franchisehub/brochure-service/internal/server"
	"github.com/franchisehub/brochure-service/internal/service"
	"github.com/franchisehub/brochure-service/internal/storage"
)

func main() {
	// run() keeps deferred cleanup working; os.Exit skips defers.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("BROCHURE_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; not a real problem.
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store, err := storage.NewFileStore(cfg.Storage.ObjectDir)
	if err != nil {
		return fmt.Errorf("creating object store: %w", err)
	}

	brands := storage.NewBrandRepository(db)
	loader := asset.NewLoader(cfg.Brochure.AssetTimeout(), logger)
	generator := brochure.NewGenerator(loader, logger)
	brochures := service.NewBrochureService(brands, store, generator, cfg.Brochure.PublicBaseURL, logger)

	srv := server.New(cfg, server.Deps{Brochures: brochures, Brands: brands}, logger)

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
