// Package server boots the HTTP API: config, logging, database, storage,
// cache, and the request pipeline, then serves until interrupted.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/vastra/app/controllers"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/routes"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/router"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// Start wires every dependency and runs the HTTP server until SIGINT or
// SIGTERM, then drains in-flight requests before returning.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}
	logger.Setup()

	db, err := database.Open()
	if err != nil {
		return fmt.Errorf("server: open database: %w", err)
	}

	disk, err := buildDisk(context.Background())
	if err != nil {
		return fmt.Errorf("server: init storage: %w", err)
	}

	store, err := cache.Connect()
	if err != nil {
		// The category cache is an optimisation; run without it.
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
		store = nil
	}

	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db, store)
	images := services.NewImageService(disk)
	catalog := services.NewCatalogService(productRepo, categoryRepo, images)

	r := router.New()
	routes.RegisterAPI(r,
		controllers.NewProductController(catalog),
		controllers.NewCategoryController(catalog),
	)

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	logger.Info("server: stopped")
	return nil
}

// buildDisk constructs the image disk named by STORAGE_DISK.
func buildDisk(ctx context.Context) (storage.Disk, error) {
	switch config.StorageDisk() {
	case "s3":
		return storage.NewS3Disk(ctx, storage.S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return storage.NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()), nil
	}
}
