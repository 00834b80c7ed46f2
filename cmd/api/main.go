package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"kbgraph/infrastructure/config"
	"kbgraph/infrastructure/di"
	"kbgraph/infrastructure/watch"

	"go.uber.org/zap"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	// Initial load. The server still starts without a dataset and reports
	// not ready until the artifact appears.
	reload(ctx, container)

	stopWatch := watchArtifact(ctx, container)
	defer stopWatch()

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      container.Router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("artifact", cfg.ArtifactPath),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shut down cleanly: %v", err)
	}

	log.Println("Server stopped")
}

func reload(ctx context.Context, container *di.Container) {
	err := container.Registry.Reload(ctx)

	articles := 0
	if svc := container.Registry.Current(); svc != nil {
		articles = svc.Len()
	}
	container.Metrics.ObserveReload(err, articles)

	if err != nil {
		container.Logger.Warn("Article dataset not reloaded", zap.Error(err))
	}
}

// watchArtifact reloads the dataset wholesale whenever the artifact file is
// replaced. The parent directory is watched because the store renames a
// temporary file over the artifact; it is created if the compiler has not
// run yet.
func watchArtifact(ctx context.Context, container *di.Container) func() {
	artifactPath := filepath.Clean(container.Config.ArtifactPath)

	watcher, err := watch.NewWatcher(watch.Options{
		Roots:       []string{filepath.Dir(artifactPath)},
		Match:       func(path string) bool { return filepath.Clean(path) == artifactPath },
		Debounce:    container.Config.WatchDebounce(),
		CreateRoots: true,
	}, container.Logger)
	if err != nil {
		container.Logger.Warn("Artifact watch disabled", zap.Error(err))
		return func() {}
	}

	watcher.OnChange(func([]string) {
		container.Logger.Info("Artifact changed, reloading")
		reload(ctx, container)
	})

	if err := watcher.Start(); err != nil {
		container.Logger.Warn("Artifact watch disabled", zap.Error(err))
		return func() {}
	}

	return watcher.Stop
}
