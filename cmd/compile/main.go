// Command compile turns the markdown corpus into the JSON article artifact.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"kbgraph/infrastructure/config"
	"kbgraph/infrastructure/di"
	"kbgraph/infrastructure/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	srcDir   string
	outFile  string
	watchDir bool

	rootCmd = &cobra.Command{
		Use:           "compile",
		Short:         "Compile the markdown corpus into the article dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.Flags().StringVar(&srcDir, "src", "", "corpus root directory (default $ARTICLES_DIR)")
	rootCmd.Flags().StringVar(&outFile, "out", "", "artifact path (default $ARTIFACT_PATH)")
	rootCmd.Flags().BoolVar(&watchDir, "watch", false, "recompile whenever a document changes")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "compile:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if srcDir != "" {
		cfg.ArticlesDir = srcDir
	}
	if outFile != "" {
		cfg.ArtifactPath = outFile
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer container.Shutdown(context.Background())

	if !watchDir {
		return compileOnce(ctx, container)
	}

	return watchAndCompile(ctx, container)
}

func compileOnce(ctx context.Context, container *di.Container) error {
	_, err := container.Compiler.Run(ctx, container.Config.ArticlesDir)
	writeTextfile(container)
	return err
}

// watchAndCompile compiles once, then again after every quiet period
// following a document change. A failed rebuild leaves the previous artifact.
func watchAndCompile(ctx context.Context, container *di.Container) error {
	logger := container.Logger
	root := container.Config.ArticlesDir
	ext := container.DomainConfig.DocumentExtension

	if err := compileOnce(ctx, container); err != nil {
		logger.Warn("Initial compile failed, waiting for changes", zap.Error(err))
	}

	watcher, err := watch.NewWatcher(watch.Options{
		Roots:     []string{root},
		Recursive: true,
		Match:     func(path string) bool { return strings.HasSuffix(path, ext) },
		Debounce:  container.Config.WatchDebounce(),
	}, logger)
	if err != nil {
		return err
	}

	watcher.OnChange(func(changed []string) {
		logger.Info("Documents changed, recompiling", zap.Int("changed", len(changed)))
		if err := compileOnce(ctx, container); err != nil {
			logger.Error("Recompile failed", zap.Error(err))
		}
	})

	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	logger.Info("Watching corpus", zap.String("root", root))
	<-ctx.Done()
	logger.Info("Watch stopped")
	return nil
}

func writeTextfile(container *di.Container) {
	path := container.Config.MetricsTextfile
	if path == "" {
		return
	}
	if err := container.Metrics.WriteTextfile(path); err != nil {
		container.Logger.Warn("Failed to write metrics textfile",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}
