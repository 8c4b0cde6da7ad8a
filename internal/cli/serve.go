package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kuberocketai/contenthub/internal/config"
	logpkg "github.com/kuberocketai/contenthub/internal/logger"
	"github.com/kuberocketai/contenthub/internal/metrics"
	chiTransport "github.com/kuberocketai/contenthub/internal/transport/chi"
	hubuc "github.com/kuberocketai/contenthub/internal/usecase/hub"
	"github.com/kuberocketai/contenthub/internal/version"
	"github.com/kuberocketai/contenthub/internal/watch"
)

func newServeCmd(gf *globalFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := gf.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if port > 0 {
				cfg.HTTP.Port = port
			}
			return runServe(cmd.Context(), gf.environment(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override http.port")
	return cmd
}

func runServe(ctx context.Context, env string, cfg config.Config) error {
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger, err = logpkg.WithFile(logger, logpkg.FileConfig{
		Path:       cfg.Logging.File,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting contenthub API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("content_driver", cfg.Content.Driver),
	)

	// Register content metrics explicitly (no init())
	metrics.RegisterContentMetrics()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.load(ctx); err != nil {
		logger.Warn("Some collections failed to load", zap.Error(err))
	}
	logAvailable(ctx, a, logger)

	sessions := hubuc.NewSessionStore(
		time.Duration(cfg.Sessions.TTLSec)*time.Second,
		time.Duration(cfg.Sessions.DebounceMs)*time.Millisecond,
	)
	defer sessions.Close()

	server := chiTransport.NewServer(a.hub, sessions, a.health, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Content.Watch && a.files != nil {
		w, err := watch.New(a.files, a.hub,
			watch.WithDelay(time.Duration(cfg.Content.ReloadDebounceMs)*time.Millisecond),
			watch.WithTimeout(time.Duration(cfg.Content.LoadTimeoutSec)*time.Second),
			watch.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer func() { _ = w.Close() }()
		g.Go(func() error { return w.Run(gctx) })
	}

	if cfg.Content.RefreshIntervalSec > 0 {
		interval := time.Duration(cfg.Content.RefreshIntervalSec) * time.Second
		g.Go(func() error {
			refreshLoop(gctx, a.hub, interval, logger)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr), zap.String("source", a.sourceName()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// refresher reloads every collection.
type refresher interface {
	RefreshAll(ctx context.Context) error
}

func refreshLoop(ctx context.Context, r refresher, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RefreshAll(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Periodic refresh failed", zap.Error(err))
			}
		}
	}
}

// logAvailable reports which collections exist in Redis; missing keys show up as load errors.
func logAvailable(ctx context.Context, a *app, logger *zap.Logger) {
	if a.redis == nil {
		return
	}
	types, err := a.redis.Available(ctx)
	if err != nil {
		logger.Warn("Failed to list content keys", zap.Error(err))
		return
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	logger.Info("Content keys found", zap.Strings("types", names))
}
