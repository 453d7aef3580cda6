package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/stageorder/internal/adapters/http/api"
	"github.com/okian/stageorder/internal/adapters/repository"
	app "github.com/okian/stageorder/internal/app"
	"github.com/okian/stageorder/internal/config"
	"github.com/okian/stageorder/internal/domain/features"
	"github.com/okian/stageorder/internal/domain/scheduler"
	"github.com/okian/stageorder/internal/domain/scoring"
	"github.com/okian/stageorder/internal/lineupfile"
	"github.com/okian/stageorder/pkg/logger"
	"github.com/okian/stageorder/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 70 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "stageorder exited with error", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional dotenv -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.LogFormat != "text" {
		if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}
	log := logger.Get()
	defer func() { _ = logger.Sync() }()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithScheduler(buildScheduler(cfg)),
		app.WithStore(store),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithBatchLimit(cfg.BatchLimit),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	apiServer := api.NewServer(svc,
		api.WithAuthSecret(cfg.AuthSecret),
		api.WithLogger(log.Named("http")),
	)
	srv := newHTTPServer(cfg.Addr, apiServer.Router(ctx))

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// buildScheduler applies the configured keyword locale and weights.
func buildScheduler(cfg *config.Config) *scheduler.Scheduler {
	parser := features.NewKeywordParser(features.KeywordsForLocale(cfg.PreferenceLocale))
	return scheduler.New(
		scheduler.WithFeatureBuilder(features.NewBuilder(features.WithPreferenceParser(parser))),
		scheduler.WithScorer(scoring.NewScorer(scoring.WithWeights(cfg.Weights))),
	)
}

// openStore picks Postgres when a database URL is configured, otherwise an
// in-memory store seeded from the lineup file.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	if cfg.DatabaseURL != "" {
		store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL,
			repository.WithPostgresLogger(log.Named("postgres")),
		)
		if err != nil {
			return nil, fmt.Errorf("open lineup store: %w", err)
		}
		return store, nil
	}

	var opts []repository.MemoryOption
	if cfg.LineupFile != "" {
		lineups, err := lineupfile.Load(cfg.LineupFile)
		if err != nil {
			return nil, fmt.Errorf("seed lineup store: %w", err)
		}
		opts = append(opts, repository.WithLineups(lineups...))
		log.Info(ctx, "lineup store seeded",
			logger.String("file", cfg.LineupFile),
			logger.Int("lineups", len(lineups)),
		)
	}
	return repository.NewMemoryStore(opts...), nil
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater refreshes process gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
