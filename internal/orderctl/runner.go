package orderctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	service "github.com/okian/stageorder/internal/app"
	"github.com/okian/stageorder/internal/domain/features"
	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/domain/scheduler"
	"github.com/okian/stageorder/internal/domain/types"
	"github.com/okian/stageorder/internal/lineupfile"
	"github.com/okian/stageorder/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0o600
)

// Run executes one orderctl invocation and writes its output to w.
func Run(ctx context.Context, cfg *Config, w io.Writer) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("orderctl")

	lineups, err := collect(cfg)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		return saveLineups(ctx, cfg.Output, lineups)
	}

	var orders []types.RunningOrder
	if cfg.URL != "" {
		orders, err = orderRemote(ctx, cfg, lineups)
	} else {
		orders, err = orderLocal(ctx, cfg, lineups)
	}
	if err != nil {
		return err
	}

	for _, l := range lineups {
		stats.Lineups++
		stats.Bands += len(l.Bands)
	}
	stats.Duration = time.Since(stats.StartTime)
	log.Debug(ctx, "lineups ordered",
		logger.Int("lineups", stats.Lineups),
		logger.Int("bands", stats.Bands),
		logger.Duration("duration", stats.Duration),
	)

	if cfg.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(orders); err != nil {
			return fmt.Errorf("encode orders: %w", err)
		}
		return nil
	}
	return Render(w, orders, cfg.Explain)
}

// collect reads every file, then appends a generated lineup when asked.
func collect(cfg *Config) ([]model.Lineup, error) {
	var lineups []model.Lineup
	for _, path := range cfg.Files {
		ls, err := lineupfile.Load(path)
		if err != nil {
			return nil, err
		}
		lineups = append(lineups, ls...)
	}
	if cfg.Generate > 0 {
		lineups = append(lineups, lineupfile.Generate(lineupfile.GenerateOptions{
			Bands: cfg.Generate,
			Seed:  cfg.Seed,
		}))
	}
	if len(lineups) == 0 {
		return nil, ErrNoInput
	}
	return lineups, nil
}

// orderLocal runs the lineups through an in-process service and worker pool.
func orderLocal(ctx context.Context, cfg *Config, lineups []model.Lineup) ([]types.RunningOrder, error) {
	parser := features.NewKeywordParser(features.KeywordsForLocale(cfg.Locale))
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	svc := service.New(
		service.WithLogger(logger.Nop()),
		service.WithScheduler(scheduler.New(
			scheduler.WithFeatureBuilder(features.NewBuilder(features.WithPreferenceParser(parser))),
		)),
		service.WithWorkerCount(workers),
		service.WithQueueSize(len(lineups)),
		service.WithBatchLimit(len(lineups)),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start scheduler: %w", err)
	}
	defer svc.Stop()

	orders, err := svc.ScheduleBatch(ctx, lineups, cfg.Explain)
	if err != nil {
		return nil, fmt.Errorf("order lineups: %w", err)
	}
	return orders, nil
}

// orderRemote sends the lineups to a running server.
func orderRemote(ctx context.Context, cfg *Config, lineups []model.Lineup) ([]types.RunningOrder, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := NewHTTPClient(cfg.URL, cfg.Token, timeout)
	if err := client.CheckHealth(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	orders, err := client.Batch(ctx, lineups, cfg.Explain)
	if err != nil {
		return nil, fmt.Errorf("order lineups remotely: %w", err)
	}
	return orders, nil
}

// saveLineups writes lineups to path as YAML.
func saveLineups(ctx context.Context, path string, lineups []model.Lineup) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := lineupfile.Encode(f, lineups); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger.Get().Info(ctx, "lineups written", logger.String("file", path), logger.Int("lineups", len(lineups)))
	return nil
}
