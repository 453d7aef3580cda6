// Package service wires the scheduler, the lineup store and the batch worker
// pool into the operations the HTTP API and the CLI call.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/stageorder/internal/adapters/mq/queue"
	workerpool "github.com/okian/stageorder/internal/adapters/mq/worker"
	"github.com/okian/stageorder/internal/adapters/repository"
	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/domain/scheduler"
	"github.com/okian/stageorder/internal/domain/types"
	"github.com/okian/stageorder/pkg/logger"
	"github.com/okian/stageorder/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize  = 1024
	defaultBatchLimit = 64
)

// planRecorder adapts the scheduler to worker.Planner and records metrics for
// every plan, whichever path computed it.
type planRecorder struct {
	scheduler *scheduler.Scheduler
	computed  *atomic.Int64
}

func (p *planRecorder) Plan(bands []*model.Band, songs []model.SongEntry, members []model.MemberAssignment) []scheduler.Placement {
	start := time.Now()
	plan := p.scheduler.Plan(bands, songs, members)
	metrics.RecordOrderComputed(len(bands), float64(time.Since(start).Microseconds())/1000)
	for i := range plan {
		recordTerms(&plan[i])
	}
	p.computed.Add(1)
	return plan
}

func recordTerms(pl *scheduler.Placement) {
	sc := pl.Score
	if sc.TripleOverlap != 0 {
		metrics.RecordScoreTerm("triple_overlap")
	}
	if sc.AdjacentOverlap != 0 {
		metrics.RecordScoreTerm("adjacent_overlap")
	}
	if sc.HeavyAdjacency != 0 {
		metrics.RecordScoreTerm("heavy_adjacency")
	}
	if sc.Late != 0 {
		metrics.RecordScoreTerm("late")
	}
	if sc.Early != 0 {
		metrics.RecordScoreTerm("early")
	}
}

// Service implements the running-order operations.
type Service struct {
	mu sync.RWMutex

	// Core components
	planner *planRecorder
	store   repository.Store
	jobs    *jobqueue.InMemoryQueue
	pool    *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	batchLimit  int

	// State
	started  bool
	cancel   context.CancelFunc
	computed atomic.Int64
	batches  atomic.Int64
	rejected atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the batch job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithBatchLimit caps the number of lineups in one batch request.
func WithBatchLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.batchLimit = limit
		}
	}
}

// WithScheduler sets the scheduler used for every order.
func WithScheduler(sch *scheduler.Scheduler) Option {
	return func(s *Service) {
		if sch != nil {
			s.planner.scheduler = sch
		}
	}
}

// WithStore sets the lineup repository used by ScheduleEvent.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		batchLimit:  defaultBatchLimit,
	}
	s.planner = &planRecorder{scheduler: scheduler.New(), computed: &s.computed}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start creates the job queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting running-order service")

	// Workers outlive the start request; they stop on Stop.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.jobs = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.jobs, s.planner)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "running-order service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("batch_limit", s.batchLimit),
	)
	return nil
}

// Stop drains the job queue, stops the workers and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping running-order service")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not stop cleanly", logger.Error(err))
	}
	s.cancel()

	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "closing lineup store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "running-order service stopped")
}

// Schedule computes the running order of one lineup on the caller's goroutine.
func (s *Service) Schedule(ctx context.Context, l model.Lineup, explain bool) (types.RunningOrder, error) { //nolint:gocritic // hugeParam: Lineup is a value type
	if err := ctx.Err(); err != nil {
		return types.RunningOrder{}, fmt.Errorf("schedule %q: %w", l.EventID, err)
	}
	plan := s.planner.Plan(l.Bands, l.Songs, l.Members)
	s.logger.Debug(ctx, "running order computed",
		logger.String("event_id", l.EventID),
		logger.Int("bands", len(l.Bands)),
	)
	return types.FromPlan(l.EventID, plan, explain), nil
}

// ScheduleEvent loads the lineup of eventID from the store and orders it.
func (s *Service) ScheduleEvent(ctx context.Context, eventID string, explain bool) (types.RunningOrder, error) {
	l, err := s.store.Lineup(ctx, eventID)
	if err != nil {
		return types.RunningOrder{}, fmt.Errorf("load lineup: %w", err)
	}
	l.EventID = eventID
	return s.Schedule(ctx, l, explain)
}

// Events lists the event ids known to the store.
func (s *Service) Events(ctx context.Context) ([]string, error) {
	ids, err := s.store.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return ids, nil
}

// ScheduleBatch orders every lineup on the worker pool. Results keep the
// order of lineups. If any job cannot be queued the whole batch fails with
// ErrBackpressure.
func (s *Service) ScheduleBatch(ctx context.Context, lineups []model.Lineup, explain bool) ([]types.RunningOrder, error) {
	s.mu.RLock()
	started, jobs := s.started, s.jobs
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	if len(lineups) > s.batchLimit {
		return nil, fmt.Errorf("%w: %d lineups, limit %d", ErrBatchTooLarge, len(lineups), s.batchLimit)
	}
	if len(lineups) == 0 {
		return []types.RunningOrder{}, nil
	}

	s.batches.Add(1)
	reply := make(chan jobqueue.Result, len(lineups))
	index := make(map[string]int, len(lineups))
	for i := range lineups {
		id := uuid.NewString()
		index[id] = i
		if !jobs.Enqueue(ctx, jobqueue.Job{ID: id, Lineup: lineups[i], Reply: reply}) {
			s.rejected.Add(1)
			s.logger.Warn(ctx, "batch rejected, job queue full",
				logger.Int("lineups", len(lineups)),
				logger.Int("queued", jobs.Len()),
			)
			return nil, fmt.Errorf("%w: queue full after %d of %d lineups", ErrBackpressure, i, len(lineups))
		}
	}

	out := make([]types.RunningOrder, len(lineups))
	for range lineups {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("batch: %w", ctx.Err())
		case r := <-reply:
			if r.Err != nil {
				return nil, fmt.Errorf("batch event %q: %w", r.EventID, r.Err)
			}
			out[index[r.JobID]] = types.FromPlan(r.EventID, r.Plan, explain)
		}
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"batchLimit":      s.batchLimit,
		"ordersComputed":  s.computed.Load(),
		"batches":         s.batches.Load(),
		"batchesRejected": s.rejected.Load(),
	}
	if s.started {
		stats["queueLength"] = s.jobs.Len()
		metrics.UpdateQueueSize(s.jobs.Len(), s.jobs.Capacity())
	}
	return stats
}
