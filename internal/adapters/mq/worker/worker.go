// Package worker runs scheduling jobs pulled from the batch queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/stageorder/internal/adapters/mq/queue"
	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/domain/scheduler"
	"github.com/okian/stageorder/pkg/logger"
	"github.com/okian/stageorder/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Planner computes a running order for one lineup.
type Planner interface {
	Plan(bands []*model.Band, songs []model.SongEntry, members []model.MemberAssignment) []scheduler.Placement
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until its context ends or the queue closes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for in-process jobs.
type InMemoryWorker struct {
	queue   Queue
	planner Planner
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, planner Planner, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		planner:  planner,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process computes one plan and replies on the job's channel.
func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	metrics.AddWorkerBusy(1)
	start := time.Now()
	defer func() {
		metrics.AddWorkerBusy(-1)
		metrics.RecordWorkerLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	res := queue.Result{JobID: j.ID, EventID: j.Lineup.EventID}
	res.Plan = w.safePlan(ctx, j, &res.Err)

	if j.Reply == nil {
		return
	}
	select {
	case j.Reply <- res:
	default:
		metrics.RecordErrorByComponent("worker", "reply_dropped")
		w.logger.Warn(ctx, "reply channel full, result dropped", logger.String("job_id", j.ID))
	}
}

// safePlan runs the planner, turning a panic into an error on the job.
func (w *InMemoryWorker) safePlan(ctx context.Context, j queue.Job, errOut *error) (plan []scheduler.Placement) { //nolint:gocritic // hugeParam
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordErrorByComponent("worker", "panic")
			w.logger.Error(ctx, "planner panicked",
				logger.String("job_id", j.ID),
				logger.String("event_id", j.Lineup.EventID),
				logger.Any("panic", r),
			)
			*errOut = fmt.Errorf("%w: %v", ErrPlanFailed, r)
			plan = nil
		}
	}()
	return w.planner.Plan(j.Lineup.Bands, j.Lineup.Songs, j.Lineup.Members)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a new worker pool. A non-positive count means one worker per CPU.
func NewPool(workerCount int, q Queue, planner Planner) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(q, planner, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	return nil
}
