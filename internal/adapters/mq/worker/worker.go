package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/affinity/internal/adapters/mq/queue"
	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2
	metricsUpdateInterval   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Builder runs one profile build.
type Builder interface {
	Build(ctx context.Context, in model.Intake) model.Result[model.Build]
}

// Writer persists generated signals.
type Writer interface {
	Upsert(ctx context.Context, s model.MatchSignals) (model.MatchSignals, error)
}

// Queue defines how workers receive requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Request
}

// Outcome describes one processed request.
type Outcome struct {
	RequestID string
	UserID    string
	Status    model.Status
	Err       error
	Took      time.Duration
}

// Observer receives outcomes. It must be safe for concurrent use.
type Observer func(Outcome)

// Worker processes build requests.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current request.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	builder  Builder
	writer   Writer
	name     string
	observer Observer

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, b Builder, w Writer, opts ...Option) *InMemoryWorker {
	wk := &InMemoryWorker{
		queue:    q,
		builder:  b,
		writer:   w,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(wk)
	}
	if wk.name != "worker" {
		wk.logger = wk.logger.Named(wk.name)
	}
	return wk
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case r, ok := <-requests:
			if !ok {
				return
			}
			if err := w.Process(ctx, r); err != nil {
				w.logger.Error(ctx, "error processing build request", logger.Error(err))
			}
		}
	}
}

// Shutdown implements Worker.
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

// Process builds one request and upserts its signals. Store failures are
// returned; a failed build is returned without touching the store.
func (w *InMemoryWorker) Process(ctx context.Context, r queue.Request) (err error) { //nolint:gocritic // hugeParam: requests travel by value
	start := time.Now()
	out := Outcome{RequestID: r.RequestID, UserID: r.UserID}
	defer func() {
		out.Err = err
		out.Took = time.Since(start)
		metrics.RecordWorkerProcessingLatency(float64(out.Took.Nanoseconds()) / 1e6)
		if w.observer != nil {
			w.observer(out)
		}
	}()

	res := w.builder.Build(ctx, r)
	out.Status = res.Status
	if res.Status == model.StatusFailed {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "build_failed")
		return fmt.Errorf("build %s: %w", r.RequestID, res.Err)
	}
	if res.Status == model.StatusDegraded {
		w.logger.Warn(ctx, "build degraded",
			logger.RequestID(r.RequestID),
			logger.UserID(r.UserID),
			logger.Strings("reasons", res.Reasons),
		)
	}

	if _, err := w.writer.Upsert(ctx, res.Value.Signals); err != nil {
		out.Status = model.StatusFailed
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		w.logger.Error(ctx, "storing signals failed",
			logger.RequestID(r.RequestID),
			logger.UserID(r.UserID),
			logger.Error(err),
		)
		return fmt.Errorf("store signals for %s: %w", r.UserID, err)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown  chan struct{}
	processed atomic.Int64
	lastTick  time.Time

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. workerCount < 1 picks a
// default from the CPU count. observer may be nil.
func NewPool(workerCount int, q Queue, b Builder, w Writer, observer Observer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		lastTick: time.Now(),
		logger:   logger.Get().Named("worker-pool"),
	}

	count := func(o Outcome) {
		p.processed.Add(1)
		if observer != nil {
			observer(o)
		}
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, b, w,
			WithName("worker-"+strconv.Itoa(i)),
			WithObserver(count),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerMessagesPerSecond(0)
	return p
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
	metrics.UpdateWorkerActiveCount(len(p.workers))
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case now := <-ticker.C:
			if secs := now.Sub(p.lastTick).Seconds(); secs > 0 {
				metrics.UpdateWorkerMessagesPerSecond(float64(p.processed.Swap(0)) / secs)
			}
			p.lastTick = now
		}
	}
}

// Shutdown closes the queue, lets workers drain what is left and waits for
// them until ctx or the pool timeout expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	close(p.shutdown)

	waitCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-waitCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", waitCtx.Err())
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}
