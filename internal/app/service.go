// Package service wires the profile pipeline, the build queue and the
// signal store into the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/affinity/internal/adapters/mq/queue"
	"github.com/okian/affinity/internal/adapters/mq/worker"
	"github.com/okian/affinity/internal/adapters/repository"
	"github.com/okian/affinity/internal/config"
	"github.com/okian/affinity/internal/domain/dedupe"
	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/normalizer"
	"github.com/okian/affinity/internal/domain/pipeline"
	"github.com/okian/affinity/internal/domain/resolver"
	"github.com/okian/affinity/internal/domain/scoring"
	"github.com/okian/affinity/internal/domain/signals"
	"github.com/okian/affinity/internal/domain/types"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

const stopTimeout = 10 * time.Second

// Service implements the API dependencies for profile building and
// matching.
type Service struct {
	mu sync.RWMutex

	// Core components
	pipeline *pipeline.Pipeline
	ranker   *scoring.Ranker
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	pool     *worker.Pool
	store    repository.Store

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	shardCount       int
	sqlitePath       string
	matchParallelism int
	reasoning        bool
	resolverOpts     []resolver.Option
	normalizerOpts   []normalizer.Option

	// State
	started   bool
	ownsStore bool

	logger logger.Logger
}

// New constructs a Service. The pipeline is usable immediately through
// Preview; Start brings up the store, queue and workers.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10_000,
		dedupeSize:       100_000,
		shardCount:       8,
		matchParallelism: runtime.NumCPU(),
		logger:           logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	res := resolver.New(s.resolverOpts...)
	norm := normalizer.New(res, s.normalizerOpts...)
	s.pipeline = pipeline.New(norm, signals.New())
	s.ranker = scoring.NewRanker(scoring.WithParallelism(s.matchParallelism))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// FromConfig translates cfg into service options. The reasoner is passed
// separately because building it needs network credentials.
func FromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.EventQueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithShardCount(cfg.ShardCount),
		WithSourceWeights(cfg.SourceWeights),
		WithResolverMargin(cfg.ResolverMargin),
		WithDegradeFactor(cfg.DegradeFactor),
		WithMatchParallelism(cfg.MatchParallelism),
	}
	if cfg.StoreDriver == config.StoreSQLite {
		opts = append(opts, WithSQLite(cfg.SQLitePath))
	}
	return opts
}

// Start opens the store and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting profile service...")

	if s.store == nil {
		store, err := s.openStore(ctx)
		if err != nil {
			return fmt.Errorf("open signal store: %w", err)
		}
		s.store = store
		s.ownsStore = true
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.pipeline, s.store, s.observe)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "profile service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("store", s.storeDriver()),
		logger.Bool("reasoning", s.reasoning),
	)
	return nil
}

func (s *Service) openStore(ctx context.Context) (repository.Store, error) {
	if s.sqlitePath != "" {
		return repository.OpenSQLite(ctx, s.sqlitePath)
	}
	return repository.NewMemoryStore(ctx, repository.WithShardCount(s.shardCount)), nil
}

func (s *Service) storeDriver() string {
	if s.sqlitePath != "" {
		return config.StoreSQLite
	}
	return config.StoreMemory
}

// observe logs finished background builds.
func (s *Service) observe(o worker.Outcome) {
	if o.Err != nil {
		s.logger.Warn(context.Background(), "profile build failed",
			logger.RequestID(o.RequestID),
			logger.UserID(o.UserID),
			logger.Error(o.Err),
		)
		return
	}
	s.logger.Debug(context.Background(), "profile build stored",
		logger.RequestID(o.RequestID),
		logger.UserID(o.UserID),
		logger.String("status", string(o.Status)),
		logger.Duration("took", o.Took),
	)
}

// Stop drains the queue, waits for workers and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping profile service...")

	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	var firstErr error
	if err := s.pool.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close signal store: %w", err)
		}
		if s.ownsStore {
			s.store = nil
		}
	}

	s.started = false
	s.logger.Info(ctx, "profile service stopped")
	return firstErr
}

// SeenAndRecord records a build request id and reports whether it was
// already known.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordBuildDuplicate()
	}
	return seen
}

// Unrecord forgets a request id so it can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of remembered request ids.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

// Enqueue submits an intake for asynchronous building. It fails with
// queue.ErrFull on backpressure.
func (s *Service) Enqueue(ctx context.Context, in model.Intake) error { //nolint:gocritic // hugeParam: intakes travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return fmt.Errorf("enqueue %s: %w", in.RequestID, queue.ErrClosed)
	}
	if err := s.queue.Enqueue(ctx, in); err != nil {
		return fmt.Errorf("enqueue %s: %w", in.RequestID, err)
	}
	s.logger.Debug(ctx, "build enqueued",
		logger.RequestID(in.RequestID),
		logger.UserID(in.UserID),
	)
	return nil
}

// Rebuild builds in synchronously and stores its signals. Store errors are
// returned to the caller.
func (s *Service) Rebuild(ctx context.Context, in model.Intake) (model.Result[model.Build], error) { //nolint:gocritic // hugeParam: intakes travel by value
	store, err := s.activeStore()
	if err != nil {
		return model.Result[model.Build]{}, err
	}

	res := s.pipeline.Build(ctx, in)
	if res.Status == model.StatusFailed {
		return res, fmt.Errorf("%w: %w", ErrBuild, res.Err)
	}
	stored, err := store.Upsert(ctx, res.Value.Signals)
	if err != nil {
		metrics.RecordErrorByComponent("service", "store_error")
		return res, fmt.Errorf("store signals for %s: %w", in.UserID, err)
	}
	res.Value.Signals = stored
	return res, nil
}

// Preview builds in without storing anything.
func (s *Service) Preview(ctx context.Context, in model.Intake) model.Result[model.Build] { //nolint:gocritic // hugeParam: intakes travel by value
	return s.pipeline.Build(ctx, in)
}

// Signals returns the stored signals of userID.
func (s *Service) Signals(ctx context.Context, userID string) (model.MatchSignals, error) {
	store, err := s.activeStore()
	if err != nil {
		return model.MatchSignals{}, err
	}
	return store.Get(ctx, userID)
}

// Matches ranks every other stored member against userID.
func (s *Service) Matches(ctx context.Context, userID string, limit int) ([]types.MatchEntry, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	target, err := store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates, err := store.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return s.ranker.RankMatches(ctx, target, candidates, limit)
}

func (s *Service) activeStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"dedupeCount": s.deduper.Size(),
		"store":       s.storeDriver(),
		"reasoning":   s.reasoning,
	}

	if s.started {
		queueLen := s.queue.Len()
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)

		total, err := s.store.Count(context.Background())
		if err != nil {
			s.logger.Warn(context.Background(), "count profiles failed", logger.Error(err))
		} else {
			stats["totalProfiles"] = total
			metrics.UpdateStoreRecords(total)
		}
	}
	return stats
}
