package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/metrics"
)

type shard struct {
	mu   sync.RWMutex
	byID map[string]model.MatchSignals
}

// MemoryStore is a Store backed by sharded maps. Writes for one user
// serialize on that user's shard.
type MemoryStore struct {
	shards []*shard
	now    func() time.Time

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
	closed   atomic.Bool
}

// NewMemoryStore creates a MemoryStore and starts its metrics updater,
// which runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &MemoryStore{
		shards:   make([]*shard, cfg.shards),
		now:      cfg.now,
		stopChan: make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &shard{byID: make(map[string]model.MatchSignals)}
	}
	s.startMetricsUpdater(ctx, cfg.metricsUpdateInterval)
	return s
}

func (s *MemoryStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(_ context.Context, sig model.MatchSignals) (model.MatchSignals, error) {
	if s.closed.Load() {
		return model.MatchSignals{}, ErrClosed
	}
	if strings.TrimSpace(sig.UserID) == "" {
		metrics.RecordStoreError("upsert")
		return model.MatchSignals{}, ErrInvalidUserID
	}
	start := time.Now()
	rec := clone(sig)
	rec.UpdatedAt = s.now().UTC()

	sh := s.shardFor(sig.UserID)
	sh.mu.Lock()
	sh.byID[sig.UserID] = rec
	sh.mu.Unlock()

	metrics.RecordStoreUpsert()
	metrics.RecordStoreUpsertLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	return clone(rec), nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, userID string) (model.MatchSignals, error) {
	if s.closed.Load() {
		return model.MatchSignals{}, ErrClosed
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	}()

	sh := s.shardFor(userID)
	sh.mu.RLock()
	rec, ok := sh.byID[userID]
	sh.mu.RUnlock()
	if !ok {
		return model.MatchSignals{}, ErrNotFound
	}
	return clone(rec), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]model.MatchSignals, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	var out []model.MatchSignals
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, rec := range sh.byID {
			out = append(out, clone(rec))
		}
		sh.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []model.MatchSignals{}
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.byID)
		sh.mu.RUnlock()
	}
	return n, nil
}

// Close stops the metrics updater; the store rejects calls afterwards.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context, interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if n, err := s.Count(ctx); err == nil {
					metrics.UpdateStoreRecords(n)
				}
			}
		}
	}()
}
