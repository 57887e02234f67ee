package service

import (
	"github.com/okian/affinity/internal/adapters/repository"
	"github.com/okian/affinity/internal/domain/normalizer"
	"github.com/okian/affinity/internal/domain/resolver"
	"github.com/okian/affinity/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of build workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the build queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the request id deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the shard count of the memory store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithSQLite stores signals in the SQLite database at path instead of
// memory.
func WithSQLite(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.sqlitePath = path
		}
	}
}

// WithStore injects a ready store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithReasoner sets the tie-break used for ambiguous fields. Without one
// every ambiguity falls back deterministically.
func WithReasoner(r resolver.Reasoner) Option {
	return func(s *Service) {
		if r != nil {
			s.reasoning = true
			s.resolverOpts = append(s.resolverOpts, resolver.WithReasoner(r))
		}
	}
}

// WithSourceWeights replaces the resolver weight table. See
// resolver.WeightsFromMap for the key format.
func WithSourceWeights(weights map[string]float64) Option {
	return func(s *Service) {
		if len(weights) > 0 {
			s.resolverOpts = append(s.resolverOpts, resolver.WithWeights(resolver.WeightsFromMap(weights)))
		}
	}
}

// WithResolverMargin sets the weight gap under which candidates are
// ambiguous.
func WithResolverMargin(margin float64) Option {
	return func(s *Service) {
		s.resolverOpts = append(s.resolverOpts, resolver.WithMargin(margin))
	}
}

// WithDegradeFactor scales the confidence of fields that failed to resolve.
func WithDegradeFactor(f float64) Option {
	return func(s *Service) {
		s.normalizerOpts = append(s.normalizerOpts, normalizer.WithDegradeFactor(f))
	}
}

// WithMatchParallelism bounds concurrent pair scoring in Matches.
func WithMatchParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.matchParallelism = n
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
