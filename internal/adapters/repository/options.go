package repository

import "time"

type settings struct {
	shards                int
	now                   func() time.Time
	metricsUpdateInterval time.Duration
}

func defaults() settings {
	return settings{
		shards:                8,
		now:                   time.Now,
		metricsUpdateInterval: 5 * time.Second,
	}
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithShardCount sets how many lock shards the memory store uses.
func WithShardCount(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.shards = n
		}
	}
}

// WithClock sets the time source for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *settings) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
