// Package config defines service configuration structures and loading hooks.
//
// Values are layered: defaults from New, then an optional YAML file, then
// AFFINITY_* environment variables. See Load.
package config

import (
	"runtime"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory build queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of build workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the build request deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the memory store.
	ShardCount int `koanf:"shard_count"`

	// StoreDriver selects the signal store backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// ReasoningEnabled turns on the generative tie-break.
	ReasoningEnabled bool `koanf:"reasoning_enabled"`

	// ReasoningModel names the Gemini model.
	ReasoningModel string `koanf:"reasoning_model"`

	// ReasoningAPIKey or ReasoningAPIKeyFile supply the API key; the
	// inline value wins.
	ReasoningAPIKey     string `koanf:"reasoning_api_key"`
	ReasoningAPIKeyFile string `koanf:"reasoning_api_key_file"`

	// ReasoningTimeoutMS bounds one reasoning attempt.
	ReasoningTimeoutMS int `koanf:"reasoning_timeout_ms"`

	// ReasoningRetries is the number of extra attempts. Zero is valid.
	ReasoningRetries int `koanf:"reasoning_retries"`

	// ReasoningIntervalMS is the minimum spacing between reasoning calls.
	ReasoningIntervalMS int `koanf:"reasoning_interval_ms"`

	// ResolverMargin is the weight gap under which two candidates are ambiguous.
	ResolverMargin float64 `koanf:"resolver_margin"`

	// SourceWeights maps source types, plus "agreement", to weight bonuses.
	SourceWeights map[string]float64 `koanf:"source_weights"`

	// DegradeFactor scales confidence of fields that failed to resolve.
	DegradeFactor float64 `koanf:"degrade_factor"`

	// MaxMatchLimit caps GET /matches?limit.
	MaxMatchLimit int `koanf:"max_match_limit"`

	// MatchParallelism bounds concurrent pair scoring.
	MatchParallelism int `koanf:"match_parallelism"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		EventQueueSize:      10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          100_000,
		ShardCount:          8,
		StoreDriver:         StoreMemory,
		SQLitePath:          "data/signals.db",
		ReasoningEnabled:    false,
		ReasoningModel:      "gemini-2.5-flash",
		ReasoningTimeoutMS:  8000,
		ReasoningRetries:    1,
		ReasoningIntervalMS: 250,
		ResolverMargin:      0.1,
		SourceWeights: map[string]float64{
			"first_party": 0.20,
			"user_input":  0.20,
			"vendor_api":  0.15,
			"press":       0.10,
			"social":      0.05,
			"prior":       0.05,
			"directory":   0.00,
			"agreement":   0.05,
		},
		DegradeFactor:    0.5,
		MaxMatchLimit:    50,
		MatchParallelism: runtime.NumCPU(),
	}
}
