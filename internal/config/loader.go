package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment contract.
const (
	EnvPrefix     = "AFFINITY_"
	EnvConfigFile = "AFFINITY_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if AFFINITY_CONFIG is set
//  3. env (prefix AFFINITY_)
func Load(_ context.Context) (*Config, error) {
	cfg := New()
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// AFFINITY_QUEUE_SIZE -> queue_size. Underscores are kept so keys match
	// the flat koanf tags. The config file path itself is not a key.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvConfigFile {
			return ""
		}
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Weight tables replace rather than merge, so a file can drop a source.
	if k.Exists("source_weights") {
		cfg.SourceWeights = nil
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.EventQueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.StoreDriver != StoreMemory && c.StoreDriver != StoreSQLite:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver == StoreSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path is required for the sqlite driver", ErrInvalidConfig)
	case c.ReasoningRetries < 0:
		return fmt.Errorf("%w: reasoning_retries must not be negative", ErrInvalidConfig)
	case c.ResolverMargin < 0 || c.ResolverMargin > 1:
		return fmt.Errorf("%w: resolver_margin must be within [0,1]", ErrInvalidConfig)
	case c.DegradeFactor < 0 || c.DegradeFactor > 1:
		return fmt.Errorf("%w: degrade_factor must be within [0,1]", ErrInvalidConfig)
	case c.MaxMatchLimit <= 0:
		return fmt.Errorf("%w: max_match_limit must be positive", ErrInvalidConfig)
	}
	return nil
}

// APIKey returns the inline reasoning key, or the trimmed contents of the
// key file.
func (c *Config) APIKey() (string, error) {
	if key := strings.TrimSpace(c.ReasoningAPIKey); key != "" {
		return key, nil
	}
	if c.ReasoningAPIKeyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.ReasoningAPIKeyFile)
	if err != nil {
		return "", fmt.Errorf("%w: read reasoning_api_key_file: %w", ErrLoadConfig, err)
	}
	return strings.TrimSpace(string(data)), nil
}
