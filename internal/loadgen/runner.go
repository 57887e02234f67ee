// Package loadgen drives a running profile service end to end: it submits
// generated intakes, waits for the builds to land and checks every
// member's match list.
package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/logger"
)

// Run executes a complete load run and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	cfg := config.withDefaults()
	log := logger.Get().Named("loadgen")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting profile load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("members", cfg.Members),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	intakes := GenerateIntakes(ctx, cfg.Members)
	stats.Generated = len(intakes)

	stored, err := submit(ctx, &cfg, client, intakes, stats)
	if err != nil {
		return stats, fmt.Errorf("submission failed: %w", err)
	}
	stats.MatchSkipped = len(intakes) - len(stored)
	if err := settle(ctx, &cfg, client, stored, stats); err != nil {
		return stats, err
	}
	if err := checkMatches(ctx, &cfg, client, stored, stats); err != nil {
		return stats, err
	}

	if cfg.OutputFile != "" {
		if err := saveIntakes(cfg.OutputFile, intakes); err != nil {
			log.Warn(ctx, "failed to save intakes", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, log, stats)
	return stats, nil
}

// submit posts every intake and returns the user ids the service took,
// accepted or already known, in generation order.
func submit(ctx context.Context, cfg *Config, client *Client, intakes []model.Intake, stats *Stats) ([]string, error) {
	var accepted, duplicate, failed atomic.Int64
	taken := make([]bool, len(intakes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range intakes {
		g.Go(func() error {
			switch client.Submit(gctx, intakes[i]) {
			case outcomeAccepted:
				accepted.Add(1)
				taken[i] = true
			case outcomeDuplicate:
				duplicate.Add(1)
				taken[i] = true
			default:
				failed.Add(1)
			}
			return gctx.Err()
		})
	}
	err := g.Wait()

	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Failed = int(failed.Load())
	stats.Submitted = stats.Accepted + stats.Duplicate + stats.Failed

	stored := make([]string, 0, len(intakes))
	for i := range intakes {
		if taken[i] {
			stored = append(stored, intakes[i].UserID)
		}
	}
	return stored, err
}

// settle polls until every stored member's signals are readable.
func settle(ctx context.Context, cfg *Config, client *Client, userIDs []string, stats *Stats) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.SettleTimeout)
	defer cancel()

	pending := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		pending[id] = struct{}{}
	}
	want := len(pending)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for {
		for id := range pending {
			_, found, err := client.Signals(ctx, id)
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("read back signals: %w", err)
			}
			if found {
				delete(pending, id)
				stats.SignalsReadBack++
			}
		}
		if stats.SignalsReadBack >= want {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %d of %d stored", ErrNotSettled, stats.SignalsReadBack, want)
		case <-ticker.C:
		}
	}
}

// checkMatches verifies the match list of every stored member.
func checkMatches(ctx context.Context, cfg *Config, client *Client, userIDs []string, stats *Stats) error {
	var lists, entries atomic.Int64
	log := logger.Get().Named("loadgen")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, id := range userIDs {
		g.Go(func() error {
			got, err := client.Matches(gctx, id, cfg.MatchLimit)
			if err != nil {
				return fmt.Errorf("matches for %s: %w", id, err)
			}
			if err := VerifyMatches(id, got, cfg.MatchLimit); err != nil {
				return err
			}
			if cfg.Verbose && len(got) > 0 {
				log.Info(gctx, "top match",
					logger.UserID(id),
					logger.String("handle", got[0].Handle),
					logger.Int("score", got[0].Score),
					logger.Strings("reasons", got[0].Reasons),
				)
			}
			lists.Add(1)
			entries.Add(int64(len(got)))
			return nil
		})
	}
	err := g.Wait()
	stats.MatchLists = int(lists.Load())
	stats.MatchEntries = int(entries.Load())
	return err
}

func saveIntakes(filename string, intakes []model.Intake) error {
	if len(intakes) == 0 {
		return ErrNothingToSave
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(intakes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal intakes: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func logStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var acceptRate, perSecond float64
	if stats.Submitted > 0 {
		acceptRate = float64(stats.Accepted) / float64(stats.Submitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed),
		logger.Int("signalsReadBack", stats.SignalsReadBack),
		logger.Int("matchLists", stats.MatchLists),
		logger.Int("matchEntries", stats.MatchEntries),
		logger.Int("matchSkipped", stats.MatchSkipped),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("submissionsPerSecond", perSecond),
	)
}
