package scoring

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/types"
	"github.com/okian/affinity/pkg/metrics"
)

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithParallelism bounds concurrent scoring goroutines.
func WithParallelism(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

// Ranker ranks stored members against a target.
type Ranker struct {
	parallelism int
}

// NewRanker creates a Ranker.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{parallelism: runtime.NumCPU()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type scored struct {
	signals *model.MatchSignals
	score   Score
}

// RankMatches scores target against candidates and returns the best limit
// entries as anonymized previews. The target itself and members excluded
// by an opt-out in either direction are skipped. limit <= 0 keeps all.
func (r *Ranker) RankMatches(ctx context.Context, target model.MatchSignals, candidates []model.MatchSignals, limit int) ([]types.MatchEntry, error) {
	eligible := make([]*model.MatchSignals, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if c.UserID == target.UserID || target.OptedOut(c.UserID) || c.OptedOut(target.UserID) {
			continue
		}
		eligible = append(eligible, c)
	}

	in := InputFromSignals(&target)
	results := make([]scored, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i, c := range eligible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := ScorePair(in, InputFromSignals(c))
			metrics.RecordCompatibilityScore(float64(s.Score))
			results[i] = scored{signals: c, score: s}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rank matches: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score.Score != results[j].score.Score {
			return results[i].score.Score > results[j].score.Score
		}
		return results[i].signals.UserID < results[j].signals.UserID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	out := make([]types.MatchEntry, len(results))
	for i, res := range results {
		p := Anonymize(res.signals.Title, res.signals.Company)
		out[i] = types.MatchEntry{
			Rank:     i + 1,
			UserID:   res.signals.UserID,
			Score:    res.score.Score,
			Reasons:  res.score.Reasons,
			Handle:   p.Handle,
			Location: p.Location,
		}
	}
	return out, nil
}
