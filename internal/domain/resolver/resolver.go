// Package resolver reduces conflicting candidate values for one profile
// field to a single DataPoint.
//
// Candidates are ranked by a weight table. When the two best distinct
// values are too close to call, an injected Reasoner may pick; its answer
// is validated and discarded if it does not fit. Whatever happens, Resolve
// returns a usable DataPoint.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

// Default limits for free-text fields.
const (
	HeadlineLimit = 80
	BioLimit      = 280
	defaultMargin = 0.10
)

// Decision methods reported to metrics.
const (
	methodEmpty         = "empty"
	methodPassthrough   = "passthrough"
	methodDeterministic = "deterministic"
	methodReasoning     = "reasoning"
	methodFallback      = "fallback"
)

// Request is what the reasoning step sees for one field.
type Request struct {
	Field      string
	Candidates []model.CandidateValue
	// MaxLength bounds synthesized free text. Zero means the answer must be
	// one of the candidates.
	MaxLength int
}

// Answer is a reasoning step's choice.
type Answer struct {
	Value       string
	Confidence  float64
	SourceURLs  []string
	Explanation string
}

// Reasoner decides between ambiguous candidates.
type Reasoner interface {
	ResolveField(ctx context.Context, req Request) (Answer, error)
}

// Resolver resolves one field at a time. It is safe for concurrent use.
type Resolver struct {
	weights  Weights
	margin   float64
	reasoner Reasoner
	limits   map[string]int
	logger   logger.Logger
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		weights: DefaultWeights(),
		margin:  defaultMargin,
		limits: map[string]int{
			model.FieldHeadline: HeadlineLimit,
			model.FieldBio:      BioLimit,
		},
		logger: logger.Get().Named("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type ranked struct {
	c      model.CandidateValue
	index  int
	weight float64
	key    string
}

// Resolve returns one DataPoint for field. It never fails: reasoning errors
// produce a degraded result holding the highest-confidence candidate.
func (r *Resolver) Resolve(ctx context.Context, field string, candidates []model.CandidateValue) model.Result[model.DataPoint] {
	usable := make([]model.CandidateValue, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Value) != "" {
			usable = append(usable, c)
		}
	}

	switch len(usable) {
	case 0:
		metrics.RecordFieldResolution(field, methodEmpty)
		res := model.OK(model.DataPoint{SourceURLs: []string{}})
		res.Reasons = []string{field + ": no_candidates"}
		return res
	case 1:
		c := usable[0]
		metrics.RecordFieldResolution(field, methodPassthrough)
		return model.OK(model.DataPoint{
			Value:      c.Value,
			Confidence: model.ClampConfidence(c.Confidence),
			SourceURLs: model.CapURLs([]string{c.SourceURL}),
			Source:     string(c.SourceType),
		})
	}

	order := r.rank(usable)
	best := distinctLeaders(order)
	if len(best) < 2 || best[0].weight-best[1].weight >= r.margin {
		metrics.RecordFieldResolution(field, methodDeterministic)
		return model.OK(decided(order, best[0]))
	}

	if r.reasoner == nil {
		return r.fallback(field, usable, ErrNoReasoner)
	}
	ans, err := r.reasoner.ResolveField(ctx, Request{Field: field, Candidates: usable, MaxLength: r.limits[field]})
	if err != nil {
		return r.fallback(field, usable, err)
	}
	dp, err := r.accept(field, ans, usable)
	if err != nil {
		return r.fallback(field, usable, err)
	}

	r.logger.Info(ctx, "field resolved by reasoning",
		logger.FieldName(field),
		logger.String("value", dp.Value),
		logger.Float64("confidence", dp.Confidence),
		logger.String("rationale", ans.Explanation),
	)
	metrics.RecordFieldResolution(field, methodReasoning)
	return model.OK(dp)
}

// rank orders candidates by weight, then source preference, then
// collection order.
func (r *Resolver) rank(cands []model.CandidateValue) []ranked {
	counts := make(map[string]int, len(cands))
	for _, c := range cands {
		counts[model.Key(c.Value)]++
	}
	out := make([]ranked, len(cands))
	for i, c := range cands {
		k := model.Key(c.Value)
		out[i] = ranked{c: c, index: i, key: k, weight: r.weights.Score(c, counts[k]-1)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].weight != out[j].weight {
			return out[i].weight > out[j].weight
		}
		pi, pj := preferenceRank(out[i].c.SourceType), preferenceRank(out[j].c.SourceType)
		if pi != pj {
			return pi < pj
		}
		return out[i].index < out[j].index
	})
	return out
}

// distinctLeaders keeps the best-ranked candidate per distinct value.
func distinctLeaders(order []ranked) []ranked {
	seen := make(map[string]struct{}, len(order))
	out := make([]ranked, 0, len(order))
	for _, rc := range order {
		if _, ok := seen[rc.key]; ok {
			continue
		}
		seen[rc.key] = struct{}{}
		out = append(out, rc)
	}
	return out
}

// decided builds the DataPoint for a deterministic winner. Source URLs list
// the winner first, then agreeing candidates in rank order. The weight only
// ranks; the reported confidence is the winner's own.
func decided(order []ranked, win ranked) model.DataPoint {
	urls := []string{win.c.SourceURL}
	for _, rc := range order {
		if rc.key == win.key && rc.index != win.index {
			urls = append(urls, rc.c.SourceURL)
		}
	}
	return model.DataPoint{
		Value:      win.c.Value,
		Confidence: model.ClampConfidence(win.c.Confidence),
		SourceURLs: model.CapURLs(urls),
		Source:     string(win.c.SourceType),
	}
}

// accept validates a reasoning answer against the field's rules.
func (r *Resolver) accept(field string, ans Answer, cands []model.CandidateValue) (model.DataPoint, error) {
	value := strings.TrimSpace(ans.Value)
	switch {
	case value == "":
		return model.DataPoint{}, ErrEmptyValue
	case ans.Confidence != model.ClampConfidence(ans.Confidence):
		return model.DataPoint{}, fmt.Errorf("%w: %v", ErrConfidence, ans.Confidence)
	case len(ans.SourceURLs) > model.MaxSourceURLs:
		return model.DataPoint{}, fmt.Errorf("%w: %d", ErrTooManySources, len(ans.SourceURLs))
	}

	if model.FreeTextField(field) {
		if limit := r.limits[field]; limit > 0 {
			value = model.TruncateRunes(value, limit)
		}
	} else {
		key := model.Key(value)
		found := false
		for _, c := range cands {
			if model.Key(c.Value) == key {
				value, found = c.Value, true
				break
			}
		}
		if !found {
			return model.DataPoint{}, ErrInventedValue
		}
	}

	return model.DataPoint{
		Value:      value,
		Confidence: ans.Confidence,
		SourceURLs: model.CapURLs(ans.SourceURLs),
		Source:     model.DecidedByReasoning,
	}, nil
}

// fallback picks the highest input confidence, earliest candidate first.
func (r *Resolver) fallback(field string, cands []model.CandidateValue, cause error) model.Result[model.DataPoint] {
	win := 0
	for i := 1; i < len(cands); i++ {
		if model.ClampConfidence(cands[i].Confidence) > model.ClampConfidence(cands[win].Confidence) {
			win = i
		}
	}
	c := cands[win]
	metrics.RecordFieldResolution(field, methodFallback)
	return model.Degraded(model.DataPoint{
		Value:      c.Value,
		Confidence: model.ClampConfidence(c.Confidence),
		SourceURLs: model.CapURLs([]string{c.SourceURL}),
		Source:     model.DecidedByFallback,
	}, fmt.Sprintf("%s: deterministic fallback: %v", field, cause))
}
