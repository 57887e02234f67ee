// Package signals derives match signals from a normalized profile.
package signals

import (
	"time"

	"github.com/okian/affinity/internal/domain/model"
)

// MatchScoreThreshold is the score a pair must reach to be suggested.
const MatchScoreThreshold = 70

// Numeric feature names.
const (
	FeatureCheckSize      = "check_size_usd"
	FeatureFundSize       = "fund_size_usd"
	FeatureRaiseAmount    = "raise_amount_usd"
	FeatureRevenue        = "revenue_usd"
	FeatureHourlyRate     = "hourly_rate_usd"
	FeatureScoreThreshold = "match_score_threshold"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithClock sets the time source used for recency.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator turns members into MatchSignals. It holds no mutable state.
type Generator struct {
	now func() time.Time
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate derives signals for m. Missing inputs produce empty outputs.
func (g *Generator) Generate(m model.Member) model.Result[model.MatchSignals] {
	np := &m.Normalized
	np.Persona = np.Persona.Normalized()
	tags := families(np)

	out := model.MatchSignals{
		UserID:             m.UserID,
		EmbeddingReadyText: EmbeddingText(&m),
		PrimaryIntent:      vocabularyFor(np.Persona.Kind).intent,
		SupplyTags:         tags.supply,
		DemandTags:         tags.demand,
		ICPTags:            tags.icp,
		GeoTags:            tags.geo,
		StageTags:          tags.stage,
		TrustSignals:       trustSignals(&m),
		NumericFeatures:    numericFeatures(np.Persona),
		RecencyWeight:      g.now().UTC(),
		OptOutIDs:          append([]string{}, m.OptOutIDs...),
		Title:              np.Profile.CurrentRole.Title.Value,
		Company:            np.Profile.CurrentRole.Company.Value,
	}
	return model.OK(out)
}

func numericFeatures(p model.Persona) map[string]float64 {
	f := map[string]float64{FeatureScoreThreshold: MatchScoreThreshold}
	set := func(name, raw string) {
		if v, ok := ParseMoney(raw); ok {
			f[name] = v
		}
	}
	if b, ok := p.InvestorDetails(); ok {
		set(FeatureCheckSize, b.CheckSize)
		set(FeatureFundSize, b.FundSize)
	}
	if b, ok := p.FounderDetails(); ok {
		set(FeatureRaiseAmount, b.RaiseAmount)
		set(FeatureRevenue, b.Revenue)
	}
	if b, ok := p.AdvisorDetails(); ok {
		set(FeatureHourlyRate, b.HourlyRate)
	}
	return f
}
