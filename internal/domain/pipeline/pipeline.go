// Package pipeline runs a profile build end to end: normalize the intake,
// then generate match signals from the normalized profile.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/signals"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

// placeholderConfidence marks values filled in after a build blew up.
const placeholderConfidence = 0.1

// Normalizer produces a canonical profile from an intake.
type Normalizer interface {
	Normalize(ctx context.Context, in model.Intake) model.Result[model.NormalizedProfile]
}

// Generator derives match signals for a member.
type Generator interface {
	Generate(m model.Member) model.Result[model.MatchSignals]
}

// Pipeline composes a Normalizer and a Generator.
type Pipeline struct {
	normalizer Normalizer
	generator  Generator
	logger     logger.Logger
}

// New creates a Pipeline.
func New(n Normalizer, g Generator) *Pipeline {
	return &Pipeline{
		normalizer: n,
		generator:  g,
		logger:     logger.Get().Named("pipeline"),
	}
}

// Build runs one profile build. It fails only for intakes without a user
// id; any panic along the way yields a degraded placeholder build.
func (p *Pipeline) Build(ctx context.Context, in model.Intake) (res model.Result[model.Build]) {
	start := time.Now()
	defer func() {
		metrics.RecordBuildProcessed(string(res.Status))
		metrics.RecordBuildLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	}()

	if strings.TrimSpace(in.UserID) == "" {
		return model.Failed[model.Build](ErrMissingUserID)
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(ctx, "profile build panicked",
				logger.UserID(in.UserID),
				logger.Any("panic", r),
			)
			metrics.RecordErrorByComponent("pipeline", "panic")
			res = p.placeholder(in, fmt.Sprintf("build: recovered panic: %v", r))
		}
	}()

	norm := p.normalizer.Normalize(ctx, in)
	sig := p.generator.Generate(MemberOf(in, norm.Value))

	res = model.OK(model.Build{Normalized: norm.Value, Signals: sig.Value})
	res.Merge(norm.Status, norm.Reasons)
	res.Merge(sig.Status, sig.Reasons)
	return res
}

// MemberOf pairs a normalized profile with the intake's intent and
// verification state.
func MemberOf(in model.Intake, np model.NormalizedProfile) model.Member {
	return model.Member{
		UserID:       in.UserID,
		Normalized:   np,
		Goal:         in.Goal,
		EventContext: in.EventContext,
		Verification: in.Verification,
		OptOutIDs:    in.OptOutIDs,
	}
}

func placeholderPoint(v string) model.DataPoint {
	dp := model.DataPoint{SourceURLs: []string{}, Source: model.DecidedByFallback}
	if v = strings.TrimSpace(v); v != "" {
		dp.Value = v
		dp.Confidence = placeholderConfidence
	}
	return dp
}

// placeholder builds a low-confidence profile straight from the intake.
func (p *Pipeline) placeholder(in model.Intake, reason string) model.Result[model.Build] {
	np := model.NormalizedProfile{
		Profile: model.CanonicalProfile{
			Name:            placeholderPoint(in.FirstName + " " + in.LastName),
			Email:           placeholderPoint(strings.ToLower(in.Email)),
			AvatarURL:       placeholderPoint(""),
			Headline:        placeholderPoint(""),
			CurrentRole:     model.Role{Title: placeholderPoint(""), Company: placeholderPoint(in.CompanyGuess)},
			Geo:             placeholderPoint(""),
			Bio:             placeholderPoint(""),
			Industries:      []string{},
			SkillsKeywords:  []string{},
			InterestsTopics: []string{},
		},
		Persona: in.Persona.Normalized(),
	}
	return model.Degraded(model.Build{
		Normalized: np,
		Signals:    p.placeholderSignals(in, np),
	}, reason)
}

func (p *Pipeline) placeholderSignals(in model.Intake, np model.NormalizedProfile) (s model.MatchSignals) {
	defer func() {
		if recover() != nil {
			s = model.MatchSignals{
				UserID:          in.UserID,
				SupplyTags:      []string{},
				DemandTags:      []string{},
				ICPTags:         []string{},
				GeoTags:         []string{},
				StageTags:       []string{},
				TrustSignals:    model.TrustSignals{VerifiedLinks: map[string]model.VerifiedLink{}},
				NumericFeatures: map[string]float64{signals.FeatureScoreThreshold: signals.MatchScoreThreshold},
				RecencyWeight:   time.Now().UTC(),
				OptOutIDs:       append([]string{}, in.OptOutIDs...),
			}
		}
	}()
	return p.generator.Generate(MemberOf(in, np)).Value
}
