// Package normalizer assembles a canonical profile from an intake by running
// the field resolver over every bucketed field.
package normalizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/resolver"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

const defaultDegradeFactor = 0.5

// FieldResolver resolves one field's candidates.
type FieldResolver interface {
	Resolve(ctx context.Context, field string, candidates []model.CandidateValue) model.Result[model.DataPoint]
}

// Normalizer builds NormalizedProfiles.
type Normalizer struct {
	resolver      FieldResolver
	degradeFactor float64
	freeMail      map[string]struct{}
	logger        logger.Logger
}

// New creates a Normalizer around r.
func New(r FieldResolver, opts ...Option) *Normalizer {
	n := &Normalizer{
		resolver:      r,
		degradeFactor: defaultDegradeFactor,
		logger:        logger.Get().Named("normalizer"),
	}
	WithFreeMailDomains(defaultFreeMail...)(n)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize resolves every field of in. It always returns a usable
// profile; fields that could not be resolved are degraded and listed in
// the result's reasons.
func (n *Normalizer) Normalize(ctx context.Context, in model.Intake) model.Result[model.NormalizedProfile] {
	out := model.OK(model.NormalizedProfile{})
	profile := &out.Value.Profile

	profile.Email = model.DataPoint{
		Value:      strings.ToLower(strings.TrimSpace(in.Email)),
		Confidence: 1,
		SourceURLs: []string{},
		Source:     string(model.SourceUserInput),
	}
	if profile.Email.Empty() {
		profile.Email.Confidence = 0
	}

	b := bucket(&in, n.degradeFactor)
	for _, field := range resolvedFields {
		res := n.resolveField(ctx, field, b[field])
		out.Merge(res.Status, res.Reasons)
		profile.SetField(field, res.Value)
	}

	profile.Headline.Value = model.TruncateRunes(profile.Headline.Value, resolver.HeadlineLimit)
	profile.Bio.Value = model.TruncateRunes(profile.Bio.Value, resolver.BioLimit)
	profile.Links = n.links(&in)

	p := persona(in.Persona, profile.CurrentRole)
	out.Value.Persona = p
	n.fillSets(profile, &in, p)
	out.Value.Recommendations = Recommend(p.Kind, in.EventContext.EventTopics)

	if out.Status != model.StatusOK {
		n.logger.Warn(ctx, "profile normalized with degraded fields",
			logger.UserID(in.UserID),
			logger.Strings("reasons", out.Reasons),
		)
	}
	return out
}

// resolveField isolates one field: a panic or a cancelled context degrades
// only that field.
func (n *Normalizer) resolveField(ctx context.Context, field string, cands []model.CandidateValue) (res model.Result[model.DataPoint]) {
	defer func() {
		if r := recover(); r != nil {
			res = n.degrade(field, cands, fmt.Sprintf("panic: %v", r))
		}
	}()
	if err := ctx.Err(); err != nil {
		return n.degrade(field, cands, err.Error())
	}
	if n.resolver == nil {
		return n.degrade(field, cands, "no resolver")
	}
	return n.resolver.Resolve(ctx, field, cands)
}

func (n *Normalizer) degrade(field string, cands []model.CandidateValue, cause string) model.Result[model.DataPoint] {
	metrics.RecordDegradedField(field)
	dp := model.DataPoint{SourceURLs: []string{}, Source: model.DecidedByFallback}
	best := -1
	for i, c := range cands {
		if strings.TrimSpace(c.Value) == "" {
			continue
		}
		if best < 0 || model.ClampConfidence(c.Confidence) > model.ClampConfidence(cands[best].Confidence) {
			best = i
		}
	}
	if best >= 0 {
		c := cands[best]
		dp.Value = c.Value
		dp.Confidence = model.ClampConfidence(c.Confidence) * n.degradeFactor
		dp.SourceURLs = model.CapURLs([]string{c.SourceURL})
	}
	return model.Degraded(dp, fmt.Sprintf("%s: %s", field, cause))
}

// fillSets derives the normalized string sets.
func (n *Normalizer) fillSets(profile *model.CanonicalProfile, in *model.Intake, p model.Persona) {
	var vendor model.VendorEnrichment
	if in.VendorEnrichment != nil {
		vendor = *in.VendorEnrichment
	}
	var prior model.CanonicalProfile
	if in.Prior != nil {
		prior = *in.Prior
	}

	var sectors, expertise []string
	if inv, ok := p.InvestorDetails(); ok {
		sectors = inv.Sectors
	}
	if f, ok := p.FounderDetails(); ok {
		sectors = f.Sectors
	}
	if op, ok := p.OperatorDetails(); ok {
		expertise = op.Expertise
	}
	if adv, ok := p.AdvisorDetails(); ok {
		expertise = adv.Expertise
	}

	profile.Industries = model.Tags(vendor.Industries, sectors, prior.Industries)
	profile.SkillsKeywords = model.Tags(vendor.Skills, expertise, prior.SkillsKeywords)
	profile.InterestsTopics = model.Tags(vendor.Interests, in.EventContext.EventTopics, prior.InterestsTopics)
}
