package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/normalizer"
	"github.com/okian/affinity/internal/domain/pipeline"
	"github.com/okian/affinity/internal/domain/resolver"
	"github.com/okian/affinity/internal/domain/signals"
	"github.com/okian/affinity/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

type explodingNormalizer struct{}

func (explodingNormalizer) Normalize(context.Context, model.Intake) model.Result[model.NormalizedProfile] {
	panic("normalizer exploded")
}

type explodingGenerator struct{}

func (explodingGenerator) Generate(model.Member) model.Result[model.MatchSignals] {
	panic("generator exploded")
}

func intake() model.Intake {
	return model.Intake{
		UserID:       "u-1",
		Email:        "Sam@Example.org",
		FirstName:    "Sam",
		LastName:     "Lee",
		CompanyGuess: "Example",
		Persona:      model.Persona{Kind: model.PersonaOperator, Operator: &model.OperatorBlock{Expertise: []string{"SRE"}}},
		Goal:         "Meet infra founders",
		Candidates: map[string][]model.CandidateValue{
			model.FieldTitle: {{Value: "Staff SRE", Confidence: 0.8, SourceType: model.SourceVendorAPI}},
		},
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	gen := signals.New(signals.WithClock(func() time.Time { return now }))

	Convey("Given a full pipeline", t, func() {
		p := pipeline.New(normalizer.New(resolver.New()), gen)

		Convey("When a valid intake is built", func() {
			res := p.Build(ctx, intake())

			Convey("Then signals are derived from the normalized profile", func() {
				So(res.Status, ShouldEqual, model.StatusOK)
				So(res.Value.Signals.UserID, ShouldEqual, "u-1")
				So(res.Value.Signals.Title, ShouldEqual, "Staff SRE")
				So(res.Value.Signals.PrimaryIntent, ShouldEqual, "opportunities")
				So(res.Value.Signals.SupplyTags, ShouldContain, "sre")
				So(res.Value.Signals.EmbeddingReadyText, ShouldStartWith, "Sam Lee | Operator | Meet infra founders")
			})

			Convey("Then a rebuild is byte-identical", func() {
				again := p.Build(ctx, intake())
				So(again.Value.Signals.EmbeddingReadyText, ShouldEqual, res.Value.Signals.EmbeddingReadyText)
			})
		})

		Convey("When the intake has no user id", func() {
			in := intake()
			in.UserID = " "
			res := p.Build(ctx, in)

			Convey("Then the build fails", func() {
				So(res.Status, ShouldEqual, model.StatusFailed)
				So(errors.Is(res.Err, pipeline.ErrMissingUserID), ShouldBeTrue)
			})
		})
	})

	Convey("Given a normalizer that panics", t, func() {
		p := pipeline.New(explodingNormalizer{}, gen)
		res := p.Build(ctx, intake())

		Convey("Then a degraded placeholder is returned", func() {
			So(res.Status, ShouldEqual, model.StatusDegraded)
			So(res.Reasons[0], ShouldContainSubstring, "normalizer exploded")
			prof := res.Value.Normalized.Profile
			So(prof.Name.Value, ShouldEqual, "Sam Lee")
			So(prof.Name.Confidence, ShouldEqual, 0.1)
			So(prof.Name.Source, ShouldEqual, model.DecidedByFallback)
			So(prof.CurrentRole.Company.Value, ShouldEqual, "Example")
			So(res.Value.Signals.UserID, ShouldEqual, "u-1")
			So(res.Value.Signals.PrimaryIntent, ShouldEqual, "opportunities")
		})
	})

	Convey("Given a generator that panics", t, func() {
		p := pipeline.New(normalizer.New(resolver.New()), explodingGenerator{})
		res := p.Build(ctx, intake())

		Convey("Then minimal signals still carry the user and threshold", func() {
			So(res.Status, ShouldEqual, model.StatusDegraded)
			So(res.Value.Signals.UserID, ShouldEqual, "u-1")
			So(res.Value.Signals.NumericFeatures[signals.FeatureScoreThreshold], ShouldEqual, 70)
			So(res.Value.Signals.SupplyTags, ShouldNotBeNil)
		})
	})
}
