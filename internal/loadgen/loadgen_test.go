package loadgen_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/affinity/internal/adapters/http/api"
	service "github.com/okian/affinity/internal/app"
	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/types"
	"github.com/okian/affinity/internal/loadgen"
	"github.com/okian/affinity/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func TestGenerateIntakes(t *testing.T) {
	Convey("Given generated intakes", t, func() {
		intakes := loadgen.GenerateIntakes(context.Background(), 12)

		Convey("Then every intake is buildable and unique", func() {
			So(intakes, ShouldHaveLength, 12)
			users := map[string]bool{}
			requests := map[string]bool{}
			kinds := map[model.PersonaKind]int{}
			for _, in := range intakes {
				So(in.UserID, ShouldNotBeBlank)
				So(in.Email, ShouldContainSubstring, "@")
				So(in.Candidates[model.FieldTitle], ShouldNotBeEmpty)
				users[in.UserID] = true
				requests[in.RequestID] = true
				kinds[in.Persona.Kind]++
			}
			So(users, ShouldHaveLength, 12)
			So(requests, ShouldHaveLength, 12)
			So(kinds[model.PersonaInvestor], ShouldEqual, 3)
			So(kinds[model.PersonaAdvisor], ShouldEqual, 3)
		})

		Convey("Then some titles are ambiguous", func() {
			So(intakes[0].Candidates[model.FieldTitle], ShouldHaveLength, 2)
			So(intakes[1].Candidates[model.FieldTitle], ShouldHaveLength, 1)
		})
	})
}

func TestVerifyMatches(t *testing.T) {
	entry := func(rank int, id string, score int) types.MatchEntry {
		return types.MatchEntry{Rank: rank, UserID: id, Score: score, Reasons: []string{"Complementary backgrounds"}, Handle: "CTO", Location: "Undisclosed region"}
	}

	Convey("Given match lists", t, func() {
		Convey("Then a well formed list passes", func() {
			So(loadgen.VerifyMatches("me", []types.MatchEntry{entry(1, "b", 70), entry(2, "a", 60), entry(3, "c", 60)}, 5), ShouldBeNil)
			So(loadgen.VerifyMatches("me", nil, 5), ShouldBeNil)
		})

		Convey("Then broken lists fail", func() {
			bad := [][]types.MatchEntry{
				{entry(1, "me", 70)},
				{entry(2, "a", 70)},
				{entry(1, "a", 20)},
				{entry(1, "a", 60), entry(2, "b", 70)},
				{entry(1, "b", 60), entry(2, "a", 60)},
				{entry(1, "a", 60), entry(2, "b", 50), entry(3, "c", 40)},
			}
			for _, list := range bad {
				So(errors.Is(loadgen.VerifyMatches("me", list, 2), loadgen.ErrInconsistent), ShouldBeTrue)
			}

			leaky := entry(1, "a", 60)
			leaky.Location = "Berlin"
			So(errors.Is(loadgen.VerifyMatches("me", []types.MatchEntry{leaky}, 2), loadgen.ErrInconsistent), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := service.New(service.WithWorkerCount(4), service.WithQueueSize(256))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(context.Background()) }()

		mux := http.NewServeMux()
		api.NewServer(svc, svc, 50).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		out := filepath.Join(t.TempDir(), "dump", "intakes.json")

		Convey("When a load run executes", func() {
			stats, err := loadgen.Run(ctx, &loadgen.Config{
				BaseURL:      srv.URL,
				Members:      24,
				Workers:      4,
				MatchLimit:   5,
				PollInterval: 20 * time.Millisecond,
				OutputFile:   out,
			})

			Convey("Then every member is stored and every list verifies", func() {
				So(err, ShouldBeNil)
				So(stats.Accepted, ShouldEqual, 24)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.SignalsReadBack, ShouldEqual, 24)
				So(stats.MatchLists, ShouldEqual, 24)
				So(stats.MatchEntries, ShouldEqual, 24*5)
			})

			Convey("And the intakes are written out", func() {
				info, err := os.Stat(out)
				So(err, ShouldBeNil)
				So(info.Size(), ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a service that sheds some submissions", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := service.New(service.WithWorkerCount(4), service.WithQueueSize(256))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(context.Background()) }()

		mux := http.NewServeMux()
		api.NewServer(svc, svc, 50).Register(ctx, mux)
		var posts atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/profiles" && posts.Add(1)%3 == 0 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			mux.ServeHTTP(w, r)
		}))
		defer srv.Close()

		Convey("When a load run executes", func() {
			stats, err := loadgen.Run(ctx, &loadgen.Config{
				BaseURL:      srv.URL,
				Members:      24,
				Workers:      4,
				MatchLimit:   5,
				PollInterval: 20 * time.Millisecond,
			})

			Convey("Then rejected members are counted and never matched", func() {
				So(err, ShouldBeNil)
				So(stats.Accepted, ShouldEqual, 16)
				So(stats.Failed, ShouldEqual, 8)
				So(stats.SignalsReadBack, ShouldEqual, 16)
				So(stats.MatchLists, ShouldEqual, 16)
				So(stats.MatchSkipped, ShouldEqual, 8)
			})
		})
	})

	Convey("Given no service", t, func() {
		_, err := loadgen.Run(context.Background(), &loadgen.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

		Convey("Then the health check fails", func() {
			So(errors.Is(err, loadgen.ErrUnhealthy), ShouldBeTrue)
		})
	})
}
