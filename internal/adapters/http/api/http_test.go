package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/affinity/internal/adapters/http/api"
	"github.com/okian/affinity/internal/adapters/mq/queue"
	"github.com/okian/affinity/internal/adapters/repository"
	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/types"
	"github.com/okian/affinity/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type mockDeps struct {
	seen       map[string]bool
	enqueueErr error
	enqueued   []model.Intake
	rebuildErr error
	rebuilt    []model.Intake
	signals    map[string]model.MatchSignals
	matches    []types.MatchEntry
	matchErr   error
	lastLimit  int
}

func newMockDeps() *mockDeps {
	return &mockDeps{seen: map[string]bool{}, signals: map[string]model.MatchSignals{}}
}

func (m *mockDeps) SeenAndRecord(_ context.Context, id string) bool {
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockDeps) Unrecord(_ context.Context, id string) { delete(m.seen, id) }

func (m *mockDeps) Size() int64 { return int64(len(m.seen)) }

func (m *mockDeps) Enqueue(_ context.Context, in model.Intake) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.enqueued = append(m.enqueued, in)
	return nil
}

func (m *mockDeps) build(in model.Intake) model.Result[model.Build] {
	return model.OK(model.Build{Signals: model.MatchSignals{UserID: in.UserID, Title: "Partner"}})
}

func (m *mockDeps) Rebuild(_ context.Context, in model.Intake) (model.Result[model.Build], error) {
	if m.rebuildErr != nil {
		return model.Result[model.Build]{}, m.rebuildErr
	}
	m.rebuilt = append(m.rebuilt, in)
	return m.build(in), nil
}

func (m *mockDeps) Preview(_ context.Context, in model.Intake) model.Result[model.Build] {
	res := m.build(in)
	res.Degrade("bio: deterministic fallback")
	return res
}

func (m *mockDeps) Signals(_ context.Context, userID string) (model.MatchSignals, error) {
	s, ok := m.signals[userID]
	if !ok {
		return model.MatchSignals{}, fmt.Errorf("get %s: %w", userID, repository.ErrNotFound)
	}
	return s, nil
}

func (m *mockDeps) Matches(_ context.Context, _ string, limit int) ([]types.MatchEntry, error) {
	m.lastLimit = limit
	return m.matches, m.matchErr
}

type mockStats struct{}

func (mockStats) GetStats() map[string]any { return map[string]any{"started": true} }

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, 50).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

const intakeJSON = `{"request_id":"req-1","user_id":"u1","email":"ada@acme.io","persona":{"kind":"Investor"}}`

func TestOperationalRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMockDeps())

		Convey("Then /healthz reports ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then /metrics serves the registry", func() {
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then /stats serves the provider's map", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then unknown paths are 404", func() {
			So(do(mux, http.MethodGet, "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPostProfile(t *testing.T) {
	Convey("Given the profiles endpoint", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)

		Convey("When a valid intake is posted", func() {
			w := do(mux, http.MethodPost, "/profiles", intakeJSON)

			Convey("Then it is accepted and queued", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].UserID, ShouldEqual, "u1")
			})

			Convey("And a replay is reported as duplicate", func() {
				w2 := do(mux, http.MethodPost, "/profiles", intakeJSON)
				So(w2.Code, ShouldEqual, http.StatusOK)
				So(w2.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(deps.enqueued, ShouldHaveLength, 1)
			})
		})

		Convey("When request_id is absent", func() {
			w := do(mux, http.MethodPost, "/profiles", `{"user_id":"u1","email":"ada@acme.io"}`)

			Convey("Then one is generated", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var ack struct {
					RequestID string `json:"request_id"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.RequestID, ShouldNotBeBlank)
				So(deps.enqueued[0].RequestID, ShouldEqual, ack.RequestID)
			})
		})

		Convey("When the intake is invalid", func() {
			So(do(mux, http.MethodPost, "/profiles", `{`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/profiles", `{"email":"ada@acme.io"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/profiles", `{"user_id":"u1"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/profiles", `{"user_id":"u1","email":"nope"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(deps.enqueued, ShouldBeEmpty)
		})

		Convey("When the queue is full", func() {
			deps.enqueueErr = fmt.Errorf("enqueue: %w", queue.ErrFull)
			w := do(mux, http.MethodPost, "/profiles", intakeJSON)

			Convey("Then it answers 429 and forgets the request id", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the queue is closed", func() {
			deps.enqueueErr = queue.ErrClosed
			So(do(mux, http.MethodPost, "/profiles", intakeJSON).Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When sync is requested", func() {
			w := do(mux, http.MethodPost, "/profiles?sync=true", intakeJSON)

			Convey("Then the build runs inline", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.rebuilt, ShouldHaveLength, 1)
				So(deps.enqueued, ShouldBeEmpty)
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			})

			Convey("And a store failure is a 500", func() {
				deps.rebuildErr = errors.New("disk full")
				So(do(mux, http.MethodPost, "/profiles?sync=true", intakeJSON).Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When the method is wrong", func() {
			So(do(mux, http.MethodGet, "/profiles", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPreviewProfile(t *testing.T) {
	Convey("Given the preview endpoint", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)
		w := do(mux, http.MethodPost, "/profiles/preview", intakeJSON)

		Convey("Then the build is returned with its status and nothing is queued", func() {
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"degraded"`)
			So(w.Body.String(), ShouldContainSubstring, "deterministic fallback")
			So(deps.enqueued, ShouldBeEmpty)
			So(deps.rebuilt, ShouldBeEmpty)
		})
	})
}

func TestGetSignals(t *testing.T) {
	Convey("Given stored signals", t, func() {
		deps := newMockDeps()
		deps.signals["u1"] = model.MatchSignals{UserID: "u1", PrimaryIntent: "investing"}
		mux := newMux(deps)

		Convey("Then a known user is returned", func() {
			w := do(mux, http.MethodGet, "/signals/u1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var got model.MatchSignals
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got.PrimaryIntent, ShouldEqual, "investing")
		})

		Convey("Then an unknown user is 404", func() {
			So(do(mux, http.MethodGet, "/signals/nobody", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then a malformed path is 400", func() {
			So(do(mux, http.MethodGet, "/signals/", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/signals/a/b", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetMatches(t *testing.T) {
	Convey("Given the matches endpoint", t, func() {
		deps := newMockDeps()
		deps.matches = []types.MatchEntry{{Rank: 1, UserID: "u2", Score: 70, Reasons: []string{"Shared interests or skills"}}}
		mux := newMux(deps)

		Convey("When no limit is given", func() {
			w := do(mux, http.MethodGet, "/matches/u1", "")

			Convey("Then the default limit is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 10)
				So(w.Body.String(), ShouldContainSubstring, `"user_id":"u2"`)
			})
		})

		Convey("When a limit is given", func() {
			So(do(mux, http.MethodGet, "/matches/u1?limit=3", "").Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 3)
		})

		Convey("When the limit is out of range", func() {
			So(do(mux, http.MethodGet, "/matches/u1?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/matches/u1?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)
			w := do(mux, http.MethodGet, "/matches/u1?limit=51", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "limit_exceeded")
		})

		Convey("When the member is unknown", func() {
			deps.matchErr = repository.ErrNotFound
			So(do(mux, http.MethodGet, "/matches/u1", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When nothing matches", func() {
			deps.matches = nil
			w := do(mux, http.MethodGet, "/matches/u1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})
	})
}

func TestCompatibilityAndAnonymize(t *testing.T) {
	Convey("Given the scoring endpoints", t, func() {
		mux := newMux(newMockDeps())

		Convey("When two members share tags and a role", func() {
			body := `{"a":{"title":"Partner at Seed Co","tags":["fintech","saas"]},"b":{"title":"Partner at Fund","tags":["saas","fintech"]}}`
			w := do(mux, http.MethodPost, "/compatibility", body)

			Convey("Then the score and reasons are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got struct {
					Score   int      `json:"score"`
					Reasons []string `json:"reasons"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.Score, ShouldEqual, 80)
				So(got.Reasons[0], ShouldEqual, "Shared interests or skills")
			})
		})

		Convey("When a preview is requested", func() {
			w := do(mux, http.MethodPost, "/anonymize", `{"title":"VP Engineering, Platform","company":"Acme Corporation"}`)

			Convey("Then the handle is anonymized", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "VP Engineering @ Acme Corpo…")
				So(w.Body.String(), ShouldContainSubstring, "Undisclosed region")
			})
		})

		Convey("When the body is malformed", func() {
			So(do(mux, http.MethodPost, "/compatibility", "[").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/anonymize", "[").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestKindErrors(t *testing.T) {
	Convey("Given classified errors", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("api.op", api.ErrBackpressure, cause)

		Convey("Then they match both kind and cause", func() {
			So(errors.Is(err, api.ErrBackpressure), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: backpressure: boom")
		})

		Convey("Then a bare kind has no cause", func() {
			err := api.NewKind("api.op", api.ErrBadRequest)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request")
		})

		Convey("Then Wrap classifies as internal", func() {
			So(errors.Is(api.Wrap("api.op", cause), api.ErrInternal), ShouldBeTrue)
		})
	})
}
