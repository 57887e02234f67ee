package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/affinity/internal/app"
	"github.com/okian/affinity/internal/config"
	"github.com/okian/affinity/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestNewReasoner(t *testing.T) {
	convey.Convey("Given reasoning configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When reasoning is disabled", func() {
			r, err := newReasoner(ctx, cfg)

			convey.Convey("Then no reasoner is built", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(r, convey.ShouldBeNil)
			})
		})

		convey.Convey("When reasoning is enabled without a key", func() {
			cfg.ReasoningEnabled = true
			cfg.ReasoningAPIKey = ""
			cfg.ReasoningAPIKeyFile = ""
			_, err := newReasoner(ctx, cfg)

			convey.Convey("Then it fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the key file is missing", func() {
			cfg.ReasoningEnabled = true
			cfg.ReasoningAPIKeyFile = "/nonexistent/key"
			_, err := newReasoner(ctx, cfg)

			convey.Convey("Then it fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the assembled application", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_ = os.Setenv("AFFINITY_WORKER_COUNT", "2")
		defer func() { _ = os.Unsetenv("AFFINITY_WORKER_COUNT") }()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)

		svc := app.New(app.FromConfig(cfg)...)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		mux := newMux(ctx, svc, cfg)
		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then docs and API routes are served", func() {
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/metrics").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/signals/nobody").Code, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("Then a synchronous build is readable back", func() {
			body := `{"user_id":"u1","email":"ada@acme.io","candidates":{"title":[{"value":"CTO","confidence":0.9,"source_type":"first_party"}]}}`
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/profiles?sync=true", strings.NewReader(body)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			got := get("/signals/u1")
			convey.So(got.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(got.Body.String(), convey.ShouldContainSubstring, `"title":"CTO"`)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given cancelled contexts", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then the updaters return", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, app.New()) }, convey.ShouldNotPanic)
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
