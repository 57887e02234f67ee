package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/affinity/internal/adapters/mq/queue"
	"github.com/okian/affinity/internal/adapters/mq/worker"
	"github.com/okian/affinity/internal/domain/model"
	logging "github.com/okian/affinity/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logging.Init()
}

type mockBuilder struct {
	status model.Status
}

func (b mockBuilder) Build(_ context.Context, in model.Intake) model.Result[model.Build] {
	switch b.status {
	case model.StatusFailed:
		return model.Failed[model.Build](errors.New("no user"))
	case model.StatusDegraded:
		return model.Degraded(model.Build{Signals: model.MatchSignals{UserID: in.UserID}}, "geo: fallback")
	}
	return model.OK(model.Build{Signals: model.MatchSignals{UserID: in.UserID}})
}

type mockWriter struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (w *mockWriter) Upsert(_ context.Context, s model.MatchSignals) (model.MatchSignals, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return model.MatchSignals{}, w.err
	}
	w.saved = append(w.saved, s.UserID)
	return s, nil
}

func (w *mockWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.saved)
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	q := queue.NewInMemoryQueue()

	convey.Convey("Given a worker", t, func() {
		writer := &mockWriter{}
		var outcomes []worker.Outcome
		observe := func(o worker.Outcome) { outcomes = append(outcomes, o) }

		convey.Convey("When a build succeeds", func() {
			w := worker.NewInMemoryWorker(q, mockBuilder{}, writer, worker.WithObserver(observe))
			err := w.Process(ctx, model.Intake{RequestID: "r1", UserID: "u1"})

			convey.Convey("Then the signals are stored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(writer.saved, convey.ShouldResemble, []string{"u1"})
				convey.So(outcomes[0].Status, convey.ShouldEqual, model.StatusOK)
				convey.So(outcomes[0].RequestID, convey.ShouldEqual, "r1")
			})
		})

		convey.Convey("When a build is degraded", func() {
			w := worker.NewInMemoryWorker(q, mockBuilder{status: model.StatusDegraded}, writer, worker.WithObserver(observe))
			err := w.Process(ctx, model.Intake{UserID: "u1"})

			convey.Convey("Then the best-effort signals are still stored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(writer.count(), convey.ShouldEqual, 1)
				convey.So(outcomes[0].Status, convey.ShouldEqual, model.StatusDegraded)
			})
		})

		convey.Convey("When a build fails", func() {
			w := worker.NewInMemoryWorker(q, mockBuilder{status: model.StatusFailed}, writer)
			err := w.Process(ctx, model.Intake{})

			convey.Convey("Then nothing is stored", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(writer.count(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the store fails", func() {
			storeErr := errors.New("disk full")
			writer.err = storeErr
			w := worker.NewInMemoryWorker(q, mockBuilder{}, writer, worker.WithObserver(observe))
			err := w.Process(ctx, model.Intake{UserID: "u1"})

			convey.Convey("Then the error propagates", func() {
				convey.So(errors.Is(err, storeErr), convey.ShouldBeTrue)
				convey.So(outcomes[0].Status, convey.ShouldEqual, model.StatusFailed)
				convey.So(outcomes[0].Err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a running pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		writer := &mockWriter{}
		var mu sync.Mutex
		seen := 0
		pool := worker.NewPool(4, q, mockBuilder{}, writer, func(worker.Outcome) {
			mu.Lock()
			seen++
			mu.Unlock()
		})
		pool.Start(ctx)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		for i := 0; i < 50; i++ {
			convey.So(q.Enqueue(ctx, model.Intake{UserID: "u"}), convey.ShouldBeNil)
		}

		convey.Convey("When the pool shuts down", func() {
			sctx, scancel := context.WithTimeout(ctx, 5*time.Second)
			defer scancel()
			err := pool.Shutdown(sctx)

			convey.Convey("Then every queued request was processed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(writer.count(), convey.ShouldEqual, 50)
				mu.Lock()
				convey.So(seen, convey.ShouldEqual, 50)
				mu.Unlock()
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
