package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/affinity/internal/adapters/mq/queue"
	"github.com/okian/affinity/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity two", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When it is filled", func() {
			So(q.Enqueue(ctx, model.Intake{UserID: "a"}), ShouldBeNil)
			So(q.Enqueue(ctx, model.Intake{UserID: "b"}), ShouldBeNil)

			Convey("Then a third request is rejected as full", func() {
				So(errors.Is(q.Enqueue(ctx, model.Intake{UserID: "c"}), queue.ErrFull), ShouldBeTrue)
				So(q.Len(), ShouldEqual, 2)
			})

			Convey("Then requests come out in order", func() {
				dctx, cancel := context.WithCancel(ctx)
				defer cancel()
				ch := q.Dequeue(dctx)
				So((<-ch).UserID, ShouldEqual, "a")
				So((<-ch).UserID, ShouldEqual, "b")
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, model.Intake{UserID: "a"}), ShouldBeNil)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then new requests are refused but queued ones drain", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, model.Intake{UserID: "b"}), queue.ErrClosed), ShouldBeTrue)

				var got []string
				for r := range q.Dequeue(ctx) {
					got = append(got, r.UserID)
				}
				So(got, ShouldResemble, []string{"a"})
			})
		})

		Convey("When the caller's context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(q.Enqueue(cctx, model.Intake{UserID: "a"}), ShouldNotBeNil)
			So(q.Len(), ShouldEqual, 0)
		})

		Convey("When a consumer stops", func() {
			dctx, cancel := context.WithCancel(ctx)
			ch := q.Dequeue(dctx)
			cancel()

			Convey("Then its channel closes", func() {
				select {
				case _, ok := <-ch:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					So("channel still open", ShouldBeEmpty)
				}
			})
		})
	})
}
