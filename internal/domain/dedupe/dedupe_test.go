package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/affinity/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a default deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		So(d.Size(), ShouldEqual, 0)

		Convey("When a request id is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "req-1")
			second := d.SeenAndRecord(ctx, "req-1")

			Convey("Then only the second call reports it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a recorded id is unrecorded", func() {
			d.SeenAndRecord(ctx, "req-1")
			d.Unrecord(ctx, "req-1")

			Convey("Then it can be submitted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})
		})

		Convey("When an unknown id is unrecorded", func() {
			d.Unrecord(ctx, "missing")
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a deduper capped at three ids", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"req-1", "req-2", "req-3", "req-4"} {
			So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
		}

		Convey("Then the oldest id is evicted first", func() {
			So(d.Size(), ShouldEqual, 3)
			So(d.SeenAndRecord(ctx, "req-4"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "req-3"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 3)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i))
		}

		Convey("Then nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "req-0"), ShouldBeTrue)
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given concurrent submitters sharing ids", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(10_000))
		const workers, ids = 8, 200

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh int
		)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < ids; i++ {
					if !d.SeenAndRecord(context.Background(), fmt.Sprintf("req-%d", i)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each id is accepted exactly once", func() {
			So(fresh, ShouldEqual, ids)
			So(d.Size(), ShouldEqual, ids)
		})
	})
}
