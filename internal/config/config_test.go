package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/affinity/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.ReasoningEnabled, convey.ShouldBeFalse)
			convey.So(cfg.ResolverMargin, convey.ShouldEqual, 0.1)
			convey.So(cfg.SourceWeights["first_party"], convey.ShouldBeGreaterThan, cfg.SourceWeights["directory"])
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
