package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it registers its collectors there", func() {
				So(manager, ShouldNotBeNil)
				manager.storeUpserts.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 5, 10})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When options carry zero values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "affinity")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Pipeline counters move", func() {
			before := testutil.ToFloat64(globalManager.buildsProcessed.WithLabelValues("ok"))
			RecordBuildProcessed("ok")
			So(testutil.ToFloat64(globalManager.buildsProcessed.WithLabelValues("ok")), ShouldEqual, before+1)

			before = testutil.ToFloat64(globalManager.fieldResolutions.WithLabelValues("name", "reasoning"))
			RecordFieldResolution("name", "reasoning")
			So(testutil.ToFloat64(globalManager.fieldResolutions.WithLabelValues("name", "reasoning")), ShouldEqual, before+1)
		})

		Convey("Gauges take the last value", func() {
			UpdateStoreRecords(12)
			So(testutil.ToFloat64(globalManager.storeRecords), ShouldEqual, 12)
			UpdateQueueSize(3)
			So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3)
		})

		Convey("Every recorder is safe to call", func() {
			So(func() {
				RecordBuildDuplicate()
				RecordBuildLatency(12)
				RecordDegradedField("bio")
				RecordReasoningCall("ok")
				RecordReasoningLatency(300)
				RecordReasoningRetry()
				RecordCompatibilityScore(70)
				RecordStoreUpsert()
				RecordStoreError("upsert")
				RecordStoreUpsertLatency(1)
				RecordStoreQueryLatency(1)
				UpdateQueueCapacity(10)
				UpdateQueueUtilization(0.3)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(1)
				UpdateWorkerCount(4)
				UpdateWorkerActiveCount(4)
				UpdateWorkerMessagesPerSecond(1.5)
				RecordWorkerProcessingLatency(20)
				RecordWorkerError()
				RecordHTTPRequest("signals", "GET", "200")
				RecordHTTPRequestDuration("signals", "GET", "200", 3)
				RecordErrorByComponent("store", "closed")
				RecordErrorByType("server_error", "high")
				RecordErrorByEndpoint("signals", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})
	})

	Convey("GetRegistry returns the custom registry", t, func() {
		So(GetRegistry(), ShouldEqual, customRegistry)
	})
}
