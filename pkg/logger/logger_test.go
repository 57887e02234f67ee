package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the logger package", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithWriter(&buf)), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging with fields", func() {
			Named("resolver").Info(context.Background(), "field resolved",
				String("field", "name"),
				Bool("reasoning", true),
				Duration("took", 1500*time.Microsecond),
				Error(errors.New("none")),
			)

			Convey("Then the record carries the group and fields", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "field resolved")
				group, ok := rec["resolver"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["field"], ShouldEqual, "name")
				So(group["took"], ShouldEqual, 1.5)
				So(group["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(context.Background(), "hidden")

			Convey("Then info records are dropped", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("SetLevelString accepts known levels only", t, func() {
		So(SetLevelString("debug"), ShouldBeNil)
		So(SetLevelString("WARNING"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("loud"), ShouldNotBeNil)
	})
}

func TestBuildFields(t *testing.T) {
	Convey("Build-path field helpers use stable keys", t, func() {
		So(UserID("u1"), ShouldResemble, Field{Key: "user_id", Value: "u1"})
		So(RequestID("r1").Key, ShouldEqual, "request_id")
		So(FieldName("bio").Key, ShouldEqual, "field")
	})
}
