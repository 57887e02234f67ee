package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/affinity/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestMatchEntryJSON(t *testing.T) {
	convey.Convey("Given a match entry", t, func() {
		e := types.MatchEntry{
			Rank:     1,
			UserID:   "u-2",
			Score:    60,
			Reasons:  []string{"Shared interests or skills"},
			Handle:   "CTO @ Acme",
			Location: "Undisclosed region",
		}

		convey.Convey("When marshalled", func() {
			data, err := json.Marshal(e)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it uses snake_case keys", func() {
				var m map[string]any
				convey.So(json.Unmarshal(data, &m), convey.ShouldBeNil)
				convey.So(m, convey.ShouldContainKey, "user_id")
				convey.So(m["handle"], convey.ShouldEqual, "CTO @ Acme")
				convey.So(m["score"], convey.ShouldEqual, 60.0)
			})
		})
	})
}
