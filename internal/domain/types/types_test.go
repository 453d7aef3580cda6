package types_test

import (
	"testing"

	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/domain/scheduler"
	types "github.com/okian/stageorder/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromPlan(t *testing.T) {
	Convey("Given a computed plan", t, func() {
		bands := []*model.Band{
			{ID: "a", Name: "A", IsJamSession: true},
			{ID: "b", Name: "B"},
			{ID: "c", Name: "C"},
		}
		plan := scheduler.New().Plan(bands, nil, nil)

		Convey("When converting without explain", func() {
			ro := types.FromPlan("ev-1", plan, false)

			Convey("Then slots should carry bands only", func() {
				So(ro.EventID, ShouldEqual, "ev-1")
				So(len(ro.Order), ShouldEqual, 3)
				for i, s := range ro.Order {
					So(s.Position, ShouldEqual, i)
					So(s.Detail, ShouldBeNil)
				}
			})
		})

		Convey("When converting with explain", func() {
			ro := types.FromPlan("", plan, true)

			Convey("Then every slot should carry its score details", func() {
				last := ro.Order[len(ro.Order)-1]
				So(last.Band.ID, ShouldEqual, "a")
				So(last.Detail, ShouldNotBeNil)
				So(last.Detail.IsJam, ShouldBeTrue)
				So(last.Detail.Score, ShouldEqual, last.Detail.Breakdown.Total())
			})
		})
	})
}
