package viewstate_test

import (
	"testing"

	"github.com/respiview/respiview/internal/domain/viewstate"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDisplayParams(t *testing.T) {
	Convey("Given display settings", t, func() {
		Convey("When everything is at the defaults on the forecast route", func() {
			p := viewstate.SetDisplayParams(viewstate.Params{}, viewstate.NewState(), viewstate.RouteForecast)

			Convey("Then no display params are written", func() {
				So(p.Has(viewstate.ParamScale), ShouldBeFalse)
				So(p.Has(viewstate.ParamIntervals), ShouldBeFalse)
				So(p.Has(viewstate.ParamLegend), ShouldBeFalse)
			})
		})

		Convey("When settings diverge from the defaults on the forecast route", func() {
			s := viewstate.NewState()
			s.ChartScale = viewstate.ScaleLog
			s.Intervals = viewstate.IntervalSet{viewstate.IntervalMedian: true, viewstate.IntervalCI95: true}
			s.ShowLegend = false
			p := viewstate.SetDisplayParams(viewstate.Params{}, s, viewstate.RouteForecast)

			Convey("Then they are written", func() {
				So(p.Get(viewstate.ParamScale), ShouldEqual, "log")
				So(p.Get(viewstate.ParamIntervals), ShouldEqual, "ci95,median")
				So(p.Get(viewstate.ParamLegend), ShouldEqual, "false")
			})

			Convey("And applying them back reproduces the state", func() {
				restored := viewstate.ApplyDisplayParams(p, viewstate.NewState())
				So(restored.ChartScale, ShouldEqual, viewstate.ScaleLog)
				So(restored.Intervals[viewstate.IntervalCI95], ShouldBeTrue)
				So(restored.Intervals[viewstate.IntervalCI50], ShouldBeFalse)
				So(restored.ShowLegend, ShouldBeFalse)
			})
		})

		Convey("When off the forecast route", func() {
			s := viewstate.NewState()
			s.ChartScale = viewstate.ScaleSqrt
			p := viewstate.SetDisplayParams(viewstate.Params{"view": "fludetailed"}, s, viewstate.RouteOther)

			Convey("Then the URL is untouched", func() {
				So(p.Has(viewstate.ParamScale), ShouldBeFalse)
				So(p.Get("view"), ShouldEqual, "fludetailed")
			})
		})

		Convey("When parsing a malformed scale", func() {
			So(viewstate.ParseChartScale("exponential"), ShouldEqual, viewstate.ScaleLinear)
		})
	})
}
