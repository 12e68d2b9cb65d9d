package viewstate_test

import (
	"testing"

	"github.com/respiview/respiview/internal/domain/registry"
	"github.com/respiview/respiview/internal/domain/viewstate"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParamsCodec(t *testing.T) {
	Convey("Given a raw query string", t, func() {
		Convey("When parsing a well-formed query", func() {
			p := viewstate.ParseQuery("?view=flutimeseries&flusight_dates=2024-01-06,2024-01-13")

			Convey("Then values should be available by key", func() {
				So(p.Get("view"), ShouldEqual, "flutimeseries")
				So(p.Get("flusight_dates"), ShouldEqual, "2024-01-06,2024-01-13")
			})
		})

		Convey("When parsing malformed input", func() {
			p := viewstate.ParseQuery("%zz=bad")

			Convey("Then parsing should not error and yield empty params", func() {
				So(p.IsEmpty(), ShouldBeTrue)
			})
		})

		Convey("When encoding", func() {
			p := viewstate.Params{"view": "fludetailed", "location": "CA"}

			Convey("Then keys should be in stable sorted order", func() {
				So(p.Encode(), ShouldEqual, "location=CA&view=fludetailed")
				So(p.Encode(), ShouldEqual, p.Clone().Encode())
			})
		})

		Convey("When setting an empty value", func() {
			p := viewstate.Params{"location": "CA"}
			p.Set("location", "")

			Convey("Then the key should be removed", func() {
				So(p.Has("location"), ShouldBeFalse)
			})
		})
	})
}

func TestViewAndLocationAccessors(t *testing.T) {
	reg := registry.Builtin()

	Convey("Given url parameters", t, func() {
		Convey("When the view is absent or unknown", func() {
			So(viewstate.View(viewstate.Params{}, reg), ShouldEqual, "fludetailed")
			So(viewstate.View(viewstate.Params{"view": "bogus"}, reg), ShouldEqual, "fludetailed")
		})

		Convey("When the view is known", func() {
			So(viewstate.View(viewstate.Params{"view": "nhsnall"}, reg), ShouldEqual, "nhsnall")
		})

		Convey("When the location is absent", func() {
			So(viewstate.Location(viewstate.Params{}), ShouldEqual, "US")
		})

		Convey("When reading the effective location for a metro dataset", func() {
			metro := reg.ByShortName("flumetro")
			So(viewstate.EffectiveLocation(viewstate.Params{}, metro), ShouldEqual, "NYC")
			So(viewstate.EffectiveLocation(viewstate.Params{"location": "BOS"}, metro), ShouldEqual, "BOS")
		})
	})
}

func TestSetLocationDefaultOmission(t *testing.T) {
	Convey("Given a location update", t, func() {
		Convey("When the location equals the effective default", func() {
			p := viewstate.SetLocation(viewstate.Params{"location": "CA"}, "US", "US")

			Convey("Then the parameter should be absent, not present-with-default", func() {
				So(p.Has("location"), ShouldBeFalse)
			})
		})

		Convey("When the location differs from the default", func() {
			p := viewstate.SetLocation(viewstate.Params{}, "CA", "US")

			Convey("Then the parameter should be set", func() {
				So(p.Get("location"), ShouldEqual, "CA")
			})
		})
	})
}

func TestDatasetParams(t *testing.T) {
	reg := registry.Builtin()

	Convey("Given dataset-namespaced parameters", t, func() {
		ds := reg.ByShortName("flusight")

		Convey("When the parameters are absent", func() {
			dp := viewstate.GetDatasetParams(viewstate.Params{}, ds)

			Convey("Then lists should be empty, never nil", func() {
				So(dp.Dates, ShouldNotBeNil)
				So(dp.Dates, ShouldBeEmpty)
				So(dp.Models, ShouldNotBeNil)
				So(dp.Models, ShouldBeEmpty)
			})
		})

		Convey("When comma-joined lists are present", func() {
			p := viewstate.Params{
				"flusight_dates":  "2024-01-06,2024-01-13",
				"flusight_models": "FluSight-ensemble",
			}
			dp := viewstate.GetDatasetParams(p, ds)

			Convey("Then they should split on commas", func() {
				So(dp.Dates, ShouldResemble, []string{"2024-01-06", "2024-01-13"})
				So(dp.Models, ShouldResemble, []string{"FluSight-ensemble"})
			})
		})

		Convey("When merging a partial update", func() {
			p := viewstate.Params{
				"flusight_dates": "2024-01-06",
				"view":           "fludetailed",
			}
			out := viewstate.SetDatasetParams(p, ds, viewstate.ModelsPatch([]string{"UMass-flusion", "CU-ensemble"}))

			Convey("Then only the patched field should change", func() {
				So(out.Get("flusight_models"), ShouldEqual, "UMass-flusion,CU-ensemble")
				So(out.Get("flusight_dates"), ShouldEqual, "2024-01-06")
				So(out.Get("view"), ShouldEqual, "fludetailed")
			})

			Convey("And the input params should be untouched", func() {
				So(p.Has("flusight_models"), ShouldBeFalse)
			})
		})

		Convey("When patching columns on the nhsn dataset", func() {
			nhsn := reg.ByShortName("nhsn")
			out := viewstate.SetDatasetParams(viewstate.Params{}, nhsn, viewstate.ColumnsPatch([]string{"totalconfc19newadm"}))

			Convey("Then the columns parameter should be written", func() {
				So(out.Get("nhsn_columns"), ShouldEqual, "totalconfc19newadm")
			})
		})

		Convey("When patching with an empty list", func() {
			p := viewstate.Params{"flusight_models": "stale"}
			out := viewstate.SetDatasetParams(p, ds, viewstate.ModelsPatch([]string{}))

			Convey("Then the parameter should be removed", func() {
				So(out.Has("flusight_models"), ShouldBeFalse)
			})
		})
	})
}
