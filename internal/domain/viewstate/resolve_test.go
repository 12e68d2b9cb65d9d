package viewstate_test

import (
	"testing"

	"github.com/respiview/respiview/internal/domain/registry"
	"github.com/respiview/respiview/internal/domain/viewstate"
	. "github.com/smartystreets/goconvey/convey"
)

func flusightMeta() viewstate.Metadata {
	return viewstate.Metadata{
		AvailableDates:  []string{"2024-01-06", "2024-01-13", "2024-01-20"},
		AvailableModels: []string{"FluSight-ensemble", "UMass-flusion", "CU-ensemble"},
		AvailableTargets: []string{
			"wk inc flu hosp",
			"wk flu hosp rate change",
			viewstate.TargetPeakIncidence,
			viewstate.TargetPeakWeek,
		},
		PeakDates:  []string{"2024-11-02", "2025-09-06", "2025-10-04"},
		PeakModels: []string{"PeakEnsemble"},
	}
}

func TestResolveModelsAndDates(t *testing.T) {
	reg := registry.Builtin()

	Convey("Given loaded metadata for the flusight dataset", t, func() {
		meta := flusightMeta()

		Convey("When the URL provides valid models and dates", func() {
			p := viewstate.Params{
				"view":            "fludetailed",
				"flusight_models": "UMass-flusion,CU-ensemble",
				"flusight_dates":  "2024-01-06,2024-01-13",
			}
			res := viewstate.Resolve(reg, p, meta, viewstate.NewState())

			Convey("Then the URL selections win and nothing is written back", func() {
				So(res.State.SelectedModels, ShouldResemble, []string{"UMass-flusion", "CU-ensemble"})
				So(res.State.SelectedDates, ShouldResemble, []string{"2024-01-06", "2024-01-13"})
				So(res.WroteBack, ShouldBeFalse)
			})
		})

		Convey("When the URL is empty", func() {
			p := viewstate.Params{"view": "fludetailed"}
			res := viewstate.Resolve(reg, p, meta, viewstate.NewState())

			Convey("Then the dataset default model is selected", func() {
				So(res.State.SelectedModels, ShouldResemble, []string{"FluSight-ensemble"})
			})

			Convey("And the single latest date is selected", func() {
				So(res.State.SelectedDates, ShouldResemble, []string{"2024-01-20"})
				So(res.State.ActiveDate, ShouldEqual, "2024-01-20")
			})

			Convey("And only models are written back into the URL", func() {
				So(res.WroteBack, ShouldBeTrue)
				So(res.Params.Get("flusight_models"), ShouldEqual, "FluSight-ensemble")
				So(res.Params.Has("flusight_dates"), ShouldBeFalse)
			})
		})

		Convey("When the URL models are all stale", func() {
			p := viewstate.Params{
				"view":            "fludetailed",
				"flusight_models": "RetiredModel",
			}
			res := viewstate.Resolve(reg, p, meta, viewstate.NewState())

			Convey("Then the default model replaces them silently", func() {
				So(res.State.SelectedModels, ShouldResemble, []string{"FluSight-ensemble"})
				So(res.Corrected, ShouldBeTrue)
			})
		})

		Convey("When the dataset default model is itself unavailable", func() {
			meta.AvailableModels = []string{"UMass-flusion"}
			p := viewstate.Params{"view": "fludetailed"}
			res := viewstate.Resolve(reg, p, meta, viewstate.NewState())

			Convey("Then the first available model is used", func() {
				So(res.State.SelectedModels, ShouldResemble, []string{"UMass-flusion"})
			})
		})

		Convey("When the URL repeats a model", func() {
			p := viewstate.Params{
				"view":            "fludetailed",
				"flusight_models": "UMass-flusion,UMass-flusion",
			}
			res := viewstate.Resolve(reg, p, meta, viewstate.NewState())

			Convey("Then duplicates are dropped preserving order", func() {
				So(res.State.SelectedModels, ShouldResemble, []string{"UMass-flusion"})
			})
		})
	})
}

func TestResolveActiveDateInvariant(t *testing.T) {
	reg := registry.Builtin()

	Convey("Given a current state with an active date", t, func() {
		meta := flusightMeta()
		p := viewstate.Params{
			"view":           "fludetailed",
			"flusight_dates": "2024-01-06,2024-01-13",
		}

		Convey("When the active date is still a selected date", func() {
			s := viewstate.NewState()
			s.ActiveDate = "2024-01-06"
			res := viewstate.Resolve(reg, p, meta, s)

			Convey("Then it is preserved", func() {
				So(res.State.ActiveDate, ShouldEqual, "2024-01-06")
			})
		})

		Convey("When the active date fell out of the selection", func() {
			s := viewstate.NewState()
			s.ActiveDate = "2023-12-30"
			res := viewstate.Resolve(reg, p, meta, s)

			Convey("Then it snaps to the latest selected date", func() {
				So(res.State.ActiveDate, ShouldEqual, "2024-01-13")
			})
		})
	})
}

func TestResolveTargetValidity(t *testing.T) {
	reg := registry.Builtin()

	Convey("Given a target parameter", t, func() {
		meta := flusightMeta()

		Convey("When the target is available", func() {
			p := viewstate.Params{
				"view":            "fludetailed",
				"flusight_target": "wk inc flu hosp",
			}
			res := viewstate.Resolve(reg, p, meta, viewstate.NewState())

			Convey("Then it is selected", func() {
				So(res.State.SelectedTarget, ShouldEqual, "wk inc flu hosp")
			})
		})

		Convey("When the target is not in the available set", func() {
			p := viewstate.Params{
				"view":            "fludetailed",
				"flusight_target": "made up target",
			}
			s := viewstate.NewState()
			s.SelectedTarget = "made up target"
			res := viewstate.Resolve(reg, p, meta, s)

			Convey("Then it is cleared rather than erroring", func() {
				So(res.State.SelectedTarget, ShouldEqual, "")
				So(res.Corrected, ShouldBeTrue)
			})
		})

		Convey("When the target is a peak-only name on a generic view", func() {
			p := viewstate.Params{
				"view":            "fludetailed",
				"flusight_target": viewstate.TargetPeakIncidence,
			}
			res := viewstate.Resolve(reg, p, meta, viewstate.NewState())

			Convey("Then the peak target does not leak into the generic selector", func() {
				So(res.State.SelectedTarget, ShouldEqual, "")
			})
		})
	})
}

func TestResolvePeakView(t *testing.T) {
	reg := registry.Builtin()

	Convey("Given the special peak view", t, func() {
		meta := flusightMeta()
		p := viewstate.Params{"view": "flu_peak"}
		res := viewstate.Resolve(reg, p, meta, viewstate.NewState())

		Convey("Then the peak model source is used", func() {
			So(res.State.SelectedModels, ShouldResemble, []string{"PeakEnsemble"})
		})

		Convey("Then peak dates are filtered to the current season", func() {
			So(res.State.SelectedDates, ShouldResemble, []string{"2025-10-04"})
		})
	})
}

func TestResolveIdempotence(t *testing.T) {
	reg := registry.Builtin()

	Convey("Given a first reconciliation run", t, func() {
		meta := flusightMeta()
		p := viewstate.Params{"view": "fludetailed"}
		first := viewstate.Resolve(reg, p, meta, viewstate.NewState())
		So(first.WroteBack, ShouldBeTrue)

		Convey("When resolving again with unchanged inputs", func() {
			second := viewstate.Resolve(reg, first.Params, meta, first.State)

			Convey("Then no further mutation occurs", func() {
				So(second.WroteBack, ShouldBeFalse)
				So(second.Params.Equal(first.Params), ShouldBeTrue)
				So(second.State.SelectedModels, ShouldResemble, first.State.SelectedModels)
				So(second.State.SelectedDates, ShouldResemble, first.State.SelectedDates)
				So(second.State.ActiveDate, ShouldEqual, first.State.ActiveDate)
			})
		})
	})
}
