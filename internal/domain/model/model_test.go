package model_test

import (
	"math"
	"testing"

	"github.com/respiview/respiview/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeriveID(t *testing.T) {
	Convey("Given game key fields", t, func() {
		Convey("When deriving the id", func() {
			id := model.DeriveID("2024-01-06", "flusight", "CA")

			Convey("Then it should join them with underscores", func() {
				So(id, ShouldEqual, "2024-01-06_flusight_CA")
			})
		})

		Convey("When stamping a record with its derived id", func() {
			rec := model.GameRecord{
				ChallengeDate: "2024-01-06",
				Dataset:       "covid",
				Location:      "US",
			}.WithDerivedID()

			Convey("Then the id should follow the natural key", func() {
				So(rec.ID, ShouldEqual, "2024-01-06_covid_US")
			})
		})
	})
}

func TestQuantileSet(t *testing.T) {
	Convey("Given a quantile prediction", t, func() {
		Convey("When all five required levels are present", func() {
			qs := model.FromPrediction(model.Prediction{
				Quantiles: []float64{0.025, 0.25, 0.5, 0.75, 0.975},
				Values:    []float64{80, 90, 100, 110, 120},
			})

			Convey("Then it should be complete", func() {
				So(qs.Complete(), ShouldBeTrue)
				So(qs[model.QuantileMedian], ShouldEqual, 100)
			})
		})

		Convey("When a required level is missing", func() {
			qs := model.FromPrediction(model.Prediction{
				Quantiles: []float64{0.25, 0.5, 0.75},
				Values:    []float64{90, 100, 110},
			})

			Convey("Then it should be incomplete", func() {
				So(qs.Complete(), ShouldBeFalse)
			})
		})

		Convey("When a required level is non-finite", func() {
			qs := model.QuantileSet{
				0.025: 80, 0.25: 90, 0.5: math.NaN(), 0.75: 110, 0.975: 120,
			}

			Convey("Then it should be incomplete", func() {
				So(qs.Complete(), ShouldBeFalse)
			})
		})

		Convey("When the parallel arrays are mismatched", func() {
			qs := model.FromPrediction(model.Prediction{
				Quantiles: []float64{0.025, 0.25, 0.5},
				Values:    []float64{80, 90},
			})

			Convey("Then only the shared prefix is kept", func() {
				So(len(qs), ShouldEqual, 2)
			})
		})
	})
}
