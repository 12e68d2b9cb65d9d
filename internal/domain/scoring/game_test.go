package scoring_test

import (
	"math"
	"testing"

	"github.com/respiview/respiview/internal/domain/model"
	"github.com/respiview/respiview/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func fp(v float64) *float64 { return &v }

func centeredForecast(horizon int) model.HorizonForecast {
	return model.HorizonForecast{
		Horizon: horizon,
		Median:  100, Lower50: 90, Upper50: 110, Lower95: 80, Upper95: 120,
	}
}

func TestScoreGame(t *testing.T) {
	Convey("Given a game record with multiple horizons", t, func() {
		Convey("When all horizons have finite ground truth", func() {
			rec := model.GameRecord{
				ID:            "2024-01-06_flusight_US",
				UserForecasts: []model.HorizonForecast{centeredForecast(0), centeredForecast(1)},
				GroundTruth:   []*float64{fp(100), fp(70)},
			}
			gs := scoring.ScoreGame(rec)

			Convey("Then the per-horizon WIS values are averaged", func() {
				So(gs.ValidHorizons, ShouldEqual, 2)
				So(gs.WIS, ShouldNotBeNil)
				So(*gs.WIS, ShouldAlmostEqual, (6.0+51.0)/2, 1e-12)
			})
		})

		Convey("When a horizon is missing ground truth", func() {
			rec := model.GameRecord{
				UserForecasts: []model.HorizonForecast{centeredForecast(0), centeredForecast(1), centeredForecast(2)},
				GroundTruth:   []*float64{fp(100), nil, fp(100)},
			}
			gs := scoring.ScoreGame(rec)

			Convey("Then it is excluded from numerator and denominator", func() {
				So(gs.ValidHorizons, ShouldEqual, 2)
				So(*gs.WIS, ShouldAlmostEqual, 6.0, 1e-12)
			})
		})

		Convey("When a horizon has non-finite ground truth", func() {
			rec := model.GameRecord{
				UserForecasts: []model.HorizonForecast{centeredForecast(0), centeredForecast(1)},
				GroundTruth:   []*float64{fp(100), fp(math.NaN())},
			}
			gs := scoring.ScoreGame(rec)

			Convey("Then it is skipped, not treated as zero", func() {
				So(gs.ValidHorizons, ShouldEqual, 1)
				So(*gs.WIS, ShouldAlmostEqual, 6.0, 1e-12)
			})
		})

		Convey("When no horizon can be scored", func() {
			rec := model.GameRecord{
				UserForecasts: []model.HorizonForecast{centeredForecast(0)},
				GroundTruth:   []*float64{nil},
			}
			gs := scoring.ScoreGame(rec)

			Convey("Then the aggregate is nil, not zero", func() {
				So(gs.WIS, ShouldBeNil)
				So(gs.Dispersion, ShouldBeNil)
				So(gs.ValidHorizons, ShouldEqual, 0)
			})
		})

		Convey("When the truth sits exactly on an interval bound", func() {
			rec := model.GameRecord{
				UserForecasts: []model.HorizonForecast{centeredForecast(0), centeredForecast(1)},
				GroundTruth:   []*float64{fp(80), fp(120)},
			}
			gs := scoring.ScoreGame(rec)

			Convey("Then inclusive bounds count it as covered", func() {
				So(gs.CoverageHorizons, ShouldEqual, 2)
				So(gs.Covered95, ShouldEqual, 2)
				So(gs.Covered50, ShouldEqual, 0)
			})
		})
	})
}
