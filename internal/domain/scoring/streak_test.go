package scoring_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/respiview/respiview/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func clockAt(date string) clockwork.Clock {
	t, _ := time.ParseInLocation("2006-01-02", date, time.UTC)
	return clockwork.NewFakeClockAt(t.Add(15 * time.Hour))
}

func TestStreaks(t *testing.T) {
	Convey("Given played challenge dates", t, func() {
		Convey("When the run reaches today", func() {
			dates := []string{"2024-01-05", "2024-01-04", "2024-01-03", "2024-01-01"}
			current, longest := scoring.Streaks(dates, clockAt("2024-01-05"))

			Convey("Then the current streak counts back from the latest date", func() {
				So(current, ShouldEqual, 3)
				So(longest, ShouldEqual, 3)
			})
		})

		Convey("When the latest play was yesterday", func() {
			dates := []string{"2024-01-04", "2024-01-03"}
			current, longest := scoring.Streaks(dates, clockAt("2024-01-05"))

			Convey("Then the streak is still alive", func() {
				So(current, ShouldEqual, 2)
				So(longest, ShouldEqual, 2)
			})
		})

		Convey("When the latest play is older than yesterday", func() {
			dates := []string{"2024-01-02", "2024-01-01"}
			current, longest := scoring.Streaks(dates, clockAt("2024-01-05"))

			Convey("Then the current streak is zero but the max survives", func() {
				So(current, ShouldEqual, 0)
				So(longest, ShouldEqual, 2)
			})
		})

		Convey("When history holds a longer past run", func() {
			dates := []string{
				"2024-01-10",
				"2024-01-05", "2024-01-04", "2024-01-03", "2024-01-02",
			}
			current, longest := scoring.Streaks(dates, clockAt("2024-01-10"))

			Convey("Then the max streak is the past run", func() {
				So(current, ShouldEqual, 1)
				So(longest, ShouldEqual, 4)
			})
		})

		Convey("When dates repeat on the same calendar day", func() {
			dates := []string{"2024-01-05", "2024-01-05", "2024-01-04"}
			current, longest := scoring.Streaks(dates, clockAt("2024-01-05"))

			Convey("Then duplicates collapse to one day", func() {
				So(current, ShouldEqual, 2)
				So(longest, ShouldEqual, 2)
			})
		})

		Convey("When a date is malformed", func() {
			dates := []string{"2024-01-05", "not-a-date", "2024-01-04"}
			current, longest := scoring.Streaks(dates, clockAt("2024-01-05"))

			Convey("Then it is ignored", func() {
				So(current, ShouldEqual, 2)
				So(longest, ShouldEqual, 2)
			})
		})

		Convey("When there are no dates", func() {
			current, longest := scoring.Streaks(nil, clockAt("2024-01-05"))

			Convey("Then both streaks are zero", func() {
				So(current, ShouldEqual, 0)
				So(longest, ShouldEqual, 0)
			})
		})
	})
}
