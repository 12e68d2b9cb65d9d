package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/respiview/respiview/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFileStorePersistence(t *testing.T) {
	Convey("Given a file-backed game store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "games.json")

		Convey("When saving records and reopening the store", func() {
			store, err := repository.NewFileStore(ctx, path)
			So(err, ShouldBeNil)
			So(store.Save(ctx, record("2024-01-06", "flusight", "US", 100)), ShouldBeNil)
			So(store.Save(ctx, record("2024-01-13", "flusight", "US", 200)), ShouldBeNil)

			reopened, err := repository.NewFileStore(ctx, path)
			So(err, ShouldBeNil)

			Convey("Then the records survive the restart", func() {
				So(reopened.Count(ctx), ShouldEqual, 2)
				got, err := reopened.Get(ctx, "2024-01-13_flusight_US")
				So(err, ShouldBeNil)
				So(got.UserForecasts[0].Median, ShouldEqual, 200)
			})
		})

		Convey("When the store file is malformed", func() {
			So(os.WriteFile(path, []byte("{{{not json"), 0o600), ShouldBeNil)

			store, err := repository.NewFileStore(ctx, path)

			Convey("Then it opens as an empty store instead of failing", func() {
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 0)
			})

			Convey("And new saves repair the file", func() {
				So(err, ShouldBeNil)
				So(store.Save(ctx, record("2024-01-06", "flusight", "US", 1)), ShouldBeNil)
				reopened, err := repository.NewFileStore(ctx, path)
				So(err, ShouldBeNil)
				So(reopened.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When clearing a persisted store", func() {
			store, err := repository.NewFileStore(ctx, path)
			So(err, ShouldBeNil)
			So(store.Save(ctx, record("2024-01-06", "flusight", "US", 1)), ShouldBeNil)
			So(store.Clear(ctx), ShouldBeNil)

			reopened, err := repository.NewFileStore(ctx, path)

			Convey("Then the cleared state persists", func() {
				So(err, ShouldBeNil)
				So(reopened.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}
