package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelcast/reelcast/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInstall(t *testing.T) {
	Convey("Given a server hosting a script", t, func() {
		script := "function Streams() return {} end"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/demo.lua":
				_, _ = w.Write([]byte(script))
			default:
				http.NotFound(w, r)
			}
		}))
		Reset(server.Close)

		dir := "/install"
		So(filesystem.API().MkdirAll(dir, 0755), ShouldBeNil)

		Convey("The first install writes the file", func() {
			target, changed, err := Install(context.Background(), server.Client(), server.URL+"/demo.lua", dir)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)

			content, err := filesystem.API().ReadFile(target)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, script)

			Convey("A second install is a no-op", func() {
				_, changed, err := Install(context.Background(), server.Client(), server.URL+"/demo.lua", dir)
				So(err, ShouldBeNil)
				So(changed, ShouldBeFalse)
			})
		})

		Convey("Non-lua urls are rejected", func() {
			_, _, err := Install(context.Background(), server.Client(), server.URL+"/demo.txt", dir)
			So(err, ShouldNotBeNil)
		})

		Convey("HTTP errors are reported", func() {
			_, _, err := Install(context.Background(), server.Client(), server.URL+"/missing.lua", dir)
			So(err, ShouldNotBeNil)
		})
	})
}
